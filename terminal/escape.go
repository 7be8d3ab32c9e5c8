package terminal

import "time"

// DefaultEscapeTimeout is long enough to absorb the inter-byte gap of a
// multi-byte sequence arriving over a slow channel, and short enough that a
// real Escape press does not feel delayed.
const DefaultEscapeTimeout = 20 * time.Millisecond

// Disambiguator wraps a Decoder with the short timer that distinguishes a
// standalone Escape keypress from the first byte of an escape sequence.
//
// States: idle (timer nil, nothing held back), pending (a lone ESC byte was
// read and the timer is armed). At most one timer is ever outstanding; any
// byte arrival disarms it, as does firing.
type Disambiguator struct {
	dec     *Decoder
	timeout time.Duration

	timer   *time.Timer
	timerC  <-chan time.Time
	pending bool
}

// NewDisambiguator wraps a fresh decoder. A non-positive timeout falls back
// to DefaultEscapeTimeout.
func NewDisambiguator(timeout time.Duration) *Disambiguator {
	if timeout <= 0 {
		timeout = DefaultEscapeTimeout
	}
	return &Disambiguator{
		dec:     NewDecoder(),
		timeout: timeout,
	}
}

// TimerC returns the pending-escape timer channel, or nil when no escape is
// pending. A nil channel blocks forever in select, so callers can wire this
// directly into their wait set.
func (d *Disambiguator) TimerC() <-chan time.Time {
	return d.timerC
}

// Feed passes a read chunk through disambiguation and decoding, returning
// every completed event in arrival order. The disambiguation window only
// delays a lone ESC; it never reorders.
//
// A chunk that is exactly one ESC byte, with no partial sequence buffered,
// arms the timer and emits nothing. Anything else disarms a pending timer,
// re-queues the held ESC in front of the new bytes and decodes normally —
// a chunk carrying ESC plus more bytes never enters the pending state.
func (d *Disambiguator) Feed(chunk []byte) []Event {
	if d.pending {
		d.disarm()
		buf := make([]byte, 0, len(chunk)+1)
		buf = append(buf, 0x1b)
		chunk = append(buf, chunk...)
	}

	if len(chunk) == 1 && chunk[0] == 0x1b && d.dec.Empty() {
		d.arm()
		return nil
	}

	return d.dec.Advance(chunk)
}

// Expire handles the timer firing: no further bytes arrived inside the
// window, so the held ESC was a real Escape press. Exactly one event is
// emitted per armed timer.
func (d *Disambiguator) Expire() Event {
	d.timer = nil
	d.timerC = nil
	d.pending = false
	return KeyEvent(KeyEscape, ModNone)
}

func (d *Disambiguator) arm() {
	d.pending = true
	d.timer = time.NewTimer(d.timeout)
	d.timerC = d.timer.C
}

func (d *Disambiguator) disarm() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.timerC = nil
	d.pending = false
}
