package terminal

import "unicode/utf8"

// EventType distinguishes input event categories.
type EventType uint8

const (
	EventKey EventType = iota
	EventResize
	EventIdle
)

// Event is a structured input event. Immutable once built.
type Event struct {
	Type EventType
	Key  Key
	Rune rune
	Mods Modifier

	// EventResize only.
	Width  int
	Height int
}

// KeyEvent builds a key event for a special key.
func KeyEvent(k Key, mods Modifier) Event {
	return Event{Type: EventKey, Key: k, Mods: mods}
}

// RuneEvent builds a key event for a printable character.
func RuneEvent(r rune, mods Modifier) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: r, Mods: mods}
}

// ResizeEvent builds a terminal resize event.
func ResizeEvent(width, height int) Event {
	return Event{Type: EventResize, Width: width, Height: height}
}

// Decoder incrementally parses raw terminal input into events. State
// persists across calls: at most one incomplete sequence prefix is buffered,
// never a complete one. Malformed bytes are dropped, not surfaced as errors.
type Decoder struct {
	buf []byte
}

// NewDecoder returns an empty decoder.
func NewDecoder() *Decoder {
	return &Decoder{buf: make([]byte, 0, 128)}
}

// Empty reports whether no partial sequence is buffered.
func (d *Decoder) Empty() bool {
	return len(d.buf) == 0
}

// Advance feeds a chunk of raw bytes and returns every event completed by
// it, in arrival order. Incomplete trailing bytes stay buffered for the next
// call.
func (d *Decoder) Advance(data []byte) []Event {
	d.buf = append(d.buf, data...)

	var events []Event
	i := 0
	n := len(d.buf)

	for i < n {
		b := d.buf[i]

		// Fast path: printable ASCII.
		if b >= 0x20 && b < 0x7f {
			events = append(events, RuneEvent(rune(b), ModNone))
			i++
			continue
		}

		if b == 0x1b {
			consumed, ev, ok := parseEscape(d.buf[i:])
			if consumed == 0 {
				break // incomplete, wait for more bytes
			}
			if ok {
				events = append(events, ev)
			}
			i += consumed
			continue
		}

		if b < 0x20 {
			events = append(events, KeyEvent(controlKeys[b], ModNone))
			i++
			continue
		}

		if b == 0x7f {
			events = append(events, KeyEvent(KeyBackspace, ModNone))
			i++
			continue
		}

		// UTF-8 multibyte. A valid but unfinished prefix stays buffered;
		// erroneous encodings decode to RuneError with size 1 and are dropped.
		if !utf8.FullRune(d.buf[i:]) {
			break
		}
		r, size := utf8.DecodeRune(d.buf[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		events = append(events, RuneEvent(r, ModNone))
		i += size
	}

	d.compact(i)
	return events
}

// compact drops consumed bytes, keeping any incomplete tail.
func (d *Decoder) compact(consumed int) {
	if consumed == 0 {
		return
	}
	if consumed >= len(d.buf) {
		d.buf = d.buf[:0]
		return
	}
	copy(d.buf, d.buf[consumed:])
	d.buf = d.buf[:len(d.buf)-consumed]
}

// parseEscape parses one escape-introduced sequence. It returns the bytes
// consumed (0 if incomplete), the event, and whether the event should be
// emitted (unknown-but-complete sequences are consumed and dropped).
func parseEscape(data []byte) (int, Event, bool) {
	if len(data) < 2 {
		return 0, Event{}, false
	}

	switch {
	case data[1] == 0x1b:
		return 2, KeyEvent(KeyEscape, ModAlt), true
	case data[1] == '[':
		return parseCSI(data)
	case data[1] == 'O':
		return parseSS3(data)
	case data[1] < 0x20:
		ev := KeyEvent(controlKeys[data[1]], ModAlt)
		return 2, ev, true
	case data[1] >= 0x20 && data[1] < 0x7f:
		return 2, RuneEvent(rune(data[1]), ModAlt), true
	}
	// ESC followed by a byte outside any known sequence form: drop both.
	return 2, Event{}, false
}

// maxCSILen bounds the scan so a hostile stream cannot buffer unboundedly.
const maxCSILen = 32

// parseCSI parses ESC [ parameters final.
func parseCSI(data []byte) (int, Event, bool) {
	if len(data) < 3 {
		return 0, Event{}, false
	}

	// Scan for the final byte. Parameter bytes are 0x20-0x3f.
	end := 2
	for end < len(data) && end < maxCSILen {
		b := data[end]
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if b < 0x20 || b > 0x3f {
			// Garbage inside a CSI sequence: drop everything scanned.
			return end + 1, Event{}, false
		}
		end++
	}
	if end >= len(data) {
		return 0, Event{}, false // incomplete
	}
	if end >= maxCSILen {
		// Oversized sequence, abandon it.
		return end, Event{}, false
	}

	final := data[end]
	params := parseParams(data[2:end])
	if key, mod, ok := lookupCSI(params, final); ok {
		return end + 1, KeyEvent(key, mod), true
	}
	return end + 1, Event{}, false
}

// parseSS3 parses ESC O final.
func parseSS3(data []byte) (int, Event, bool) {
	if len(data) < 3 {
		return 0, Event{}, false
	}
	if key, mod, ok := lookupSS3(data[2]); ok {
		return 3, KeyEvent(key, mod), true
	}
	return 3, Event{}, false
}

// parseParams splits semicolon-separated decimal parameters without
// allocation beyond the result slice. Empty parameters decode as zero.
func parseParams(data []byte) []int {
	if len(data) == 0 {
		return nil
	}
	params := make([]int, 0, 4)
	val := 0
	for _, b := range data {
		switch {
		case b >= '0' && b <= '9':
			val = val*10 + int(b-'0')
			if val > 9999 {
				val = 9999
			}
		case b == ';':
			params = append(params, val)
			val = 0
		default:
			// Sub-parameters and private markers are not distinguished here.
		}
	}
	return append(params, val)
}
