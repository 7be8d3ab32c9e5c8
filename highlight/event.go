// Package highlight projects an offset-ordered syntax highlight event stream
// onto per-line styled text runs. The highlighter engine producing the
// events lives outside this package; only the stream shape is defined here.
package highlight

// EventKind is the stack operation an event performs.
type EventKind uint8

const (
	// Push appends the event's scopes to the active stack.
	Push EventKind = iota
	// Refresh discards the whole stack and replaces it with the event's
	// scopes, resolved over the theme base.
	Refresh
)

// Event marks a point in the document where the active scopes change.
// Offsets are absolute byte offsets and non-decreasing within one frame.
type Event struct {
	Kind   EventKind
	Offset int
	Scopes []string
}

// Source is a forward-only event stream. Peek never consumes; the projector
// advances with Next only after fully applying an event, so events on a line
// boundary are not consumed prematurely by the previous line.
type Source interface {
	Peek() (Event, bool)
	Next()
}

type sliceSource struct {
	events []Event
	pos    int
}

// Events wraps a pre-built event slice as a Source.
func Events(evs ...Event) Source {
	return &sliceSource{events: evs}
}

func (s *sliceSource) Peek() (Event, bool) {
	if s.pos >= len(s.events) {
		return Event{}, false
	}
	return s.events[s.pos], true
}

func (s *sliceSource) Next() {
	if s.pos < len(s.events) {
		s.pos++
	}
}
