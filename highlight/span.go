package highlight

// Span is one styled run of line text. The spans emitted for a line exactly
// tile its text: no gaps, no overlaps.
type Span struct {
	Text  string
	Style Style
}

// Cursor tracks the projector's position in the event stream: the last
// applied offset and the active scope-style stack. The stack is an
// index-addressed growable array; Push appends, Refresh truncates and
// repopulates. A cursor lives for one frame and restarts from offset zero on
// the next — no cross-frame incrementality.
type Cursor struct {
	theme *Theme
	stack []Style
}

// NewCursor starts a cursor at offset zero with an empty stack.
func NewCursor(theme *Theme) *Cursor {
	return &Cursor{theme: theme, stack: make([]Style, 0, 8)}
}

// apply folds one event into the stack. Refresh resets the whole stack to
// the theme base before applying its scopes; Push only appends.
func (c *Cursor) apply(ev Event) {
	if ev.Kind == Refresh {
		c.stack = c.stack[:0]
	}
	for _, scope := range ev.Scopes {
		c.stack = append(c.stack, c.theme.Style(scope))
	}
}

// current resolves the active style: the theme base overlaid by every stack
// entry in push order. Later scopes override only the attributes they set.
func (c *Cursor) current() Style {
	s := c.theme.Base()
	for _, e := range c.stack {
		s = s.Patch(e)
	}
	return s
}

// Projector turns highlight events into per-line spans.
type Projector struct {
	theme *Theme
}

// NewProjector builds a projector over a theme.
func NewProjector(theme *Theme) *Projector {
	if theme == nil {
		theme = DefaultTheme()
	}
	return &Projector{theme: theme}
}

// Theme returns the active theme.
func (p *Projector) Theme() *Theme {
	return p.theme
}

// LineSpans projects the events in [start, start+len(line)) onto the line's
// text. The cursor carries stack state forward between successive lines of
// the same frame; pass the same cursor for each line, top to bottom.
//
// With a nil source the whole line is a single base-styled run. Offsets that
// fall outside the line are clamped silently: they can arise transiently
// while a resize or edit races a stale highlight stream.
func (p *Projector) LineSpans(cur *Cursor, line string, start int, src Source) []Span {
	if src == nil {
		return []Span{{Text: line, Style: p.theme.Base()}}
	}
	if cur == nil {
		cur = NewCursor(p.theme)
	}
	end := start + len(line)

	// Apply everything strictly before the line without emitting text.
	for {
		ev, ok := src.Peek()
		if !ok || ev.Offset >= start {
			break
		}
		cur.apply(ev)
		src.Next()
	}

	// Walk events inside the line, closing a run at each style split point.
	spans := make([]Span, 0, 4)
	last := start
	for {
		ev, ok := src.Peek()
		if !ok || ev.Offset >= end {
			break
		}
		off := ev.Offset
		if off < last {
			off = last // clamp; offsets are non-decreasing by contract
		}
		if off > last {
			spans = append(spans, Span{Text: line[last-start : off-start], Style: cur.current()})
			last = off
		}
		cur.apply(ev)
		src.Next()
	}

	// Close the final run. Zero events in range yields exactly this one run.
	spans = append(spans, Span{Text: line[last-start:], Style: cur.current()})
	return spans
}
