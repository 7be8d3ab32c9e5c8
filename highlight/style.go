package highlight

import "github.com/tkxue/helix/terminal"

// Style is a partial cell style: colors carry a set flag so that overlaying
// styles override only the attributes they actually set. The zero value sets
// nothing.
type Style struct {
	Fg             terminal.Color
	Bg             terminal.Color
	FgSet          bool
	BgSet          bool
	Attrs          terminal.Attr
	Underline      terminal.UnderlineStyle
	UnderlineColor terminal.Color
}

// WithFg returns a copy with the foreground set.
func (s Style) WithFg(c terminal.Color) Style {
	s.Fg = c
	s.FgSet = true
	return s
}

// WithBg returns a copy with the background set.
func (s Style) WithBg(c terminal.Color) Style {
	s.Bg = c
	s.BgSet = true
	return s
}

// WithAttrs returns a copy with the attributes added.
func (s Style) WithAttrs(a terminal.Attr) Style {
	s.Attrs |= a
	return s
}

// Patch overlays o onto s attribute-wise: colors replace only when o sets
// them, attribute bits accumulate, a non-none underline wins.
func (s Style) Patch(o Style) Style {
	if o.FgSet {
		s.Fg = o.Fg
		s.FgSet = true
	}
	if o.BgSet {
		s.Bg = o.Bg
		s.BgSet = true
	}
	s.Attrs |= o.Attrs
	if o.Underline != terminal.UnderlineNone {
		s.Underline = o.Underline
	}
	if o.UnderlineColor != terminal.Reset {
		s.UnderlineColor = o.UnderlineColor
	}
	return s
}

// Cell materializes the style onto a text unit. Unset colors fall through to
// the terminal defaults.
func (s Style) Cell(text string) terminal.Cell {
	c := terminal.Cell{Text: text, Attrs: s.Attrs, Underline: s.Underline, UnderlineColor: s.UnderlineColor}
	if s.FgSet {
		c.Fg = s.Fg
	}
	if s.BgSet {
		c.Bg = s.Bg
	}
	return c
}
