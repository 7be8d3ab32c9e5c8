package terminal

// Attr is a bitmask of text attributes.
type Attr uint8

const (
	AttrNone          Attr = 0
	AttrBold          Attr = 1 << 0
	AttrDim           Attr = 1 << 1
	AttrItalic        Attr = 1 << 2
	AttrBlink         Attr = 1 << 3
	AttrReverse       Attr = 1 << 4
	AttrStrikethrough Attr = 1 << 5
)

// UnderlineStyle selects the underline rendering. Styled underlines use the
// Kitty/VTE `4:n` sub-parameter form; plain SGR 4 is kept for the line style
// since it is universally supported.
type UnderlineStyle uint8

const (
	UnderlineNone UnderlineStyle = iota
	UnderlineLine
	UnderlineCurl
	UnderlineDotted
	UnderlineDashed
	UnderlineDouble
)

// Cell is one screen position: a text unit plus its rendering attributes.
// Text is a full grapheme, not a single rune, so combining marks and wide
// characters survive the trip to the terminal. Immutable per frame.
type Cell struct {
	Text      string
	Fg        Color
	Bg        Color
	Attrs     Attr
	Underline UnderlineStyle

	// UnderlineColor only applies when Underline is set; the default color
	// follows the foreground.
	UnderlineColor Color
}

// PositionedCell pairs a cell with its 0-based viewport coordinates.
// Draw takes these in caller order; the backend never reorders or filters.
type PositionedCell struct {
	Col, Row int
	Cell     Cell
}
