package terminal

// ColorKind tags the Color union. Each kind has exactly one wire encoding;
// there is no implicit conversion between kinds.
type ColorKind uint8

const (
	// ColorDefault resets to the terminal's default color (SGR 39/49).
	ColorDefault ColorKind = iota
	// ColorNamed is one of the 16 base ANSI colors.
	ColorNamed
	// ColorIndexed is an xterm-256 palette index (SGR 38;5;n).
	ColorIndexed
	// ColorRGB is a 24-bit true color (SGR 38;2;r;g;b).
	ColorRGB
)

// Name identifies one of the 16 base ANSI colors.
type Name uint8

const (
	Black Name = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	Gray
	DarkGray
	LightRed
	LightGreen
	LightYellow
	LightBlue
	LightMagenta
	LightCyan
	White
)

// Color is a tagged union over the four terminal color encodings.
// The zero value is the reset/default color.
type Color struct {
	Kind    ColorKind
	Name    Name
	Index   uint8
	R, G, B uint8
}

// Reset is the terminal default color.
var Reset = Color{}

// Named returns a base ANSI color.
func Named(n Name) Color {
	return Color{Kind: ColorNamed, Name: n}
}

// Indexed returns an xterm-256 palette color. The index is not validated;
// out-of-palette values pass through to the terminal unchanged.
func Indexed(i uint8) Color {
	return Color{Kind: ColorIndexed, Index: i}
}

// RGB returns a 24-bit color. True color support is assumed unconditionally.
func RGB(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// fgCode returns the SGR parameter for a named foreground color.
// Bright names live in the 90-97 range; the matching background code is
// always fg+10 (40-47 and 100-107).
func fgCode(n Name) int {
	switch n {
	case Black:
		return 30
	case Red:
		return 31
	case Green:
		return 32
	case Yellow:
		return 33
	case Blue:
		return 34
	case Magenta:
		return 35
	case Cyan:
		return 36
	case Gray:
		return 37
	case DarkGray:
		return 90
	case LightRed:
		return 91
	case LightGreen:
		return 92
	case LightYellow:
		return 93
	case LightBlue:
		return 94
	case LightMagenta:
		return 95
	case LightCyan:
		return 96
	case White:
		return 97
	}
	return 39
}
