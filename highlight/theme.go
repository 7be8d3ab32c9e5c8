package highlight

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"

	"github.com/tkxue/helix/terminal"
)

// Theme maps syntax scopes to styles. Scope lookup walks dotted names from
// most to least specific, so "keyword.control.import" falls back to
// "keyword.control" and then "keyword".
type Theme struct {
	name   string
	base   Style
	styles map[string]Style
}

// Name returns the theme's name.
func (t *Theme) Name() string {
	return t.name
}

// Base returns the background/text style runs start from. Refresh events
// reset the active stack to this.
func (t *Theme) Base() Style {
	return t.base
}

// Style resolves one scope with dotted-prefix fallback. Unknown scopes
// resolve to the empty style, which patches nothing.
func (t *Theme) Style(scope string) Style {
	for {
		if s, ok := t.styles[scope]; ok {
			return s
		}
		dot := strings.LastIndexByte(scope, '.')
		if dot < 0 {
			return Style{}
		}
		scope = scope[:dot]
	}
}

// themeEntry is the on-disk shape of one scope value: either a bare color
// string or a table with fg/bg/modifiers/underline.
type themeEntry struct {
	Fg        string   `toml:"fg"`
	Bg        string   `toml:"bg"`
	Modifiers []string `toml:"modifiers"`
	Underline struct {
		Style string `toml:"style"`
		Color string `toml:"color"`
	} `toml:"underline"`
}

// LoadTheme reads a TOML theme file. Scope keys map to colors or style
// tables; an optional [palette] table defines color aliases.
func LoadTheme(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse theme %s: %w", path, err)
	}

	palette := map[string]string{}
	if p, ok := raw["palette"].(map[string]any); ok {
		for k, v := range p {
			if s, ok := v.(string); ok {
				palette[k] = s
			}
		}
	}

	t := &Theme{
		name:   strings.TrimSuffix(path[strings.LastIndexByte(path, '/')+1:], ".toml"),
		styles: make(map[string]Style, len(raw)),
	}
	for scope, v := range raw {
		if scope == "palette" {
			continue
		}
		style, err := decodeEntry(v, palette)
		if err != nil {
			return nil, fmt.Errorf("theme scope %q: %w", scope, err)
		}
		t.styles[scope] = style
	}
	t.base = t.Style("ui.background").Patch(t.Style("ui.text"))
	return t, nil
}

func decodeEntry(v any, palette map[string]string) (Style, error) {
	switch e := v.(type) {
	case string:
		c, err := parseColor(e, palette)
		if err != nil {
			return Style{}, err
		}
		return Style{}.WithFg(c), nil
	case map[string]any:
		// Round-trip through the struct decoder for the table form.
		data, err := toml.Marshal(e)
		if err != nil {
			return Style{}, err
		}
		var entry themeEntry
		if err := toml.Unmarshal(data, &entry); err != nil {
			return Style{}, err
		}
		var s Style
		if entry.Fg != "" {
			c, err := parseColor(entry.Fg, palette)
			if err != nil {
				return Style{}, err
			}
			s = s.WithFg(c)
		}
		if entry.Bg != "" {
			c, err := parseColor(entry.Bg, palette)
			if err != nil {
				return Style{}, err
			}
			s = s.WithBg(c)
		}
		for _, m := range entry.Modifiers {
			s.Attrs |= modifierAttr(m)
		}
		s.Underline = underlineStyle(entry.Underline.Style)
		if entry.Underline.Color != "" {
			c, err := parseColor(entry.Underline.Color, palette)
			if err != nil {
				return Style{}, err
			}
			s.UnderlineColor = c
		}
		return s, nil
	default:
		return Style{}, fmt.Errorf("unsupported value type %T", v)
	}
}

var namedColors = map[string]terminal.Color{
	"default":       terminal.Reset,
	"black":         terminal.Named(terminal.Black),
	"red":           terminal.Named(terminal.Red),
	"green":         terminal.Named(terminal.Green),
	"yellow":        terminal.Named(terminal.Yellow),
	"blue":          terminal.Named(terminal.Blue),
	"magenta":       terminal.Named(terminal.Magenta),
	"cyan":          terminal.Named(terminal.Cyan),
	"gray":          terminal.Named(terminal.Gray),
	"dark-gray":     terminal.Named(terminal.DarkGray),
	"light-red":     terminal.Named(terminal.LightRed),
	"light-green":   terminal.Named(terminal.LightGreen),
	"light-yellow":  terminal.Named(terminal.LightYellow),
	"light-blue":    terminal.Named(terminal.LightBlue),
	"light-magenta": terminal.Named(terminal.LightMagenta),
	"light-cyan":    terminal.Named(terminal.LightCyan),
	"white":         terminal.Named(terminal.White),
}

// parseColor accepts palette aliases, "#rrggbb" hex, ANSI color names and
// bare 256-palette indices.
func parseColor(s string, palette map[string]string) (terminal.Color, error) {
	if alias, ok := palette[s]; ok {
		s = alias
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return terminal.Reset, fmt.Errorf("bad hex color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return terminal.RGB(r, g, b), nil
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 255 {
		return terminal.Indexed(uint8(n)), nil
	}
	return terminal.Reset, fmt.Errorf("unknown color %q", s)
}

func modifierAttr(name string) terminal.Attr {
	switch name {
	case "bold":
		return terminal.AttrBold
	case "dim":
		return terminal.AttrDim
	case "italic":
		return terminal.AttrItalic
	case "slow_blink", "rapid_blink":
		return terminal.AttrBlink
	case "reversed":
		return terminal.AttrReverse
	case "crossed_out":
		return terminal.AttrStrikethrough
	}
	return terminal.AttrNone
}

func underlineStyle(name string) terminal.UnderlineStyle {
	switch name {
	case "line":
		return terminal.UnderlineLine
	case "curl":
		return terminal.UnderlineCurl
	case "dotted":
		return terminal.UnderlineDotted
	case "dashed":
		return terminal.UnderlineDashed
	case "double_line":
		return terminal.UnderlineDouble
	}
	return terminal.UnderlineNone
}

// DefaultTheme is the built-in fallback used when no theme file is
// configured or loading fails.
func DefaultTheme() *Theme {
	styles := map[string]Style{
		"ui.background":    Style{}.WithBg(terminal.RGB(0x28, 0x28, 0x28)),
		"ui.text":          Style{}.WithFg(terminal.RGB(0xeb, 0xdb, 0xb2)),
		"ui.statusline":    Style{}.WithFg(terminal.RGB(0x28, 0x28, 0x28)).WithBg(terminal.RGB(0xa8, 0x99, 0x84)),
		"ui.cursor":        Style{}.WithAttrs(terminal.AttrReverse),
		"comment":          Style{}.WithFg(terminal.Named(terminal.Gray)).WithAttrs(terminal.AttrItalic),
		"keyword":          Style{}.WithFg(terminal.Named(terminal.Red)),
		"string":           Style{}.WithFg(terminal.Named(terminal.Green)),
		"constant.numeric": Style{}.WithFg(terminal.Named(terminal.Magenta)),
		"function":         Style{}.WithFg(terminal.Named(terminal.LightBlue)),
	}
	t := &Theme{name: "default", styles: styles}
	t.base = t.Style("ui.background").Patch(t.Style("ui.text"))
	return t
}
