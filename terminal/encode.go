package terminal

import "bufio"

// EncodeCell writes the full control sequence for one cell at the given
// 0-based coordinates: cursor move, one sequence per active attribute,
// foreground, background, the literal text, then a complete attribute reset.
//
// The encoder is pure and stateless. It never diffs against what the terminal
// currently shows; callers that want to skip unchanged cells must decide that
// before calling. Color values are not validated; whatever is in the cell
// goes on the wire.
//
// bufio defers write errors, so a failure surfaces on the final write or on
// the owning backend's Flush. Either way it is reported, never swallowed.
func EncodeCell(w *bufio.Writer, col, row int, c Cell) error {
	writeCursorPos(w, col, row)

	if c.Attrs&AttrBold != 0 {
		w.Write(csiAttrBold)
	}
	if c.Attrs&AttrDim != 0 {
		w.Write(csiAttrDim)
	}
	if c.Attrs&AttrItalic != 0 {
		w.Write(csiAttrItalic)
	}
	if c.Attrs&AttrBlink != 0 {
		w.Write(csiAttrBlink)
	}
	if c.Attrs&AttrReverse != 0 {
		w.Write(csiAttrReverse)
	}
	if c.Attrs&AttrStrikethrough != 0 {
		w.Write(csiAttrStrikethrough)
	}
	writeUnderline(w, c.Underline)
	if c.Underline != UnderlineNone {
		writeUnderlineColor(w, c.UnderlineColor)
	}

	writeColor(w, c.Fg, false)
	writeColor(w, c.Bg, true)

	w.WriteString(c.Text)

	_, err := w.Write(csiSGR0)
	return err
}

// writeColor emits the single encoding rule for each Color variant.
func writeColor(w *bufio.Writer, c Color, bg bool) {
	switch c.Kind {
	case ColorDefault:
		if bg {
			w.Write(csiDefaultBg)
		} else {
			w.Write(csiDefaultFg)
		}
	case ColorNamed:
		code := fgCode(c.Name)
		if bg {
			code += 10
		}
		w.Write(csi)
		writeInt(w, code)
		w.WriteByte('m')
	case ColorIndexed:
		if bg {
			w.Write(csiBg256)
		} else {
			w.Write(csiFg256)
		}
		writeInt(w, int(c.Index))
		w.WriteByte('m')
	case ColorRGB:
		if bg {
			w.Write(csiBgRGB)
		} else {
			w.Write(csiFgRGB)
		}
		writeInt(w, int(c.R))
		w.WriteByte(';')
		writeInt(w, int(c.G))
		w.WriteByte(';')
		writeInt(w, int(c.B))
		w.WriteByte('m')
	}
}

// writeUnderlineColor emits the Kitty/VTE colored-underline sequence. The
// default variant emits nothing: an uncolored underline follows the
// foreground, and named colors have no 58-prefixed form.
func writeUnderlineColor(w *bufio.Writer, c Color) {
	switch c.Kind {
	case ColorIndexed:
		w.Write(csiUnderlineColor256)
		writeInt(w, int(c.Index))
		w.WriteByte('m')
	case ColorRGB:
		w.Write(csiUnderlineColorRGB)
		writeInt(w, int(c.R))
		w.WriteByte(';')
		writeInt(w, int(c.G))
		w.WriteByte(';')
		writeInt(w, int(c.B))
		w.WriteByte('m')
	}
}

func writeUnderline(w *bufio.Writer, u UnderlineStyle) {
	switch u {
	case UnderlineLine:
		w.Write(csiUnderlineLine)
	case UnderlineCurl:
		w.Write(csiUnderlineCurl)
	case UnderlineDotted:
		w.Write(csiUnderlineDotted)
	case UnderlineDashed:
		w.Write(csiUnderlineDashed)
	case UnderlineDouble:
		w.Write(csiUnderlineDouble)
	}
}
