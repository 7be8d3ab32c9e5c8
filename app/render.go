package app

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/tkxue/helix/highlight"
	"github.com/tkxue/helix/terminal"
)

// Render paints one frame: project highlights onto the visible lines, build
// the back buffer, diff it against the previous frame and send only the
// changed cells. The encoder itself never diffs; this is the external differ
// the backend contract refers to.
func (l *Loop) Render() error {
	w, h := l.Backend.Size()
	if w != l.fw || h != l.fh {
		l.fw, l.fh = w, h
		l.front = make([]terminal.Cell, w*h)
		l.back = make([]terminal.Cell, w*h)
		if err := l.Backend.Clear(); err != nil {
			return err
		}
	}
	if w <= 0 || h <= 0 {
		return l.Backend.Flush()
	}

	theme := l.Projector.Theme()
	base := theme.Base()
	blank := base.Cell(" ")
	for i := range l.back {
		l.back[i] = blank
	}

	// Highlight projection restarts at the top of the viewport each frame;
	// one source and one cursor are shared by all lines, top to bottom.
	visible := h - 1
	scroll := l.Editor.Scroll()
	var src highlight.Source
	if visible > 0 {
		first, _ := l.Editor.LineRange(scroll)
		_, last := l.Editor.LineRange(scroll + visible - 1)
		src = l.Editor.Highlights(first, last)
	}
	cur := highlight.NewCursor(theme)

	for row := 0; row < visible && scroll+row < l.Editor.LineCount(); row++ {
		line := l.Editor.LineText(scroll + row)
		start, _ := l.Editor.LineRange(scroll + row)
		col := 0
		for _, span := range l.Projector.LineSpans(cur, line, start, src) {
			col = l.blitSpan(row, col, span)
			if col >= w {
				break
			}
		}
	}

	l.renderStatusLine(theme)

	// Diff against the previous frame; caller order is row-major.
	l.batch = l.batch[:0]
	for i, c := range l.back {
		if c != l.front[i] {
			l.batch = append(l.batch, terminal.PositionedCell{
				Col:  i % w,
				Row:  i / w,
				Cell: c,
			})
			l.front[i] = c
		}
	}
	if err := l.Backend.HideCursor(); err != nil {
		return err
	}
	if err := l.Backend.Draw(l.batch); err != nil {
		return err
	}

	ccol, crow := l.cursorScreenPos()
	if err := l.Backend.SetCursor(ccol, crow); err != nil {
		return err
	}
	if err := l.Backend.ShowCursor(l.Editor.Mode().CursorKind()); err != nil {
		return err
	}
	return l.Backend.Flush()
}

// blitSpan writes one styled run into the back buffer, advancing by display
// width so wide characters occupy two cells.
func (l *Loop) blitSpan(row, col int, span highlight.Span) int {
	w := l.fw
	for _, r := range span.Text {
		if col >= w {
			return col
		}
		if r == '\t' {
			// Fixed tab stops every 4 columns, rendered as spaces.
			next := (col/4 + 1) * 4
			for ; col < next && col < w; col++ {
				l.back[row*w+col] = span.Style.Cell(" ")
			}
			continue
		}
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		l.back[row*w+col] = span.Style.Cell(string(r))
		col++
		// The trailing half of a wide rune stays blank; the terminal draws
		// over it when rendering the leading cell.
		for pad := 1; pad < rw && col < w; pad++ {
			l.back[row*w+col] = span.Style.Cell("")
			col++
		}
	}
	return col
}

func (l *Loop) renderStatusLine(theme *highlight.Theme) {
	w, h := l.fw, l.fh
	if h < 1 {
		return
	}
	style := theme.Base().Patch(theme.Style("ui.statusline"))
	row := h - 1

	name := l.Editor.Path()
	if name == "" {
		name = "[scratch]"
	}
	mark := ""
	if l.Editor.Modified() {
		mark = " [+]"
	}
	ccol, crow := l.Editor.Cursor()
	text := fmt.Sprintf(" %s  %s%s  %s  %d:%d ",
		l.Editor.Mode(), name, mark, l.Editor.Status(), crow+1, ccol+1)

	col := 0
	for _, r := range text {
		if col >= w {
			break
		}
		l.back[row*w+col] = style.Cell(string(r))
		col += runewidth.RuneWidth(r)
	}
	for ; col < w; col++ {
		l.back[row*w+col] = style.Cell(" ")
	}
}

// cursorScreenPos maps the document cursor to viewport coordinates, in
// display-width columns, clamped to the frame.
func (l *Loop) cursorScreenPos() (col, row int) {
	ccol, crow := l.Editor.Cursor()
	row = crow - l.Editor.Scroll()

	line := []rune(l.Editor.LineText(crow))
	for i := 0; i < ccol && i < len(line); i++ {
		if line[i] == '\t' {
			col = (col/4 + 1) * 4
			continue
		}
		col += runewidth.RuneWidth(line[i])
	}

	if l.fw > 0 && col >= l.fw {
		col = l.fw - 1
	}
	if l.fh > 0 && row >= l.fh {
		row = l.fh - 1
	}
	if col < 0 {
		col = 0
	}
	if row < 0 {
		row = 0
	}
	return col, row
}
