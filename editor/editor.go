// Package editor is the minimal reference document model consumed by the
// terminal layer: a line buffer with a cursor, modes, viewport geometry, an
// editor-driven event source and a should-exit flag. It stands in for the
// full text-editing engine, which is an external collaborator.
package editor

import (
	"fmt"
	"os"
	"strings"

	"github.com/tkxue/helix/highlight"
	"github.com/tkxue/helix/terminal"
)

// Mode is the current edit mode. The terminal layer only uses it to pick a
// cursor shape.
type Mode uint8

const (
	ModeNormal Mode = iota
	ModeInsert
)

func (m Mode) String() string {
	if m == ModeInsert {
		return "INS"
	}
	return "NOR"
}

// CursorKind maps the mode to the requested cursor shape.
func (m Mode) CursorKind() terminal.CursorKind {
	if m == ModeInsert {
		return terminal.CursorBar
	}
	return terminal.CursorBlock
}

// EventKind tags editor-driven events.
type EventKind uint8

const (
	// EventRedraw asks the loop for a repaint with no state dispatch.
	EventRedraw EventKind = iota
	// EventSaved reports a completed document save.
	EventSaved
	// EventIdle fires when input has been quiet; forwarded to the dispatch
	// layer as an idle-timeout input event.
	EventIdle
)

// Event is one editor-driven occurrence delivered through the loop.
type Event struct {
	Kind   EventKind
	Status string
}

// Highlighter produces the highlight event stream for a byte range. The
// engine behind it is external; nil means no highlighting.
type Highlighter interface {
	Range(start, end int) highlight.Source
}

// Editor is the reference document model.
type Editor struct {
	path  string
	lines []string

	row, col int // cursor, 0-based; col counts runes
	scroll   int // first visible line

	width  int
	height int

	mode     Mode
	modified bool
	status   string
	quit     bool

	hl      Highlighter
	events  chan Event
	pending func(terminal.Event) // one-shot on-next-key continuation
}

// New returns an editor holding a single empty line.
func New() *Editor {
	return &Editor{
		lines:  []string{""},
		events: make(chan Event, 16),
		width:  80,
		height: 24,
	}
}

// Open loads a file into a fresh editor. A missing file opens empty with the
// path remembered for save.
func Open(path string) (*Editor, error) {
	ed := New()
	ed.path = path
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ed, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	ed.lines = strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(ed.lines) == 0 {
		ed.lines = []string{""}
	}
	return ed, nil
}

// Events is the editor-driven event source the loop selects on.
func (e *Editor) Events() <-chan Event {
	return e.events
}

func (e *Editor) post(ev Event) {
	select {
	case e.events <- ev:
	default:
		// Loop is behind; the pending redraw covers this one too.
	}
}

// RequestRedraw posts a redraw request through the loop.
func (e *Editor) RequestRedraw() {
	e.post(Event{Kind: EventRedraw})
}

// PostIdle posts an idle-timeout event.
func (e *Editor) PostIdle() {
	e.post(Event{Kind: EventIdle})
}

// MarkSaved records a completed save; the loop repaints the status line.
func (e *Editor) MarkSaved(status string) {
	e.modified = false
	e.post(Event{Kind: EventSaved, Status: status})
}

// Quit raises the should-exit flag. The loop observes it after the current
// iteration.
func (e *Editor) Quit() { e.quit = true }

// ShouldExit reports the exit flag.
func (e *Editor) ShouldExit() bool { return e.quit }

// Mode returns the current edit mode.
func (e *Editor) Mode() Mode { return e.mode }

// SetMode switches mode and clamps the cursor for normal mode, which parks
// on characters rather than between them.
func (e *Editor) SetMode(m Mode) {
	e.mode = m
	if m == ModeNormal {
		e.clampCol()
	}
}

// Path returns the file backing this document, if any.
func (e *Editor) Path() string { return e.path }

// Modified reports unsaved changes.
func (e *Editor) Modified() bool { return e.modified }

// Status returns the transient status message.
func (e *Editor) Status() string { return e.status }

// SetStatus replaces the transient status message.
func (e *Editor) SetStatus(s string) { e.status = s }

// SetHighlighter attaches the external highlight engine; nil detaches.
func (e *Editor) SetHighlighter(h Highlighter) { e.hl = h }

// Highlights returns the event stream for a byte range, or nil when no
// highlighter is attached.
func (e *Editor) Highlights(start, end int) highlight.Source {
	if e.hl == nil {
		return nil
	}
	return e.hl.Range(start, end)
}

// OnNextKey registers a one-shot continuation consumed by the very next key
// event. Registering again before consumption replaces the previous one.
func (e *Editor) OnNextKey(fn func(terminal.Event)) {
	e.pending = fn
}

// TakePending removes and returns the registered continuation, if any.
func (e *Editor) TakePending() (func(terminal.Event), bool) {
	fn := e.pending
	e.pending = nil
	return fn, fn != nil
}

// Resize pushes new viewport geometry and keeps the cursor visible.
func (e *Editor) Resize(width, height int) {
	e.width = width
	e.height = height
	e.scrollIntoView()
}

// Size returns the viewport geometry.
func (e *Editor) Size() (width, height int) {
	return e.width, e.height
}

// Scroll returns the first visible line.
func (e *Editor) Scroll() int { return e.scroll }

// LineCount returns the number of document lines.
func (e *Editor) LineCount() int { return len(e.lines) }

// LineText returns one line's text, clamped: out-of-bounds indices yield an
// empty line rather than an error, since they can arise transiently during a
// concurrent resize.
func (e *Editor) LineText(i int) string {
	if i < 0 || i >= len(e.lines) {
		return ""
	}
	return e.lines[i]
}

// LineRange returns the byte offsets [start, end) of a line within the
// document, counting one byte for each joining newline. Out-of-bounds
// indices clamp to an empty range at the document end.
func (e *Editor) LineRange(i int) (start, end int) {
	if i < 0 {
		return 0, 0
	}
	for j := 0; j < i && j < len(e.lines); j++ {
		start += len(e.lines[j]) + 1
	}
	if i >= len(e.lines) {
		return start, start
	}
	return start, start + len(e.lines[i])
}

// Cursor returns the document cursor position (rune column, line row).
func (e *Editor) Cursor() (col, row int) {
	return e.col, e.row
}

func (e *Editor) line() string {
	return e.LineText(e.row)
}

func (e *Editor) lineLen() int {
	return len([]rune(e.line()))
}

// maxCol is the rightmost legal column: past-end in insert mode, on the last
// character in normal mode.
func (e *Editor) maxCol() int {
	n := e.lineLen()
	if e.mode == ModeNormal && n > 0 {
		return n - 1
	}
	return n
}

func (e *Editor) clampCol() {
	if max := e.maxCol(); e.col > max {
		e.col = max
	}
	if e.col < 0 {
		e.col = 0
	}
}

func (e *Editor) scrollIntoView() {
	if e.height <= 1 {
		return
	}
	visible := e.height - 1 // last row is the status line
	if e.row < e.scroll {
		e.scroll = e.row
	}
	if e.row >= e.scroll+visible {
		e.scroll = e.row - visible + 1
	}
	if e.scroll < 0 {
		e.scroll = 0
	}
}

// MoveLeft moves the cursor one column left, never past column zero.
func (e *Editor) MoveLeft() {
	if e.col > 0 {
		e.col--
	}
}

// MoveRight moves one column right, clamped to the line end.
func (e *Editor) MoveRight() {
	if e.col < e.maxCol() {
		e.col++
	}
}

// MoveUp moves one line up, clamping the column to the new line.
func (e *Editor) MoveUp() {
	if e.row > 0 {
		e.row--
		e.clampCol()
		e.scrollIntoView()
	}
}

// MoveDown moves one line down, clamping the column to the new line.
func (e *Editor) MoveDown() {
	if e.row < len(e.lines)-1 {
		e.row++
		e.clampCol()
		e.scrollIntoView()
	}
}

// MoveLineStart jumps to column zero.
func (e *Editor) MoveLineStart() { e.col = 0 }

// MoveLineEnd jumps to the last legal column.
func (e *Editor) MoveLineEnd() { e.col = e.maxCol() }

// MoveTop jumps to the first line.
func (e *Editor) MoveTop() {
	e.row = 0
	e.clampCol()
	e.scrollIntoView()
}

// MoveBottom jumps to the last line.
func (e *Editor) MoveBottom() {
	e.row = len(e.lines) - 1
	e.clampCol()
	e.scrollIntoView()
}

// InsertRune inserts one character at the cursor and advances.
func (e *Editor) InsertRune(r rune) {
	runes := []rune(e.line())
	if e.col > len(runes) {
		e.col = len(runes)
	}
	out := make([]rune, 0, len(runes)+1)
	out = append(out, runes[:e.col]...)
	out = append(out, r)
	out = append(out, runes[e.col:]...)
	e.lines[e.row] = string(out)
	e.col++
	e.modified = true
}

// InsertNewline splits the current line at the cursor.
func (e *Editor) InsertNewline() {
	runes := []rune(e.line())
	if e.col > len(runes) {
		e.col = len(runes)
	}
	head, tail := string(runes[:e.col]), string(runes[e.col:])
	e.lines[e.row] = head
	rest := append([]string{tail}, e.lines[e.row+1:]...)
	e.lines = append(e.lines[:e.row+1], rest...)
	e.row++
	e.col = 0
	e.modified = true
	e.scrollIntoView()
}

// DeleteBack removes the character before the cursor, joining lines across a
// line start. At document start it does nothing.
func (e *Editor) DeleteBack() {
	if e.col > 0 {
		runes := []rune(e.line())
		e.lines[e.row] = string(append(runes[:e.col-1], runes[e.col:]...))
		e.col--
		e.modified = true
		return
	}
	if e.row == 0 {
		return
	}
	prev := e.lines[e.row-1]
	e.col = len([]rune(prev))
	e.lines[e.row-1] = prev + e.line()
	e.lines = append(e.lines[:e.row], e.lines[e.row+1:]...)
	e.row--
	e.modified = true
	e.scrollIntoView()
}

// DeleteAt removes the character under the cursor, vi-x style.
func (e *Editor) DeleteAt() {
	runes := []rune(e.line())
	if e.col >= len(runes) {
		return
	}
	e.lines[e.row] = string(append(runes[:e.col], runes[e.col+1:]...))
	e.modified = true
	e.clampCol()
}

// Contents joins the document back into file bytes.
func (e *Editor) Contents() []byte {
	return []byte(strings.Join(e.lines, "\n") + "\n")
}
