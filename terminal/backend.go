package terminal

import (
	"bufio"
	"io"
)

// CursorKind is the requested cursor shape. The backend accepts a kind on
// ShowCursor but emits only visibility; shape differentiation is a declared
// limitation of this backend.
type CursorKind uint8

const (
	CursorBlock CursorKind = iota
	CursorBar
	CursorUnderline
	CursorHidden
)

// Backend owns the terminal output stream. It sequences cell encoding into
// frames and exposes cursor, alternate-screen, clear and flush control.
//
// Size is the last size pushed by the caller, never a live query; whoever
// watches SIGWINCH must push resize events explicitly via Resize.
type Backend struct {
	w      *bufio.Writer
	width  int
	height int
}

// NewBackend wraps an output stream. The initial size is a placeholder until
// the first Resize.
func NewBackend(w io.Writer) *Backend {
	return &Backend{
		w:      bufio.NewWriterSize(w, 1<<16),
		width:  80,
		height: 24,
	}
}

// Claim enters the alternate screen. A write failure here is fatal to the
// caller: the terminal state is unknown.
func (b *Backend) Claim() error {
	b.w.Write(csiAltScreenEnter)
	return b.w.Flush()
}

// Restore leaves the alternate screen. It must run on every exit path,
// including error paths, or the user's terminal is left unusable.
func (b *Backend) Restore() error {
	b.w.Write(csiSGR0)
	b.w.Write(csiCursorShow)
	b.w.Write(csiAltScreenExit)
	return b.w.Flush()
}

// Draw encodes a caller-ordered sequence of cells. The backend does not
// decide which cells need repainting; an external differ does.
func (b *Backend) Draw(cells []PositionedCell) error {
	for _, pc := range cells {
		if err := EncodeCell(b.w, pc.Col, pc.Row, pc.Cell); err != nil {
			return err
		}
	}
	return nil
}

// HideCursor makes the cursor invisible.
func (b *Backend) HideCursor() error {
	_, err := b.w.Write(csiCursorHide)
	return err
}

// ShowCursor makes the cursor visible. The kind is accepted but not
// differentiated.
func (b *Backend) ShowCursor(kind CursorKind) error {
	if kind == CursorHidden {
		return b.HideCursor()
	}
	_, err := b.w.Write(csiCursorShow)
	return err
}

// SetCursor moves the cursor. Logical coordinates are 0-based; the wire
// protocol is 1-based.
func (b *Backend) SetCursor(col, row int) error {
	writeCursorPos(b.w, col, row)
	return nil
}

// Clear erases the whole screen.
func (b *Backend) Clear() error {
	_, err := b.w.Write(csiClear)
	return err
}

// Resize records a new terminal size pushed by the caller.
func (b *Backend) Resize(width, height int) {
	b.width = width
	b.height = height
}

// Size returns the last pushed size.
func (b *Backend) Size() (width, height int) {
	return b.width, b.height
}

// Flush forces buffered bytes out. Required before relying on terminal state.
func (b *Backend) Flush() error {
	return b.w.Flush()
}
