package terminal

import (
	"bufio"
	"bytes"
	"errors"
	"testing"
)

func encodeToString(t *testing.T, col, row int, c Cell) string {
	t.Helper()
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if err := EncodeCell(w, col, row, c); err != nil {
		t.Fatalf("EncodeCell failed: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	return buf.String()
}

func TestEncodeCellSequenceOrder(t *testing.T) {
	c := Cell{
		Text:  "A",
		Fg:    Named(Red),
		Bg:    Reset,
		Attrs: AttrBold,
	}
	got := encodeToString(t, 0, 0, c)
	want := "\x1b[1;1H\x1b[1m\x1b[31m\x1b[49mA\x1b[0m"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestEncodeCellCursorIsOneBased(t *testing.T) {
	got := encodeToString(t, 4, 9, Cell{Text: "x"})
	want := "\x1b[10;5H\x1b[39m\x1b[49mx\x1b[0m"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestEncodeCellColorVariants(t *testing.T) {
	tests := []struct {
		name string
		fg   Color
		want string // expected fg fragment
	}{
		{"reset", Reset, "\x1b[39m"},
		{"named black", Named(Black), "\x1b[30m"},
		{"named white", Named(White), "\x1b[97m"},
		{"named bright", Named(LightMagenta), "\x1b[95m"},
		{"indexed", Indexed(208), "\x1b[38;5;208m"},
		{"rgb", RGB(1, 22, 255), "\x1b[38;2;1;22;255m"},
	}

	for _, tc := range tests {
		got := encodeToString(t, 0, 0, Cell{Text: "x", Fg: tc.fg})
		if !bytes.Contains([]byte(got), []byte(tc.want)) {
			t.Errorf("%s: expected fragment %q in %q", tc.name, tc.want, got)
		}
	}
}

func TestEncodeCellBackgroundOffsets(t *testing.T) {
	tests := []struct {
		bg   Color
		want string
	}{
		{Named(Red), "\x1b[41m"},
		{Named(LightRed), "\x1b[101m"},
		{Indexed(17), "\x1b[48;5;17m"},
		{RGB(0, 0, 0), "\x1b[48;2;0;0;0m"},
	}
	for _, tc := range tests {
		got := encodeToString(t, 0, 0, Cell{Text: "x", Bg: tc.bg})
		if !bytes.Contains([]byte(got), []byte(tc.want)) {
			t.Errorf("bg %v: expected fragment %q in %q", tc.bg, tc.want, got)
		}
	}
}

// Encoding must be deterministic and total: every color kind crossed with
// every modifier subset encodes without error, and encoding the same cell
// twice yields byte-identical output.
func TestEncodeCellDeterministicAndTotal(t *testing.T) {
	colors := []Color{Reset, Named(Blue), Indexed(0), Indexed(255), RGB(255, 0, 128)}
	underlines := []UnderlineStyle{UnderlineNone, UnderlineLine, UnderlineCurl, UnderlineDotted, UnderlineDashed, UnderlineDouble}

	for attrs := Attr(0); attrs < 1<<6; attrs++ {
		for _, fg := range colors {
			for _, bg := range colors {
				for _, ul := range underlines {
					c := Cell{Text: "q", Fg: fg, Bg: bg, Attrs: attrs, Underline: ul}
					first := encodeToString(t, 3, 7, c)
					second := encodeToString(t, 3, 7, c)
					if first != second {
						t.Fatalf("non-deterministic encoding for %+v: %q vs %q", c, first, second)
					}
					if len(first) == 0 {
						t.Fatalf("empty encoding for %+v", c)
					}
				}
			}
		}
	}
}

func TestEncodeCellUnderlineColor(t *testing.T) {
	c := Cell{Text: "e", Underline: UnderlineCurl, UnderlineColor: RGB(255, 0, 0)}
	got := encodeToString(t, 0, 0, c)
	for _, frag := range []string{"\x1b[4:3m", "\x1b[58;2;255;0;0m"} {
		if !bytes.Contains([]byte(got), []byte(frag)) {
			t.Errorf("expected fragment %q in %q", frag, got)
		}
	}

	// Without an underline style the color is meaningless and omitted.
	c = Cell{Text: "e", UnderlineColor: RGB(255, 0, 0)}
	if got := encodeToString(t, 0, 0, c); bytes.Contains([]byte(got), []byte("58;2")) {
		t.Errorf("underline color leaked without an underline: %q", got)
	}
}

func TestEncodeCellInvalidValuesPassThrough(t *testing.T) {
	// Color values are not validated; an out-of-range kind encodes nothing
	// for that color rather than failing.
	c := Cell{Text: "x", Fg: Color{Kind: ColorKind(99)}}
	got := encodeToString(t, 0, 0, c)
	if !bytes.Contains([]byte(got), []byte("x")) {
		t.Errorf("text should still be emitted, got %q", got)
	}
}

func TestBackendClaimRestore(t *testing.T) {
	var buf bytes.Buffer
	b := NewBackend(&buf)

	if err := b.Claim(); err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if got := buf.String(); got != "\x1b[?1049h" {
		t.Errorf("Claim wrote %q", got)
	}

	buf.Reset()
	if err := b.Restore(); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got := buf.String(); got != "\x1b[0m\x1b[?25h\x1b[?1049l" {
		t.Errorf("Restore wrote %q", got)
	}
}

func TestBackendDrawInCallerOrder(t *testing.T) {
	var buf bytes.Buffer
	b := NewBackend(&buf)

	cells := []PositionedCell{
		{Col: 5, Row: 1, Cell: Cell{Text: "b"}},
		{Col: 0, Row: 0, Cell: Cell{Text: "a"}},
	}
	if err := b.Draw(cells); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	out := buf.String()
	first := bytes.Index([]byte(out), []byte("\x1b[2;6H"))
	second := bytes.Index([]byte(out), []byte("\x1b[1;1H"))
	if first < 0 || second < 0 || first > second {
		t.Errorf("cells drawn out of caller order: %q", out)
	}
}

func TestBackendSizeIsPushedNotQueried(t *testing.T) {
	b := NewBackend(&bytes.Buffer{})
	w, h := b.Size()
	if w != 80 || h != 24 {
		t.Errorf("expected placeholder 80x24, got %dx%d", w, h)
	}
	b.Resize(120, 40)
	w, h = b.Size()
	if w != 120 || h != 40 {
		t.Errorf("expected pushed 120x40, got %dx%d", w, h)
	}
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write refused")
}

func TestBackendPropagatesWriteFailure(t *testing.T) {
	b := NewBackend(failWriter{})
	if err := b.Claim(); err == nil {
		t.Error("Claim should propagate the write error")
	}
}
