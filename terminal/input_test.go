package terminal

import "testing"

func keys(evs []Event) []Key {
	out := make([]Key, len(evs))
	for i, ev := range evs {
		out[i] = ev.Key
	}
	return out
}

func TestDecoderPrintableASCII(t *testing.T) {
	d := NewDecoder()
	evs := d.Advance([]byte("hi"))
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Rune != 'h' || evs[1].Rune != 'i' {
		t.Errorf("wrong runes: %c %c", evs[0].Rune, evs[1].Rune)
	}
	if !d.Empty() {
		t.Error("decoder should hold no partial state")
	}
}

func TestDecoderArrowKeys(t *testing.T) {
	tests := []struct {
		name  string
		input string
		key   Key
		mods  Modifier
	}{
		{"up", "\x1b[A", KeyUp, ModNone},
		{"down", "\x1b[B", KeyDown, ModNone},
		{"right", "\x1b[C", KeyRight, ModNone},
		{"left", "\x1b[D", KeyLeft, ModNone},
		{"shift-up", "\x1b[1;2A", KeyUp, ModShift},
		{"alt-left", "\x1b[1;3D", KeyLeft, ModAlt},
		{"ctrl-right", "\x1b[1;5C", KeyRight, ModCtrl},
		{"ctrl-shift-down", "\x1b[1;6B", KeyDown, ModShift | ModCtrl},
		{"ss3 up", "\x1bOA", KeyUp, ModNone},
		{"home", "\x1b[H", KeyHome, ModNone},
		{"end tilde", "\x1b[4~", KeyEnd, ModNone},
		{"delete", "\x1b[3~", KeyDelete, ModNone},
		{"pageup", "\x1b[5~", KeyPageUp, ModNone},
		{"f1 ss3", "\x1bOP", KeyF1, ModNone},
		{"f5", "\x1b[15~", KeyF5, ModNone},
		{"f12 ctrl", "\x1b[24;5~", KeyF12, ModCtrl},
		{"backtab", "\x1b[Z", KeyBacktab, ModShift},
	}

	for _, tc := range tests {
		d := NewDecoder()
		evs := d.Advance([]byte(tc.input))
		if len(evs) != 1 {
			t.Errorf("%s: expected 1 event, got %d", tc.name, len(evs))
			continue
		}
		if evs[0].Key != tc.key || evs[0].Mods != tc.mods {
			t.Errorf("%s: got key=%d mods=%d, want key=%d mods=%d",
				tc.name, evs[0].Key, evs[0].Mods, tc.key, tc.mods)
		}
	}
}

func TestDecoderControlBytes(t *testing.T) {
	d := NewDecoder()
	evs := d.Advance([]byte{0x03, 0x09, 0x0d, 0x7f})
	want := []Key{KeyCtrlC, KeyTab, KeyEnter, KeyBackspace}
	got := keys(evs)
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

// A CSI sequence split across reads must stay buffered until complete, then
// emit exactly one event.
func TestDecoderSplitCSI(t *testing.T) {
	d := NewDecoder()
	if evs := d.Advance([]byte("\x1b[")); len(evs) != 0 {
		t.Fatalf("incomplete CSI emitted %d events", len(evs))
	}
	if d.Empty() {
		t.Fatal("incomplete CSI should stay buffered")
	}
	if evs := d.Advance([]byte("1;2")); len(evs) != 0 {
		t.Fatalf("still-incomplete CSI emitted %d events", len(evs))
	}
	evs := d.Advance([]byte("A"))
	if len(evs) != 1 || evs[0].Key != KeyUp || evs[0].Mods != ModShift {
		t.Errorf("expected one shift-up, got %+v", evs)
	}
	if !d.Empty() {
		t.Error("decoder should be drained after completion")
	}
}

func TestDecoderSplitUTF8(t *testing.T) {
	seq := []byte("é") // 0xc3 0xa9
	d := NewDecoder()
	if evs := d.Advance(seq[:1]); len(evs) != 0 {
		t.Fatalf("partial UTF-8 emitted %d events", len(evs))
	}
	evs := d.Advance(seq[1:])
	if len(evs) != 1 || evs[0].Rune != 'é' {
		t.Errorf("expected é, got %+v", evs)
	}
}

func TestDecoderMultibyteRunes(t *testing.T) {
	d := NewDecoder()
	evs := d.Advance([]byte("日本語"))
	if len(evs) != 3 {
		t.Fatalf("expected 3 events, got %d", len(evs))
	}
	want := []rune("日本語")
	for i, ev := range evs {
		if ev.Rune != want[i] {
			t.Errorf("rune %d: got %c, want %c", i, ev.Rune, want[i])
		}
	}
}

func TestDecoderInvalidUTF8Dropped(t *testing.T) {
	d := NewDecoder()
	evs := d.Advance([]byte{0x80, 'a'})
	if len(evs) != 1 || evs[0].Rune != 'a' {
		t.Errorf("stray continuation byte should be dropped, got %+v", evs)
	}
}

func TestDecoderUnknownCSIDropped(t *testing.T) {
	d := NewDecoder()
	evs := d.Advance([]byte("\x1b[99~a"))
	if len(evs) != 1 || evs[0].Rune != 'a' {
		t.Errorf("unknown CSI should be consumed silently, got %+v", evs)
	}
	if !d.Empty() {
		t.Error("unknown sequence must not linger in the buffer")
	}
}

func TestDecoderAltModified(t *testing.T) {
	d := NewDecoder()
	evs := d.Advance([]byte{0x1b, 'f'})
	if len(evs) != 1 || evs[0].Rune != 'f' || evs[0].Mods != ModAlt {
		t.Errorf("expected alt-f, got %+v", evs)
	}

	evs = d.Advance([]byte{0x1b, 0x1b})
	if len(evs) != 1 || evs[0].Key != KeyEscape || evs[0].Mods != ModAlt {
		t.Errorf("expected alt-escape, got %+v", evs)
	}
}

// Emission order must match arrival order even when sequences and plain
// bytes interleave in one chunk.
func TestDecoderOrderingAcrossMixedChunk(t *testing.T) {
	d := NewDecoder()
	evs := d.Advance([]byte("a\x1b[Ab"))
	if len(evs) != 3 {
		t.Fatalf("expected 3 events, got %d", len(evs))
	}
	if evs[0].Rune != 'a' || evs[1].Key != KeyUp || evs[2].Rune != 'b' {
		t.Errorf("wrong order: %+v", evs)
	}
}

// A trailing lone ESC is an incomplete sequence from the decoder's point of
// view; disambiguation is the wrapper's job.
func TestDecoderTrailingEscapeBuffered(t *testing.T) {
	d := NewDecoder()
	evs := d.Advance([]byte("a\x1b"))
	if len(evs) != 1 || evs[0].Rune != 'a' {
		t.Fatalf("expected only 'a', got %+v", evs)
	}
	if d.Empty() {
		t.Error("trailing ESC should stay buffered")
	}
	evs = d.Advance([]byte("[B"))
	if len(evs) != 1 || evs[0].Key != KeyDown {
		t.Errorf("expected down after completion, got %+v", evs)
	}
}
