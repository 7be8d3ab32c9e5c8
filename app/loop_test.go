package app

import (
	"bytes"
	"io"
	"testing"
	"time"

	"pkt.systems/pslog"

	"github.com/tkxue/helix/config"
	"github.com/tkxue/helix/editor"
	"github.com/tkxue/helix/highlight"
	"github.com/tkxue/helix/job"
	"github.com/tkxue/helix/terminal"
)

type loopFixture struct {
	loop   *Loop
	input  chan []byte
	resize chan terminal.Event
	out    *bytes.Buffer
	got    []terminal.Event
}

func newFixture(t *testing.T, cfg *config.Config) *loopFixture {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
		cfg.EscapeTimeoutMs = 1
		cfg.IdleTimeoutMs = 0
	}
	f := &loopFixture{
		input:  make(chan []byte, 8),
		resize: make(chan terminal.Event, 1),
		out:    &bytes.Buffer{},
	}
	f.loop = &Loop{
		Backend:   terminal.NewBackend(f.out),
		Input:     f.input,
		Resize:    f.resize,
		Jobs:      job.NewQueue(),
		Editor:    editor.New(),
		Dispatch:  func(ev terminal.Event) { f.got = append(f.got, ev) },
		Projector: highlight.NewProjector(nil),
		Config:    config.NewStore(cfg),
		Log:       pslog.LoggerFromEnv(pslog.WithEnvWriter(io.Discard)),
	}
	f.loop.init()
	return f
}

func (f *loopFixture) step(t *testing.T) {
	t.Helper()
	if err := f.loop.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
}

// When the escape timer and fresh input bytes are both ready, the timer wins:
// the held escape is delivered before the newly arrived key.
func TestLoopEscapeTimerOutranksInput(t *testing.T) {
	f := newFixture(t, nil)

	f.input <- []byte{0x1b}
	f.step(t) // arms the disambiguation window, emits nothing
	if len(f.got) != 0 {
		t.Fatalf("lone ESC dispatched early: %+v", f.got)
	}

	time.Sleep(20 * time.Millisecond) // window (1ms) has long expired
	f.input <- []byte("x")
	f.step(t)
	f.step(t)

	if len(f.got) != 2 {
		t.Fatalf("expected 2 events, got %+v", f.got)
	}
	if f.got[0].Key != terminal.KeyEscape {
		t.Errorf("timer expiry must be dispatched first, got %+v", f.got[0])
	}
	if f.got[1].Rune != 'x' {
		t.Errorf("queued byte should follow, got %+v", f.got[1])
	}
}

// Immediate completions queued during a dispatch land before the same step's
// render.
func TestLoopDrainsImmediateBeforeRender(t *testing.T) {
	f := newFixture(t, nil)

	ran := false
	f.loop.Jobs.Immediate <- func(ed *editor.Editor) {
		ran = true
		ed.SetStatus("done")
	}
	f.input <- []byte("j") // input outranks the queue in dispatch order
	f.step(t)

	if len(f.got) != 1 || f.got[0].Rune != 'j' {
		t.Fatalf("input should dispatch in this step, got %+v", f.got)
	}
	if !ran {
		t.Error("immediate completion must drain within the same step")
	}
	if f.loop.Editor.Status() != "done" {
		t.Error("completion callback should have mutated editor state")
	}
}

// A closed completion queue means "no further items", never an error: the
// loop keeps serving the remaining sources.
func TestLoopSurvivesClosedQueues(t *testing.T) {
	f := newFixture(t, nil)

	close(f.loop.Jobs.Immediate)
	close(f.loop.Jobs.Wait)
	f.step(t) // consumes both closures
	f.step(t)

	f.input <- []byte("x")
	f.step(t)
	if len(f.got) != 1 || f.got[0].Rune != 'x' {
		t.Errorf("input must still flow after queue closure, got %+v", f.got)
	}
}

func TestLoopInputCloseRaisesExit(t *testing.T) {
	f := newFixture(t, nil)
	close(f.input)
	f.step(t)
	if !f.loop.Editor.ShouldExit() {
		t.Error("closed input stream should raise the exit flag")
	}
}

func TestLoopResizeReachesBackendAndEditor(t *testing.T) {
	f := newFixture(t, nil)
	f.resize <- terminal.ResizeEvent(120, 40)
	f.step(t)

	if w, h := f.loop.Backend.Size(); w != 120 || h != 40 {
		t.Errorf("backend size not updated: %dx%d", w, h)
	}
	if w, h := f.loop.Editor.Size(); w != 120 || h != 40 {
		t.Errorf("editor size not updated: %dx%d", w, h)
	}
}

// A zero-area frame must render as a no-op, not index out of range.
func TestLoopZeroSizeFrame(t *testing.T) {
	f := newFixture(t, nil)
	f.resize <- terminal.ResizeEvent(0, 0)
	f.step(t)

	f.resize <- terminal.ResizeEvent(80, 24)
	f.step(t)
}

func TestLoopIdleEventAfterQuietInput(t *testing.T) {
	cfg := config.Default()
	cfg.EscapeTimeoutMs = 1
	cfg.IdleTimeoutMs = 1
	f := newFixture(t, cfg)

	f.input <- []byte("j")
	f.step(t) // dispatches j, arms the idle timer
	time.Sleep(20 * time.Millisecond)
	f.step(t) // idle timer fires, posts the editor event
	f.step(t) // editor event dispatches as an idle input event

	var idle int
	for _, ev := range f.got {
		if ev.Type == terminal.EventIdle {
			idle++
		}
	}
	if idle != 1 {
		t.Errorf("expected exactly one idle event, got %d (%+v)", idle, f.got)
	}
}

// Run restores the terminal on every exit path, including immediate exit.
func TestLoopRunRestoresTerminal(t *testing.T) {
	f := newFixture(t, nil)
	f.loop.Editor.Quit()
	if err := f.loop.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !bytes.HasSuffix(f.out.Bytes(), []byte("\x1b[0m\x1b[?25h\x1b[?1049l")) {
		t.Errorf("output must end with the restore sequence, got tail %q",
			tail(f.out.Bytes(), 40))
	}
}

// Must-finish jobs complete before Run returns.
func TestLoopRunWaitsForWaitJobs(t *testing.T) {
	f := newFixture(t, nil)

	saved := false
	f.loop.Jobs.SpawnWait(func() job.Callback {
		time.Sleep(5 * time.Millisecond)
		return func(ed *editor.Editor) { saved = true }
	})
	f.loop.Editor.Quit()
	if err := f.loop.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !saved {
		t.Error("Run must drain must-finish jobs before returning")
	}
	if !f.loop.Jobs.Idle() {
		t.Error("queue should be idle after Run")
	}
}

func tail(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[len(b)-n:]
}
