// Package app runs the cooperative event loop: one goroutine multiplexing
// terminal input, the escape-disambiguation timer, background-work
// completions and editor-driven events into an ordered act-then-redraw cycle.
package app

import (
	"time"

	"pkt.systems/pslog"

	"github.com/tkxue/helix/config"
	"github.com/tkxue/helix/editor"
	"github.com/tkxue/helix/highlight"
	"github.com/tkxue/helix/job"
	"github.com/tkxue/helix/terminal"
)

// Loop owns the scheduler state. External editor state is mutated only
// inside the dispatch step, never concurrently, by construction.
type Loop struct {
	Backend   *terminal.Backend
	Input     <-chan []byte
	Resize    <-chan terminal.Event
	Jobs      *job.Queue
	Editor    *editor.Editor
	Dispatch  editor.Dispatcher
	Projector *highlight.Projector
	Config    *config.Store
	Log       pslog.Logger

	dis *terminal.Disambiguator

	// Local copies of the queue channels; they go nil once closed so a
	// disconnected queue reads as "no further items", never as an error.
	input     <-chan []byte
	resize    <-chan terminal.Event
	immediate chan job.Callback
	wait      chan job.Callback
	events    <-chan editor.Event

	idle  *time.Timer
	idleC <-chan time.Time
	idleD time.Duration

	front  []terminal.Cell
	back   []terminal.Cell
	fw, fh int
	batch  []terminal.PositionedCell
}

func (l *Loop) logger() pslog.Logger {
	if l.Log != nil {
		return l.Log
	}
	return pslog.LoggerFromEnv()
}

// Run drives the loop until the editor's should-exit flag is observed.
// Restore runs on every exit path, normal or error, so the terminal is never
// left on the alternate screen.
func (l *Loop) Run() (err error) {
	log := l.logger()
	cfg := l.Config.Get()
	l.init()

	defer func() {
		if rerr := l.Backend.Restore(); rerr != nil && err == nil {
			err = rerr
		}
		log.Info("event loop stopped")
	}()

	log.Info("event loop started", "escape_timeout", cfg.EscapeTimeout().String())

	if err := l.Render(); err != nil {
		return err
	}
	for !l.Editor.ShouldExit() {
		if err := l.Step(); err != nil {
			return err
		}
	}
	l.finishWaitJobs()
	return nil
}

// init wires the live source set from the loop's public fields.
func (l *Loop) init() {
	cfg := l.Config.Get()
	l.dis = terminal.NewDisambiguator(cfg.EscapeTimeout())
	l.input = l.Input
	l.resize = l.Resize
	l.immediate = l.Jobs.Immediate
	l.wait = l.Jobs.Wait
	l.events = l.Editor.Events()
	l.idleD = cfg.IdleTimeout()
}

// Step runs one loop iteration: dispatch the highest-priority ready source,
// drain the immediate completion queue, render once.
func (l *Loop) Step() error {
	l.dispatchOne()
	l.DrainImmediate()
	return l.Render()
}

// dispatchOne waits for and handles exactly one unit of work. Sources are
// checked in the fixed priority order first — escape timer, input bytes,
// immediate queue, must-finish queue, editor events — so that when several
// are ready the documented order wins; only when nothing is ready does the
// loop block over the whole set.
func (l *Loop) dispatchOne() {
	select {
	case <-l.dis.TimerC():
		l.fireEscape()
		return
	default:
	}
	select {
	case chunk, ok := <-l.input:
		l.feedInput(chunk, ok)
		return
	default:
	}
	select {
	case ev, ok := <-l.resize:
		l.applyResize(ev, ok)
		return
	default:
	}
	select {
	case cb, ok := <-l.immediate:
		l.runImmediate(cb, ok)
		return
	default:
	}
	select {
	case cb, ok := <-l.wait:
		l.runWait(cb, ok)
		return
	default:
	}
	select {
	case ev := <-l.events:
		l.editorEvent(ev)
		return
	default:
	}
	select {
	case <-l.idleC:
		l.fireIdle()
		return
	default:
	}

	// Nothing ready: passive wait on the whole source set.
	select {
	case <-l.dis.TimerC():
		l.fireEscape()
	case chunk, ok := <-l.input:
		l.feedInput(chunk, ok)
	case ev, ok := <-l.resize:
		l.applyResize(ev, ok)
	case cb, ok := <-l.immediate:
		l.runImmediate(cb, ok)
	case cb, ok := <-l.wait:
		l.runWait(cb, ok)
	case ev := <-l.events:
		l.editorEvent(ev)
	case <-l.idleC:
		l.fireIdle()
	}
}

func (l *Loop) fireEscape() {
	l.Dispatch(l.dis.Expire())
	l.resetIdle()
}

func (l *Loop) feedInput(chunk []byte, ok bool) {
	if !ok {
		// Input stream ended; nothing more can drive the editor.
		l.input = nil
		l.logger().Info("input stream closed")
		l.Editor.Quit()
		return
	}
	for _, ev := range l.dis.Feed(chunk) {
		l.Dispatch(ev)
	}
	l.resetIdle()
}

func (l *Loop) applyResize(ev terminal.Event, ok bool) {
	if !ok {
		l.resize = nil
		return
	}
	l.Backend.Resize(ev.Width, ev.Height)
	l.Editor.Resize(ev.Width, ev.Height)
	l.logger().Debug("resize", "width", ev.Width, "height", ev.Height)
}

func (l *Loop) runImmediate(cb job.Callback, ok bool) {
	if !ok {
		l.immediate = nil
		return
	}
	cb(l.Editor)
}

func (l *Loop) runWait(cb job.Callback, ok bool) {
	if !ok {
		l.wait = nil
		return
	}
	cb(l.Editor)
	l.Jobs.Done()
}

func (l *Loop) editorEvent(ev editor.Event) {
	switch ev.Kind {
	case editor.EventIdle:
		l.Dispatch(terminal.Event{Type: terminal.EventIdle})
	case editor.EventSaved:
		if ev.Status != "" {
			l.Editor.SetStatus(ev.Status)
		}
	case editor.EventRedraw:
		// Render happens after every dispatch anyway.
	}
}

func (l *Loop) fireIdle() {
	l.idleC = nil
	l.Editor.PostIdle()
}

// resetIdle re-arms the idle timer after any real input.
func (l *Loop) resetIdle() {
	if l.idleD <= 0 {
		return
	}
	if l.idle == nil {
		l.idle = time.NewTimer(l.idleD)
	} else {
		l.idle.Stop()
		l.idle.Reset(l.idleD)
	}
	l.idleC = l.idle.C
}

// DrainImmediate synchronously empties the immediate completion queue: a
// dispatched command may enqueue follow-up work that must land before paint.
func (l *Loop) DrainImmediate() {
	for {
		select {
		case cb, ok := <-l.immediate:
			if !ok {
				l.immediate = nil
				return
			}
			cb(l.Editor)
		default:
			return
		}
	}
}

// finishWaitJobs blocks until every must-finish job has reported, then
// returns. Queue closure counts as finished.
func (l *Loop) finishWaitJobs() {
	for !l.Jobs.Idle() {
		cb, ok := <-l.wait
		if !ok {
			return
		}
		cb(l.Editor)
		l.Jobs.Done()
	}
}
