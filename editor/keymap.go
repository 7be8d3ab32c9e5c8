package editor

import "github.com/tkxue/helix/terminal"

// Dispatcher routes one structured input event through keymap lookup and
// execution. The terminal layer decodes events and hands them here without
// interpreting them further.
type Dispatcher func(terminal.Event)

// DefaultKeymap wires the reference vi-flavored bindings. The save function
// is supplied by the caller so document writes can run as background jobs.
func DefaultKeymap(ed *Editor, save func()) Dispatcher {
	return func(ev terminal.Event) {
		if ev.Type == terminal.EventIdle {
			return // reference model has no idle behavior
		}
		if ev.Type != terminal.EventKey {
			return
		}

		// A registered one-shot continuation consumes the key outright.
		if fn, ok := ed.TakePending(); ok {
			fn(ev)
			return
		}

		ed.SetStatus("")
		switch ed.Mode() {
		case ModeInsert:
			insertKey(ed, ev)
		default:
			normalKey(ed, ev, save)
		}
	}
}

func normalKey(ed *Editor, ev terminal.Event, save func()) {
	switch ev.Key {
	case terminal.KeyLeft:
		ed.MoveLeft()
		return
	case terminal.KeyRight:
		ed.MoveRight()
		return
	case terminal.KeyUp:
		ed.MoveUp()
		return
	case terminal.KeyDown:
		ed.MoveDown()
		return
	case terminal.KeyHome:
		ed.MoveLineStart()
		return
	case terminal.KeyEnd:
		ed.MoveLineEnd()
		return
	case terminal.KeyCtrlC, terminal.KeyCtrlQ:
		ed.Quit()
		return
	case terminal.KeyCtrlS:
		save()
		return
	}

	if ev.Key != terminal.KeyRune {
		return
	}
	switch ev.Rune {
	case 'h':
		ed.MoveLeft()
	case 'l':
		ed.MoveRight()
	case 'k':
		ed.MoveUp()
	case 'j':
		ed.MoveDown()
	case '0':
		ed.MoveLineStart()
	case '$':
		ed.MoveLineEnd()
	case 'G':
		ed.MoveBottom()
	case 'g':
		// Multi-key command: gg jumps to the top. The continuation fires on
		// the next key event and is consumed exactly once.
		ed.OnNextKey(func(next terminal.Event) {
			if next.Key == terminal.KeyRune && next.Rune == 'g' {
				ed.MoveTop()
			}
		})
	case 'x':
		ed.DeleteAt()
	case 'i':
		ed.SetMode(ModeInsert)
	case 'a':
		ed.SetMode(ModeInsert)
		ed.MoveRight()
	case 'q':
		ed.Quit()
	}
}

func insertKey(ed *Editor, ev terminal.Event) {
	switch ev.Key {
	case terminal.KeyEscape:
		ed.SetMode(ModeNormal)
	case terminal.KeyEnter:
		ed.InsertNewline()
	case terminal.KeyBackspace:
		ed.DeleteBack()
	case terminal.KeyLeft:
		ed.MoveLeft()
	case terminal.KeyRight:
		ed.MoveRight()
	case terminal.KeyUp:
		ed.MoveUp()
	case terminal.KeyDown:
		ed.MoveDown()
	case terminal.KeyTab:
		ed.InsertRune('\t')
	case terminal.KeyRune:
		ed.InsertRune(ev.Rune)
	}
}
