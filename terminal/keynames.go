package terminal

import "fmt"

var keyNames = map[Key]string{
	KeyNone:      "none",
	KeyRune:      "rune",
	KeyEscape:    "escape",
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBacktab:   "backtab",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeySpace:     "space",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pageup",
	KeyPageDown:  "pagedown",
	KeyInsert:    "insert",
	KeyF1:        "f1",
	KeyF2:        "f2",
	KeyF3:        "f3",
	KeyF4:        "f4",
	KeyF5:        "f5",
	KeyF6:        "f6",
	KeyF7:        "f7",
	KeyF8:        "f8",
	KeyF9:        "f9",
	KeyF10:       "f10",
	KeyF11:       "f11",
	KeyF12:       "f12",
}

// Ctrl+H/I/J/M decode as backspace/tab/enter, so the constant block is not a
// contiguous alphabet and the names are spelled out.
var ctrlNames = map[Key]string{
	KeyCtrlA: "C-a", KeyCtrlB: "C-b", KeyCtrlC: "C-c", KeyCtrlD: "C-d",
	KeyCtrlE: "C-e", KeyCtrlF: "C-f", KeyCtrlG: "C-g", KeyCtrlK: "C-k",
	KeyCtrlL: "C-l", KeyCtrlN: "C-n", KeyCtrlO: "C-o", KeyCtrlP: "C-p",
	KeyCtrlQ: "C-q", KeyCtrlR: "C-r", KeyCtrlS: "C-s", KeyCtrlT: "C-t",
	KeyCtrlU: "C-u", KeyCtrlV: "C-v", KeyCtrlW: "C-w", KeyCtrlX: "C-x",
	KeyCtrlY: "C-y", KeyCtrlZ: "C-z",
	KeyCtrlSpace: "C-space", KeyCtrlBackslash: "C-\\",
	KeyCtrlBracketRight: "C-]", KeyCtrlCaret: "C-^", KeyCtrlUnderscore: "C-_",
}

// String renders an event for logs and status lines.
func (e Event) String() string {
	switch e.Type {
	case EventResize:
		return fmt.Sprintf("resize(%dx%d)", e.Width, e.Height)
	case EventIdle:
		return "idle"
	}

	var prefix string
	if e.Mods&ModCtrl != 0 {
		prefix += "C-"
	}
	if e.Mods&ModAlt != 0 {
		prefix += "A-"
	}
	if e.Mods&ModShift != 0 {
		prefix += "S-"
	}

	if e.Key == KeyRune {
		return prefix + string(e.Rune)
	}
	if name, ok := keyNames[e.Key]; ok {
		return prefix + name
	}
	if name, ok := ctrlNames[e.Key]; ok {
		return name
	}
	return fmt.Sprintf("%skey(%d)", prefix, e.Key)
}
