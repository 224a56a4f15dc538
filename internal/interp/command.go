package interp

import "github.com/jwulff/kbsr/internal/keybind"

// commandInterpreter treats each event as a literal character appended to
// an in-progress command line; Enter submits, Backspace deletes.
type commandInterpreter struct{}

func (commandInterpreter) Interpret(ev RawEvent) Result {
	if ev.ModifierOnly {
		return Result{}
	}

	if !ev.Key.IsChar() {
		switch ev.Key.NamedValue() {
		case keybind.Enter:
			return Result{Submit: true}
		case keybind.Backspace:
			return Result{Backspace: true}
		case keybind.Space:
			return Result{Chord: keybind.Chord{Key: keybind.CharKey(' ')}, HasChord: true}
		default:
			return Result{}
		}
	}

	r := ev.Key.Rune()
	if ev.Mods.Has(keybind.Shift) {
		if shifted, ok := (keybind.Chord{Key: ev.Key}).CharForm(); ok {
			r = shifted
		}
	}
	return Result{Chord: keybind.Chord{Key: keybind.CharKey(r)}, HasChord: true}
}
