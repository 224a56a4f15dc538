package interp

import "github.com/jwulff/kbsr/internal/keybind"

// rawInterpreter takes each event's (modifiers, key) verbatim.
type rawInterpreter struct{}

func (rawInterpreter) Interpret(ev RawEvent) Result {
	if ev.ModifierOnly {
		return Result{}
	}
	return Result{
		Chord:    keybind.Chord{Mods: ev.Mods, Key: ev.Key},
		HasChord: true,
	}
}
