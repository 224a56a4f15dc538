package interp

import "github.com/jwulff/kbsr/internal/keybind"

// charsInterpreter derives a printable character from Shift + key and
// strips Shift, leaving other modifiers in place. Named keys pass through
// verbatim.
type charsInterpreter struct{}

func (charsInterpreter) Interpret(ev RawEvent) Result {
	if ev.ModifierOnly {
		return Result{}
	}
	if !ev.Key.IsChar() {
		return Result{
			Chord:    keybind.Chord{Mods: ev.Mods, Key: ev.Key},
			HasChord: true,
		}
	}
	if ev.Mods.Has(keybind.Shift) {
		if shifted, ok := (keybind.Chord{Key: ev.Key}).CharForm(); ok {
			return Result{
				Chord:    keybind.Chord{Mods: ev.Mods.Without(keybind.Shift), Key: keybind.CharKey(shifted)},
				HasChord: true,
			}
		}
	}
	return Result{
		Chord:    keybind.Chord{Mods: ev.Mods, Key: ev.Key},
		HasChord: true,
	}
}
