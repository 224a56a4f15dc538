package interp

import "github.com/jwulff/kbsr/internal/keybind"

// RawEvent is a single raw key press delivered by the terminal, decoupled
// from any particular terminal library's representation. Modifiers carry
// the Kitty-protocol-style enhanced set, with Shift reported explicitly.
type RawEvent struct {
	Key  keybind.Key
	Mods keybind.ModifierSet
	// ModifierOnly marks a press of a bare modifier key with no
	// accompanying key; it maps to no chord in any mode.
	ModifierOnly bool
}

// Submit is the distinguished signal Command mode emits on Enter, consumed
// by the matcher rather than treated as a chord.
type Submit struct{}

// Ignored is returned when an event maps to no chord (a bare modifier
// press, for instance).
type Ignored struct{}

// Backspace is the signal Command mode emits when the user deletes the
// last accepted chord from the in-progress buffer.
type Backspace struct{}

// Result is what an Interpreter produces for one RawEvent: at most one of
// HasChord (Chord holds a candidate chord), Submit, or Backspace is true;
// all three false means the event was ignored.
type Result struct {
	Chord     keybind.Chord
	HasChord  bool
	Submit    bool
	Backspace bool
}

// Interpreter maps a raw terminal key event to an interpretation-mode
// specific result.
type Interpreter interface {
	Interpret(ev RawEvent) Result
}

// New returns the Interpreter for the given mode.
func New(mode Mode) Interpreter {
	switch mode {
	case Chars:
		return charsInterpreter{}
	case Command:
		return commandInterpreter{}
	default:
		return rawInterpreter{}
	}
}
