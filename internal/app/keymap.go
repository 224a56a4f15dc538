package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwulff/kbsr/internal/interp"
	"github.com/jwulff/kbsr/internal/keybind"
)

// bubbleteaAliases maps tea.KeyMsg.String() spellings that differ from the
// keybind package's named-key vocabulary onto the names keybind.Parse
// expects.
var bubbleteaAliases = map[string]string{
	"esc":    "escape",
	"pgup":   "pageup",
	"pgdown": "pagedown",
	"ctrl+@": "ctrl+space",
}

// translateKey converts a tea.KeyMsg into the RawEvent vocabulary the
// interp package consumes. It round-trips through keybind.Parse so the
// chord grammar only has to be defined once.
func translateKey(msg tea.KeyMsg) interp.RawEvent {
	s := msg.String()
	if alias, ok := bubbleteaAliases[s]; ok {
		s = alias
	}

	seq, err := keybind.Parse(s)
	if err != nil || len(seq) != 1 {
		return interp.RawEvent{ModifierOnly: true}
	}
	c := seq[0]
	// bubbletea reports Ctrl+letter as a control code, which carries no
	// case, and spells it lower-case ("ctrl+q"); it is mapped onto the
	// upper-case letter that bindings are written with ("Ctrl+Q").
	if c.Mods.Has(keybind.Ctrl) && c.Key.IsChar() && c.Key.Rune() >= 'a' && c.Key.Rune() <= 'z' {
		c.Key = keybind.CharKey(c.Key.Rune() - ('a' - 'A'))
	}
	return interp.RawEvent{Key: c.Key, Mods: c.Mods}
}

// isGlobalChord reports whether a raw key event matches the given bound
// chord, independent of the active input mode — used for the quit and
// pause bindings, which are always interpreted as Raw chords regardless
// of the study deck's configured mode.
func isGlobalChord(msg tea.KeyMsg, bound keybind.ChordSeq) bool {
	if len(bound) != 1 {
		return false
	}
	ev := translateKey(msg)
	if ev.ModifierOnly {
		return false
	}
	return keybind.Chord{Mods: ev.Mods, Key: ev.Key}.Equal(bound[0])
}
