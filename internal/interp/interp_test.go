package interp

import (
	"testing"

	"github.com/jwulff/kbsr/internal/keybind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModeDirective(t *testing.T) {
	cases := []struct {
		line    string
		ok      bool
		mode    Mode
		hasWarn bool
	}{
		{"# mode: raw", true, Raw, false},
		{"# mode: CHARS", true, Chars, false},
		{"#mode:command", true, Command, false},
		{"# mode: nonsense", true, Raw, true},
		{"# just a comment", false, Raw, false},
		{"Ctrl+K	description", false, Raw, false},
	}
	for _, c := range cases {
		mode, ok, warn := ParseModeDirective(c.line)
		assert.Equalf(t, c.ok, ok, "line %q", c.line)
		if c.ok {
			assert.Equalf(t, c.mode, mode, "line %q", c.line)
		}
		assert.Equalf(t, c.hasWarn, warn != "", "line %q warn=%q", c.line, warn)
	}
}

func TestRawModeTakesEventVerbatim(t *testing.T) {
	interp := New(Raw)
	res := interp.Interpret(RawEvent{Key: keybind.CharKey('1'), Mods: keybind.ModifierSet(keybind.Shift)})
	require.True(t, res.HasChord)
	assert.Equal(t, keybind.ModifierSet(keybind.Shift), res.Chord.Mods)
	assert.Equal(t, keybind.CharKey('1'), res.Chord.Key)
}

func TestRawModeIgnoresBareModifier(t *testing.T) {
	interp := New(Raw)
	res := interp.Interpret(RawEvent{ModifierOnly: true})
	assert.False(t, res.HasChord)
	assert.False(t, res.Submit)
	assert.False(t, res.Backspace)
}

func TestCharsModeStripsShiftForLetter(t *testing.T) {
	interp := New(Chars)
	res := interp.Interpret(RawEvent{Key: keybind.CharKey('g'), Mods: keybind.ModifierSet(keybind.Shift)})
	require.True(t, res.HasChord)
	assert.True(t, res.Chord.Mods.Empty())
	assert.Equal(t, keybind.CharKey('G'), res.Chord.Key)
}

func TestCharsModeKeepsOtherModifiersWhenStrippingShift(t *testing.T) {
	interp := New(Chars)
	mods := keybind.ModifierSet(keybind.Ctrl).With(keybind.Shift)
	res := interp.Interpret(RawEvent{Key: keybind.CharKey('p'), Mods: mods})
	require.True(t, res.HasChord)
	assert.True(t, res.Chord.Mods.Has(keybind.Ctrl))
	assert.False(t, res.Chord.Mods.Has(keybind.Shift))
	assert.Equal(t, keybind.CharKey('P'), res.Chord.Key)
}

func TestCharsModeLeavesNamedKeysUnchanged(t *testing.T) {
	interp := New(Chars)
	mods := keybind.ModifierSet(keybind.Shift)
	res := interp.Interpret(RawEvent{Key: keybind.NamedKey(keybind.Tab), Mods: mods})
	require.True(t, res.HasChord)
	assert.True(t, res.Chord.Mods.Has(keybind.Shift))
	assert.Equal(t, keybind.NamedKey(keybind.Tab), res.Chord.Key)
}

func TestCommandModeEnterSubmits(t *testing.T) {
	interp := New(Command)
	res := interp.Interpret(RawEvent{Key: keybind.NamedKey(keybind.Enter)})
	assert.True(t, res.Submit)
	assert.False(t, res.HasChord)
}

func TestCommandModeBackspaceDeletes(t *testing.T) {
	interp := New(Command)
	res := interp.Interpret(RawEvent{Key: keybind.NamedKey(keybind.Backspace)})
	assert.True(t, res.Backspace)
}

func TestCommandModeSpaceIsLiteralChar(t *testing.T) {
	interp := New(Command)
	res := interp.Interpret(RawEvent{Key: keybind.NamedKey(keybind.Space)})
	require.True(t, res.HasChord)
	assert.True(t, res.Chord.Mods.Empty())
	assert.Equal(t, keybind.CharKey(' '), res.Chord.Key)
}

func TestCommandModeStripsAllModifiers(t *testing.T) {
	interp := New(Command)
	mods := keybind.ModifierSet(keybind.Ctrl).With(keybind.Shift)
	res := interp.Interpret(RawEvent{Key: keybind.CharKey('g'), Mods: mods})
	require.True(t, res.HasChord)
	assert.True(t, res.Chord.Mods.Empty())
	assert.Equal(t, keybind.CharKey('G'), res.Chord.Key)
}

func TestCommandModeIgnoresOtherNamedKeys(t *testing.T) {
	interp := New(Command)
	res := interp.Interpret(RawEvent{Key: keybind.NamedKey(keybind.Escape)})
	assert.False(t, res.HasChord)
	assert.False(t, res.Submit)
	assert.False(t, res.Backspace)
}
