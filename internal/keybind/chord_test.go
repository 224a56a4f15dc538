package keybind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleChord(t *testing.T) {
	seq, err := Parse("g")
	require.NoError(t, err)
	require.Len(t, seq, 1)
	assert.Equal(t, CharKey('g'), seq[0].Key)
	assert.True(t, seq[0].Mods.Empty())
	assert.Equal(t, "g", seq.String())
}

func TestParseMultiChordSequence(t *testing.T) {
	seq, err := Parse("Ctrl+K Ctrl+C")
	require.NoError(t, err)
	require.Len(t, seq, 2)
	assert.Equal(t, ModifierSet(Ctrl), seq[0].Mods)
	assert.Equal(t, CharKey('K'), seq[0].Key)
	assert.Equal(t, "Ctrl+K Ctrl+C", seq.String())
}

func TestParseVimStyleSequence(t *testing.T) {
	seq, err := Parse("y s i w )")
	require.NoError(t, err)
	require.Len(t, seq, 5)
	assert.Equal(t, "y s i w )", seq.String())
}

func TestParseRepeatedKey(t *testing.T) {
	seq, err := Parse("g g")
	require.NoError(t, err)
	require.Len(t, seq, 2)
	assert.True(t, seq[0].Equal(seq[1]))
}

func TestParseLiteralPlusKey(t *testing.T) {
	seq, err := Parse("Ctrl++")
	require.NoError(t, err)
	require.Len(t, seq, 1)
	assert.Equal(t, ModifierSet(Ctrl), seq[0].Mods)
	assert.Equal(t, CharKey('+'), seq[0].Key)
	assert.Equal(t, "Ctrl++", seq[0].String())
}

func TestParseBarePlusKey(t *testing.T) {
	seq, err := Parse("+")
	require.NoError(t, err)
	require.Len(t, seq, 1)
	assert.True(t, seq[0].Mods.Empty())
	assert.Equal(t, CharKey('+'), seq[0].Key)
}

func TestParseMultipleModifiers(t *testing.T) {
	seq, err := Parse("Ctrl+Shift+a")
	require.NoError(t, err)
	require.Len(t, seq, 1)
	assert.True(t, seq[0].Mods.Has(Ctrl))
	assert.True(t, seq[0].Mods.Has(Shift))
	assert.Equal(t, "Ctrl+Shift+a", seq.String())
}

func TestChordLevelEqualityIsExact(t *testing.T) {
	ctrlShiftA, err := Parse("Ctrl+Shift+a")
	require.NoError(t, err)
	ctrlA, err := Parse("Ctrl+A")
	require.NoError(t, err)

	assert.False(t, ctrlShiftA[0].Equal(ctrlA[0]))
}

func TestParseModifierCaseInsensitive(t *testing.T) {
	a, err := Parse("ctrl+shift+a")
	require.NoError(t, err)
	b, err := Parse("CTRL+SHIFT+a")
	require.NoError(t, err)
	assert.True(t, a[0].Equal(b[0]))
}

func TestParseDuplicateModifierRejected(t *testing.T) {
	_, err := Parse("Ctrl+Ctrl+a")
	require.Error(t, err)
	var ik *InvalidKeybind
	require.ErrorAs(t, err, &ik)
}

func TestParseUnknownModifierRejected(t *testing.T) {
	_, err := Parse("Foo+a")
	require.Error(t, err)
}

func TestParseEmptyExpressionRejected(t *testing.T) {
	_, err := Parse("")
	require.Error(t, err)
	_, err = Parse("   ")
	require.Error(t, err)
}

func TestParsePrintIdempotence(t *testing.T) {
	exprs := []string{
		"Ctrl+K Ctrl+C",
		"g g",
		"y s i w )",
		"Ctrl++",
		"Ctrl+Shift+A",
		"F5",
		"Escape",
		"Space",
	}
	for _, expr := range exprs {
		seq, err := Parse(expr)
		require.NoErrorf(t, err, "parsing %q", expr)
		reseq, err := Parse(seq.String())
		require.NoErrorf(t, err, "reparsing %q", seq.String())
		assert.Equal(t, seq.String(), reseq.String(), "not idempotent for %q", expr)
	}
}

func TestNamedKeyParsing(t *testing.T) {
	seq, err := Parse("PageDown")
	require.NoError(t, err)
	assert.False(t, seq[0].Key.IsChar())
	assert.Equal(t, PageDown, seq[0].Key.NamedValue())
}

func TestCharFormShiftDigit(t *testing.T) {
	seq, err := Parse("4")
	require.NoError(t, err)
	r, ok := seq[0].CharForm()
	require.True(t, ok)
	assert.Equal(t, '$', r)
}

func TestCharFormShiftLetter(t *testing.T) {
	seq, err := Parse("g")
	require.NoError(t, err)
	r, ok := seq[0].CharForm()
	require.True(t, ok)
	assert.Equal(t, 'G', r)
}

func TestCharFormUndefinedForNamedKey(t *testing.T) {
	seq, err := Parse("Enter")
	require.NoError(t, err)
	_, ok := seq[0].CharForm()
	assert.False(t, ok)
}
