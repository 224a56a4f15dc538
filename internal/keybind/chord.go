package keybind

import (
	"fmt"
	"strings"
)

// InvalidKeybind is returned when a keybind expression cannot be parsed.
type InvalidKeybind struct {
	Reason   string
	Position int // byte offset into the original expression
}

func (e *InvalidKeybind) Error() string {
	return fmt.Sprintf("invalid keybind at %d: %s", e.Position, e.Reason)
}

// Chord is a modifier set plus one key.
type Chord struct {
	Mods ModifierSet
	Key  Key
}

// Equal is exact componentwise equality. Ctrl+Shift+a and Ctrl+A are not
// equal at this level; mode-specific interpretation reconciles that.
func (c Chord) Equal(other Chord) bool {
	return c.Mods.Equal(other.Mods) && c.Key.Equal(other.Key)
}

// String renders the chord with modifiers in canonical order, "+"-joined.
func (c Chord) String() string {
	mods := c.Mods.String()
	if mods == "" {
		return c.Key.String()
	}
	return mods + "+" + c.Key.String()
}

// CharForm returns the printable single character this chord's key would
// produce when typed with Shift, on a US layout (e.g. Shift+4 -> '$').
// It is undefined (ok=false) for named keys.
func (c Chord) CharForm() (rune, bool) {
	if !c.Key.IsChar() {
		return 0, false
	}
	return shiftedChar(c.Key.Rune())
}

var usShiftSymbols = map[rune]rune{
	'1': '!', '2': '@', '3': '#', '4': '$', '5': '%',
	'6': '^', '7': '&', '8': '*', '9': '(', '0': ')',
	'-': '_', '=': '+', '[': '{', ']': '}', '\\': '|',
	';': ':', '\'': '"', ',': '<', '.': '>', '/': '?', '`': '~',
}

func shiftedChar(r rune) (rune, bool) {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A'), true
	}
	if r >= 'A' && r <= 'Z' {
		return r, true
	}
	if shifted, ok := usShiftSymbols[r]; ok {
		return shifted, true
	}
	return 0, false
}

// ChordSeq is an ordered, non-empty sequence of chords.
type ChordSeq []Chord

// String renders chords space-separated, each in canonical form.
func (s ChordSeq) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Parse parses a keybind expression such as "Ctrl+K Ctrl+C" or "y s i w )"
// into a canonical ChordSeq.
func Parse(expr string) (ChordSeq, error) {
	tokens, positions := tokenizeFields(expr)
	if len(tokens) == 0 {
		return nil, &InvalidKeybind{Reason: "empty keybind expression", Position: 0}
	}

	seq := make(ChordSeq, 0, len(tokens))
	for i, tok := range tokens {
		chord, err := parseChordToken(tok)
		if err != nil {
			return nil, &InvalidKeybind{Reason: err.Error(), Position: positions[i]}
		}
		seq = append(seq, chord)
	}
	return seq, nil
}

// tokenizeFields splits on whitespace like strings.Fields but also returns
// the byte offset of each field's start, for error reporting.
func tokenizeFields(s string) ([]string, []int) {
	var tokens []string
	var positions []int
	inField := false
	start := 0
	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if inField {
				tokens = append(tokens, s[start:i])
				positions = append(positions, start)
				inField = false
			}
			continue
		}
		if !inField {
			start = i
			inField = true
		}
	}
	if inField {
		tokens = append(tokens, s[start:])
		positions = append(positions, start)
	}
	return tokens, positions
}

// parseChordToken parses a single "+"-separated chord token such as
// "Ctrl+Shift+K", "g", or "Ctrl++" (literal '+' as the key).
func parseChordToken(tok string) (Chord, error) {
	if tok == "" {
		return Chord{}, fmt.Errorf("empty chord")
	}

	var modsPart, keyTok string
	if tok == "+" {
		keyTok = "+"
	} else if strings.HasSuffix(tok, "+") {
		// Trailing "+" as the literal key: "Ctrl++" -> mods "Ctrl", key "+".
		modsPart = strings.TrimSuffix(tok[:len(tok)-1], "+")
		keyTok = "+"
	} else {
		idx := strings.LastIndex(tok, "+")
		if idx < 0 {
			keyTok = tok
		} else {
			modsPart = tok[:idx]
			keyTok = tok[idx+1:]
		}
	}

	var mods ModifierSet
	if modsPart != "" {
		for _, m := range strings.Split(modsPart, "+") {
			mod, ok := parseModifierToken(m)
			if !ok {
				return Chord{}, fmt.Errorf("unknown modifier %q in chord %q", m, tok)
			}
			if mods.Has(mod) {
				return Chord{}, fmt.Errorf("duplicate modifier %q in chord %q", m, tok)
			}
			mods = mods.With(mod)
		}
	}

	key, err := parseKeyToken(keyTok)
	if err != nil {
		return Chord{}, fmt.Errorf("%v in chord %q", err, tok)
	}

	return Chord{Mods: mods, Key: key}, nil
}
