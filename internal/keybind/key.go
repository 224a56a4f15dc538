// Package keybind implements the chord model: parsing keybind expressions
// into canonical chord sequences and printing them back out.
package keybind

import "fmt"

// Named is one of the fixed non-character keys.
type Named int

const (
	Space Named = iota + 1
	Tab
	Enter
	Escape
	Backspace
	Delete
	Insert
	Home
	End
	PageUp
	PageDown
	Up
	Down
	Left
	Right
	CapsLock
	ScrollLock
	NumLock
	PrintScreen
	Pause
	Menu
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
)

var namedStrings = map[Named]string{
	Space: "Space", Tab: "Tab", Enter: "Enter", Escape: "Escape",
	Backspace: "Backspace", Delete: "Delete", Insert: "Insert",
	Home: "Home", End: "End", PageUp: "PageUp", PageDown: "PageDown",
	Up: "Up", Down: "Down", Left: "Left", Right: "Right",
	CapsLock: "CapsLock", ScrollLock: "ScrollLock", NumLock: "NumLock",
	PrintScreen: "PrintScreen", Pause: "Pause", Menu: "Menu",
	F1: "F1", F2: "F2", F3: "F3", F4: "F4", F5: "F5", F6: "F6",
	F7: "F7", F8: "F8", F9: "F9", F10: "F10", F11: "F11", F12: "F12",
}

var namedByLower = func() map[string]Named {
	m := make(map[string]Named, len(namedStrings))
	for n, s := range namedStrings {
		m[lower(s)] = n
	}
	return m
}()

// Key is a discriminated value: either a Named key or a single rune.
type Key struct {
	named  Named // zero when the key is a character
	char   rune
	isRune bool
}

// NamedKey builds a Key from one of the fixed named keys.
func NamedKey(n Named) Key { return Key{named: n} }

// CharKey builds a Key from a single Unicode scalar.
func CharKey(r rune) Key { return Key{char: r, isRune: true} }

// IsChar reports whether this Key holds a character rather than a named key.
func (k Key) IsChar() bool { return k.isRune }

// Rune returns the character this Key holds. Only valid when IsChar is true.
func (k Key) Rune() rune { return k.char }

// NamedValue returns the named-key identity this Key holds. Only valid when
// IsChar is false.
func (k Key) NamedValue() Named { return k.named }

// Equal compares two keys: named keys by identity, character keys by scalar.
func (k Key) Equal(other Key) bool {
	if k.isRune != other.isRune {
		return false
	}
	if k.isRune {
		return k.char == other.char
	}
	return k.named == other.named
}

// String renders the key the way it should appear in a printed chord.
func (k Key) String() string {
	if k.isRune {
		if k.char == ' ' {
			return "Space"
		}
		return string(k.char)
	}
	if s, ok := namedStrings[k.named]; ok {
		return s
	}
	return fmt.Sprintf("Named(%d)", int(k.named))
}

// parseKeyToken parses a single key token: a named key (case-insensitive)
// or a single Unicode scalar.
func parseKeyToken(tok string) (Key, error) {
	if tok == "" {
		return Key{}, fmt.Errorf("empty key token")
	}
	if n, ok := namedByLower[lower(tok)]; ok {
		return NamedKey(n), nil
	}
	runes := []rune(tok)
	if len(runes) == 1 {
		return CharKey(runes[0]), nil
	}
	return Key{}, fmt.Errorf("unknown key: %q", tok)
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
