package keybind

// Modifier is one bit of a chord's modifier set.
type Modifier int

const (
	Ctrl Modifier = 1 << iota
	Alt
	Shift
	Super
	Meta
	Hyper
)

// canonicalOrder is the fixed printing order for modifiers.
var canonicalOrder = []Modifier{Ctrl, Alt, Shift, Super, Meta, Hyper}

var modifierNames = map[Modifier]string{
	Ctrl: "Ctrl", Alt: "Alt", Shift: "Shift",
	Super: "Super", Meta: "Meta", Hyper: "Hyper",
}

var modifierByLower = map[string]Modifier{
	"ctrl": Ctrl, "control": Ctrl,
	"alt":   Alt,
	"shift": Shift,
	"super": Super,
	"meta":  Meta,
	"hyper": Hyper,
}

// ModifierSet is a bitset of Modifier values.
type ModifierSet Modifier

// Has reports whether m is present in the set.
func (s ModifierSet) Has(m Modifier) bool { return ModifierSet(m)&s != 0 }

// With returns a copy of the set with m added.
func (s ModifierSet) With(m Modifier) ModifierSet { return s | ModifierSet(m) }

// Without returns a copy of the set with m removed.
func (s ModifierSet) Without(m Modifier) ModifierSet { return s &^ ModifierSet(m) }

// Equal compares two modifier sets for exact equality.
func (s ModifierSet) Equal(other ModifierSet) bool { return s == other }

// Empty reports whether no modifiers are set.
func (s ModifierSet) Empty() bool { return s == 0 }

// String renders the set in canonical order, joined by "+".
func (s ModifierSet) String() string {
	var out string
	for _, m := range canonicalOrder {
		if s.Has(m) {
			if out != "" {
				out += "+"
			}
			out += modifierNames[m]
		}
	}
	return out
}

func parseModifierToken(tok string) (Modifier, bool) {
	m, ok := modifierByLower[lower(tok)]
	return m, ok
}
