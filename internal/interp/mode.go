// Package interp translates raw terminal key events into chord candidates
// under one of three interpretation modes.
package interp

import "strings"

// Mode selects how raw key events are translated into chord candidates.
type Mode int

const (
	// Raw takes the event's (modifiers, key) verbatim.
	Raw Mode = iota
	// Chars derives a printable character from Shift + key, stripping Shift.
	Chars
	// Command treats each event as a literal character in a typed line,
	// with Enter as a submit signal.
	Command
)

func (m Mode) String() string {
	switch m {
	case Raw:
		return "raw"
	case Chars:
		return "chars"
	case Command:
		return "command"
	default:
		return "unknown"
	}
}

// ParseModeDirective recognizes a "# mode: raw|chars|command" deck directive
// line (case-insensitive). ok is false if line is not a mode directive at
// all; if it is but names an unrecognized mode, ok is true and warn is set.
func ParseModeDirective(line string) (mode Mode, ok bool, warn string) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return Raw, false, ""
	}
	body := strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
	lower := strings.ToLower(body)
	if !strings.HasPrefix(lower, "mode:") {
		return Raw, false, ""
	}
	value := strings.TrimSpace(lower[len("mode:"):])
	switch value {
	case "raw":
		return Raw, true, ""
	case "chars":
		return Chars, true, ""
	case "command":
		return Command, true, ""
	default:
		return Raw, true, "unknown mode directive %q ignored, defaulting to raw"
	}
}
