// Package termmode manages the terminal's Kitty-protocol-style keyboard
// enhancement flag stack: pushing a mode on study start, popping it on
// exit, tied to a scoped guard so cleanup runs on every exit path.
package termmode

import (
	"fmt"
	"io"

	"github.com/jwulff/kbsr/internal/kbrserr"
)

// Flags is a bitset of Kitty keyboard protocol enhancement flags.
type Flags int

const (
	DisambiguateEscapeCodes Flags = 1 << iota
	ReportEventTypes
	ReportAlternateKeys
	ReportAllKeysAsEscapeCodes
)

// RawMode is the flag set used for Raw and Command mode input, where
// distinguishing key-up/down and alternate keys matters.
const RawMode = DisambiguateEscapeCodes | ReportEventTypes | ReportAlternateKeys

// CharsMode is the flag set used for Chars mode, where only disambiguation
// is needed.
const CharsMode = DisambiguateEscapeCodes

// Stack tracks successfully-pushed layers so they can be popped in
// reverse order on any exit path, including panics. State is only
// recorded after a push actually succeeds.
type Stack struct {
	w      io.Writer
	pushed []Flags
}

// New builds a Stack that writes push/pop escape sequences to w (the
// terminal's raw output).
func New(w io.Writer) *Stack {
	return &Stack{w: w}
}

// Push writes the push-keyboard-enhancement-flags escape sequence and, only
// on success, records the layer so it will be popped later.
func (s *Stack) Push(flags Flags) error {
	seq := fmt.Sprintf("\x1b[>%du", int(flags))
	if _, err := io.WriteString(s.w, seq); err != nil {
		return kbrserr.Wrap(kbrserr.ErrTerminal, fmt.Errorf("push keyboard flags %d: %w", flags, err))
	}
	s.pushed = append(s.pushed, flags)
	return nil
}

// PopAll pops every successfully-pushed layer in reverse order, attempting
// every layer even if an earlier pop fails, and returns the first error
// encountered, if any.
func (s *Stack) PopAll() error {
	var firstErr error
	for len(s.pushed) > 0 {
		n := len(s.pushed) - 1
		s.pushed = s.pushed[:n]
		if _, err := io.WriteString(s.w, "\x1b[<u"); err != nil && firstErr == nil {
			firstErr = kbrserr.Wrap(kbrserr.ErrTerminal, fmt.Errorf("pop keyboard flags: %w", err))
		}
	}
	return firstErr
}

// Depth reports how many layers are currently pushed.
func (s *Stack) Depth() int { return len(s.pushed) }
