// Package matcher implements the progressive matcher: tracking a user's
// typed input against an expected chord sequence across attempts.
package matcher

import (
	"time"

	"github.com/jwulff/kbsr/internal/clock"
	"github.com/jwulff/kbsr/internal/interp"
	"github.com/jwulff/kbsr/internal/keybind"
)

// Outcome classifies what a single Process call produced.
type Outcome int

const (
	// Progress means the candidate matched and the index advanced, but
	// the sequence is not yet complete.
	Progress Outcome = iota
	// Complete means the full expected sequence was typed correctly.
	Complete
	// Wrong means the candidate did not match; the attempt resets.
	Wrong
	// Reveal means the answer is now shown; the rating is locked to
	// Again regardless of how the card is eventually completed.
	Reveal
	// Timeout means the per-card timer expired while still in progress;
	// the rating is locked to Again but input continues to be accepted.
	Timeout
)

// Event is the result of processing one raw input against the matcher.
type Event struct {
	Outcome  Outcome
	Index    int           // new index, for Progress
	Elapsed  time.Duration // time since the first input, for Complete
	Attempts int           // attempts taken, for Complete and Wrong
}

// Matcher tracks progress through an expected ChordSeq.
type Matcher struct {
	expected    keybind.ChordSeq
	mode        interp.Mode
	clk         clock.Clock
	maxAttempts int
	timeout     time.Duration

	index     int
	attempts  int
	startedAt time.Time
	started   bool
	revealed  bool
	timedOut  bool

	cmdBuffer []rune
}

// New builds a Matcher for expected, under mode, using clk for timing.
func New(expected keybind.ChordSeq, mode interp.Mode, clk clock.Clock, maxAttempts int, timeout time.Duration) *Matcher {
	return &Matcher{
		expected:    expected,
		mode:        mode,
		clk:         clk,
		maxAttempts: maxAttempts,
		timeout:     timeout,
	}
}

// Revealed reports whether the answer has been revealed (via max attempts
// or an explicit force-reveal), locking the eventual rating to Again.
func (m *Matcher) Revealed() bool { return m.revealed }

// TimedOut reports whether the per-card timer has expired, locking the
// eventual rating to Again.
func (m *Matcher) TimedOut() bool { return m.timedOut }

// Index returns the current position within the expected sequence.
func (m *Matcher) Index() int { return m.index }

func (m *Matcher) markStarted() {
	if !m.started {
		m.startedAt = m.clk.Now()
		m.started = true
	}
}

// Process advances the matcher by one interpreted input result.
func (m *Matcher) Process(res interp.Result) Event {
	if m.mode == interp.Command {
		return m.processCommand(res)
	}
	return m.processChord(res)
}

func (m *Matcher) processChord(res interp.Result) Event {
	if !res.HasChord {
		return Event{Outcome: Progress, Index: m.index}
	}
	m.markStarted()

	if m.index >= len(m.expected) {
		return Event{Outcome: Progress, Index: m.index}
	}

	if res.Chord.Equal(m.expected[m.index]) {
		m.index++
		if m.index == len(m.expected) {
			return Event{Outcome: Complete, Elapsed: m.clk.Now().Sub(m.startedAt), Attempts: m.attempts + 1}
		}
		return Event{Outcome: Progress, Index: m.index}
	}
	return m.fail()
}

func (m *Matcher) processCommand(res interp.Result) Event {
	switch {
	case res.Backspace:
		if len(m.cmdBuffer) > 0 {
			m.cmdBuffer = m.cmdBuffer[:len(m.cmdBuffer)-1]
		}
		return Event{Outcome: Progress, Index: len(m.cmdBuffer)}
	case res.Submit:
		typed := string(m.cmdBuffer)
		m.cmdBuffer = nil
		if typed == m.expected.String() {
			return Event{Outcome: Complete, Elapsed: m.clk.Now().Sub(m.startedAt), Attempts: m.attempts + 1}
		}
		return m.fail()
	case res.HasChord:
		m.markStarted()
		m.cmdBuffer = append(m.cmdBuffer, res.Chord.Key.Rune())
		return Event{Outcome: Progress, Index: len(m.cmdBuffer)}
	default:
		return Event{Outcome: Progress, Index: len(m.cmdBuffer)}
	}
}

func (m *Matcher) fail() Event {
	m.index = 0
	m.cmdBuffer = nil
	m.attempts++
	if m.attempts >= m.maxAttempts {
		m.revealed = true
		return Event{Outcome: Reveal, Attempts: m.attempts}
	}
	return Event{Outcome: Wrong, Attempts: m.attempts}
}

// ForceReveal transitions the matcher directly to the Reveal state, as
// triggered by Escape outside command mode. Attempts is pinned to
// maxAttempts so the rating policy locks to Again.
func (m *Matcher) ForceReveal() Event {
	m.index = 0
	m.cmdBuffer = nil
	m.attempts = m.maxAttempts
	m.revealed = true
	return Event{Outcome: Reveal, Attempts: m.attempts}
}

// CheckTimeout reports a Timeout event if the per-card timer has expired
// while the sequence is still in progress. Input continues to be accepted
// afterward; the matcher does not reset.
func (m *Matcher) CheckTimeout() (Event, bool) {
	if m.timedOut || !m.started || m.index >= len(m.expected) {
		return Event{}, false
	}
	if m.clk.Now().Sub(m.startedAt) < m.timeout {
		return Event{}, false
	}
	m.timedOut = true
	return Event{Outcome: Timeout}, true
}

// Attempts returns the number of failed attempts so far.
func (m *Matcher) Attempts() int { return m.attempts }
