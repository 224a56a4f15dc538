package app

import (
	"time"

	"github.com/jwulff/kbsr/internal/interp"
	"github.com/jwulff/kbsr/internal/matcher"
	"github.com/jwulff/kbsr/internal/session"
	"github.com/jwulff/kbsr/internal/store"
)

// Kind discriminates which variant of State is populated. Each variant
// carries only the fields relevant to it; the shared Model holds only
// config, storage, scheduler, and chord bindings.
type Kind int

const (
	KindDeckSelection Kind = iota
	KindStudying
	KindShowingSuccess
	KindShowingAnswer
	KindPaused
	KindSummary
)

// DeckSelectionState is the entry screen: choose a deck (or "all decks")
// to study.
type DeckSelectionState struct {
	AvailableDecks []store.DeckStats
	Selected       int
	ShowHints      bool
}

// SessionStats tracks per-session counters shown on the summary screen.
type SessionStats struct {
	Reviewed int
	Correct  int
}

// StudyingState is the active review loop.
type StudyingState struct {
	DeckName      string // "" means "all decks"
	DeckModes     map[string]interp.Mode
	Mode          interp.Mode
	Interpreter   interp.Interpreter
	Queue         *session.Queue
	Cards         map[int64]store.StoredCard // card id -> persisted card row
	Matcher       *matcher.Matcher
	Attempts      int
	CardStartTime time.Time
	ShowHints     bool
	Stats         SessionStats
}

// ShowingSuccessState briefly flashes success feedback before the next
// card is presented.
type ShowingSuccessState struct {
	Prior StudyingState
	Until time.Time
}

// ShowingAnswerState briefly flashes the wrong/revealed indicator. The
// same card always continues afterward: a Wrong attempt resets for a
// retry, and a Reveal still requires the correct sequence to be typed
// before the card is scored and the queue advances.
type ShowingAnswerState struct {
	Prior StudyingState
	Until time.Time
}

// PausedState snapshots whatever state was active when the pause chord was
// pressed, restoring it on resume. Resuming shifts StudyingState's
// CardStartTime by the pause length; the matcher's own timer, which
// supplies the rating's elapsed time and the timeout, is not shifted.
type PausedState struct {
	Previous  State
	StartedAt time.Time
}

// SummaryState is shown once the session queue empties.
type SummaryState struct {
	Stats SessionStats
}

// State is the tagged union over the session's variants.
type State struct {
	Kind Kind

	DeckSelection  *DeckSelectionState
	Studying       *StudyingState
	ShowingSuccess *ShowingSuccessState
	ShowingAnswer  *ShowingAnswerState
	Paused         *PausedState
	Summary        *SummaryState
}
