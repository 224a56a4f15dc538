package app

import (
	"time"

	"github.com/jwulff/kbsr/internal/interp"
	"github.com/jwulff/kbsr/internal/store"
)

// deckStatsLoadedMsg carries the deck list shown on the selection screen.
type deckStatsLoadedMsg struct {
	decks []store.DeckStats
	err   error
}

// dueCardsLoadedMsg carries the due-card queue for a chosen deck (or all
// decks, when deckName is empty).
type dueCardsLoadedMsg struct {
	deckName  string
	showHints bool
	cards     []store.StoredCard
	decks     map[string]deckMeta
	err       error
}

// deckMeta is the input mode needed to drive the matcher
// for cards belonging to one deck, keyed separately from store.StoredCard
// so the studying state doesn't need to re-parse TSVs mid-session.
type deckMeta struct {
	mode interp.Mode
}

// reviewSavedMsg confirms a scheduler update was persisted.
type reviewSavedMsg struct {
	cardID int64
	err    error
}

// tickMsg drives the per-card timeout check and the success/answer
// flash timers.
type tickMsg time.Time

// errMsg wraps any background error into a message the Update loop can
// surface without crashing the program.
type errMsg struct{ err error }
