package store

import (
	"time"

	"github.com/jwulff/kbsr/internal/interp"
	"github.com/jwulff/kbsr/internal/scheduler"
)

// StoredCard is a card row plus its FSRS memory state.
type StoredCard struct {
	ID            int64
	DeckName      string
	Keybind       string
	Description   string
	Memory        scheduler.MemoryState
	LastReview    time.Time
	HasLastReview bool
	Due           time.Time
	HasDue        bool
	Reps          int
	Lapses        int
}

// DeckStats aggregates due/total counts for one deck, for the deck
// selection screen.
type DeckStats struct {
	Name  string
	Mode  interp.Mode
	Total int
	Due   int
}

// Review is one persisted review event.
type Review struct {
	ID        int64
	CardID    int64
	Timestamp time.Time
	Rating    scheduler.Rating
	ElapsedMs int64
	Attempts  int
	Revealed  bool
}

// SyncReport summarizes one deck-sync run for the caller.
type SyncReport struct {
	DecksUpserted int
	CardsInserted int
	CardsReset    int
	CardsDeleted  int
	DecksDeleted  int
}
