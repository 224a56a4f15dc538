package store

import (
	"strings"
	"testing"
	"time"

	"github.com/jwulff/kbsr/internal/deck"
	"github.com/jwulff/kbsr/internal/interp"
	"github.com/jwulff/kbsr/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSyncDecksInsertsNewCards(t *testing.T) {
	s := openTestStore(t)
	d, errs := deck.Parse("vim", strings.NewReader("Ctrl+S\tSave\nCtrl+Z\tUndo\n"))
	require.Empty(t, errs)

	report, err := s.SyncDecks([]deck.Deck{d})
	require.NoError(t, err)
	assert.Equal(t, 2, report.CardsInserted)

	due, err := s.GetDueCards("vim", time.Now())
	require.NoError(t, err)
	assert.Len(t, due, 2)
}

func TestSyncDecksIsIdempotentWhenUnchanged(t *testing.T) {
	s := openTestStore(t)
	d, errs := deck.Parse("vim", strings.NewReader("Ctrl+S\tSave\n"))
	require.Empty(t, errs)

	_, err := s.SyncDecks([]deck.Deck{d})
	require.NoError(t, err)

	report, err := s.SyncDecks([]deck.Deck{d})
	require.NoError(t, err)
	assert.Equal(t, 0, report.CardsInserted)
	assert.Equal(t, 0, report.CardsReset)
	assert.Equal(t, 0, report.CardsDeleted)
}

func TestSyncDecksDescriptionChangeResetsOnlyThatCard(t *testing.T) {
	s := openTestStore(t)
	d, errs := deck.Parse("vim", strings.NewReader("Ctrl+S\tSave\nCtrl+Z\tUndo\n"))
	require.Empty(t, errs)
	_, err := s.SyncDecks([]deck.Deck{d})
	require.NoError(t, err)

	due, err := s.GetDueCards("vim", time.Now())
	require.NoError(t, err)
	var saveID int64
	for _, c := range due {
		if c.Keybind == "Ctrl+S" {
			saveID = c.ID
		}
	}
	require.NoError(t, s.UpdateCardAfterReview(saveID, scheduler.MemoryState{Stability: 3, Difficulty: 4},
		time.Now().Add(24*time.Hour), 1, 0, Review{Timestamp: time.Now(), Rating: scheduler.Good, ElapsedMs: 1000, Attempts: 1}))

	d2, errs := deck.Parse("vim", strings.NewReader("Ctrl+S\tSave file\nCtrl+Z\tUndo\n"))
	require.Empty(t, errs)
	report, err := s.SyncDecks([]deck.Deck{d2})
	require.NoError(t, err)
	assert.Equal(t, 1, report.CardsReset)

	due, err = s.GetDueCards("vim", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	found := false
	for _, c := range due {
		if c.Keybind == "Ctrl+S" {
			found = true
			assert.Equal(t, 0.0, c.Memory.Stability)
			assert.False(t, c.HasDue)
		}
	}
	assert.True(t, found)
}

func TestSyncDecksDeletesRemovedCards(t *testing.T) {
	s := openTestStore(t)
	d, errs := deck.Parse("vim", strings.NewReader("G\ttop\ng g\tbottom\nd d\tcut line\n"))
	require.Empty(t, errs)
	_, err := s.SyncDecks([]deck.Deck{d})
	require.NoError(t, err)

	d2, errs := deck.Parse("vim", strings.NewReader("G\ttop\ng g\tbottom\n"))
	require.Empty(t, errs)
	report, err := s.SyncDecks([]deck.Deck{d2})
	require.NoError(t, err)
	assert.Equal(t, 1, report.CardsDeleted)

	due, err := s.GetDueCards("vim", time.Now())
	require.NoError(t, err)
	assert.Len(t, due, 2)
}

func TestSyncDecksDeletesOrphanedDecks(t *testing.T) {
	s := openTestStore(t)
	d, errs := deck.Parse("vim", strings.NewReader("G\ttop\n"))
	require.Empty(t, errs)
	_, err := s.SyncDecks([]deck.Deck{d})
	require.NoError(t, err)

	report, err := s.SyncDecks([]deck.Deck{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.DecksDeleted)

	stats, err := s.GetDeckStats(time.Now())
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestGetDueCardsTreatsNullDueAsDueNow(t *testing.T) {
	s := openTestStore(t)
	d, errs := deck.Parse("vim", strings.NewReader("G\ttop\n"))
	require.Empty(t, errs)
	_, err := s.SyncDecks([]deck.Deck{d})
	require.NoError(t, err)

	due, err := s.GetDueCards("vim", time.Now())
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.False(t, due[0].HasDue)
}

func TestSettingsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.GetSetting("show_hints")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetSetting("show_hints", "true"))
	value, ok, err := s.GetSetting("show_hints")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "true", value)

	require.NoError(t, s.SetSetting("show_hints", "false"))
	value, _, err = s.GetSetting("show_hints")
	require.NoError(t, err)
	assert.Equal(t, "false", value)
}

func TestDeckModeRoundTripsThroughSync(t *testing.T) {
	d, errs := deck.Parse("vim", strings.NewReader("# mode: command\nG\ttop\n"))
	require.Empty(t, errs)
	require.Equal(t, interp.Command, d.Mode)

	s := openTestStore(t)
	_, err := s.SyncDecks([]deck.Deck{d})
	require.NoError(t, err)

	stats, err := s.GetDeckStats(time.Now())
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, interp.Command, stats[0].Mode)
}

func TestFKCascadeDeletesReviewsWithCard(t *testing.T) {
	s := openTestStore(t)
	d, errs := deck.Parse("vim", strings.NewReader("G\ttop\n"))
	require.Empty(t, errs)
	_, err := s.SyncDecks([]deck.Deck{d})
	require.NoError(t, err)

	due, err := s.GetDueCards("vim", time.Now())
	require.NoError(t, err)
	cardID := due[0].ID

	require.NoError(t, s.UpdateCardAfterReview(cardID, scheduler.MemoryState{Stability: 1, Difficulty: 5},
		time.Now().Add(time.Hour), 1, 0, Review{Timestamp: time.Now(), Rating: scheduler.Good, ElapsedMs: 500, Attempts: 1}))

	reviews, err := s.GetReviewsForCard(cardID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	_, err = s.SyncDecks([]deck.Deck{})
	require.NoError(t, err)

	reviews, err = s.GetReviewsForCard(cardID)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}
