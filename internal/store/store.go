// Package store is the durable SQLite-backed persistence layer: cards,
// review history, deck metadata, and the deck-sync reconciliation
// transaction.
package store

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/jwulff/kbsr/internal/deck"
	"github.com/jwulff/kbsr/internal/interp"
	"github.com/jwulff/kbsr/internal/kbrserr"
	"github.com/jwulff/kbsr/internal/scheduler"

	_ "modernc.org/sqlite"
)

const timeFormat = time.RFC3339Nano

// Store owns the single SQLite connection used by the engine. No
// concurrent access is expected; transactions are explicit.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (creating if necessary) the database at path, enables
// foreign-key enforcement, and ensures the schema exists.
func Open(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("open database: %w", err))
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("ping database: %w", err))
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("init schema: %w", err))
	}
	return &Store{db: db, log: log}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateDailyBackup copies the database file to "<path>.backup.YYYY-MM-DD"
// if that file does not already exist for today.
func CreateDailyBackup(path string, now time.Time) error {
	backupPath := fmt.Sprintf("%s.backup.%s", path, now.Format("2006-01-02"))
	if _, err := os.Stat(backupPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("stat backup path: %w", err))
	}

	src, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return kbrserr.Wrap(kbrserr.ErrIo, fmt.Errorf("open database for backup: %w", err))
	}
	defer src.Close()

	dst, err := os.Create(backupPath)
	if err != nil {
		return kbrserr.Wrap(kbrserr.ErrIo, fmt.Errorf("create backup file: %w", err))
	}
	defer dst.Close()

	if _, err := copyAll(dst, src); err != nil {
		return kbrserr.Wrap(kbrserr.ErrIo, fmt.Errorf("copy backup: %w", err))
	}
	return nil
}

func copyAll(dst *os.File, src *os.File) (int64, error) {
	return io.Copy(dst, src)
}

// GetSetting returns a persisted settings value, or ok=false if unset.
func (s *Store) GetSetting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("get setting %q: %w", key, err))
	}
	return value, true, nil
}

// SetSetting upserts a persisted settings value.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings(key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("set setting %q: %w", key, err))
	}
	return nil
}

// GetDueCards returns cards whose due date is null or has passed, for the
// named deck, or across all decks if deckName is empty.
func (s *Store) GetDueCards(deckName string, now time.Time) ([]StoredCard, error) {
	query := `
		SELECT id, deck_name, keybind, description, stability, difficulty, last_review, due, reps, lapses
		FROM cards
		WHERE (due IS NULL OR due <= ?)
	`
	args := []any{now.Format(timeFormat)}
	if deckName != "" {
		query += ` AND deck_name = ?`
		args = append(args, deckName)
	}
	query += ` ORDER BY due IS NOT NULL, due ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("query due cards: %w", err))
	}
	defer rows.Close()

	var out []StoredCard
	for rows.Next() {
		card, err := s.scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanCard(row rowScanner) (StoredCard, error) {
	var c StoredCard
	var lastReview, due sql.NullString
	if err := row.Scan(&c.ID, &c.DeckName, &c.Keybind, &c.Description,
		&c.Memory.Stability, &c.Memory.Difficulty, &lastReview, &due, &c.Reps, &c.Lapses); err != nil {
		return StoredCard{}, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("scan card: %w", err))
	}
	if lastReview.Valid {
		t, err := time.Parse(timeFormat, lastReview.String)
		if err != nil {
			// Corrupted last_review degrades like due: treated as absent.
			s.log.Warn("degrading unparseable last_review to absent", "card_id", c.ID, "error", err)
		} else {
			c.LastReview = t
			c.HasLastReview = true
		}
	}
	if due.Valid {
		t, err := time.Parse(timeFormat, due.String)
		if err != nil {
			s.log.Warn("degrading unparseable due date to due-now", "card_id", c.ID, "error", err)
		} else {
			c.Due = t
			c.HasDue = true
		}
	}
	return c, nil
}

// UpdateCardAfterReview persists a card's new FSRS memory state and
// bookkeeping counters, then appends the ReviewEvent, atomically in one
// transaction.
func (s *Store) UpdateCardAfterReview(cardID int64, mem scheduler.MemoryState, due time.Time, reps, lapses int, review Review) error {
	tx, err := s.db.Begin()
	if err != nil {
		return kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("begin review transaction: %w", err))
	}
	defer tx.Rollback()

	now := review.Timestamp
	_, err = tx.Exec(`
		UPDATE cards SET stability = ?, difficulty = ?, last_review = ?, due = ?, reps = ?, lapses = ?
		WHERE id = ?
	`, mem.Stability, mem.Difficulty, now.Format(timeFormat), due.Format(timeFormat), reps, lapses, cardID)
	if err != nil {
		return kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("update card after review: %w", err))
	}

	if _, err := tx.Exec(`
		INSERT INTO reviews(card_id, timestamp, rating, elapsed_ms, attempts, revealed)
		VALUES (?, ?, ?, ?, ?, ?)
	`, cardID, now.Format(timeFormat), review.Rating.String(), review.ElapsedMs, review.Attempts, boolToInt(review.Revealed)); err != nil {
		return kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("record review: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("commit review transaction: %w", err))
	}
	return nil
}

// GetReviewsForCard returns a card's review history, oldest first.
// Timestamp parse failures propagate as StorageHistoryCorruption rather
// than degrading, since review history is an audit trail, not a schedule.
func (s *Store) GetReviewsForCard(cardID int64) ([]Review, error) {
	rows, err := s.db.Query(`
		SELECT id, card_id, timestamp, rating, elapsed_ms, attempts, revealed
		FROM reviews WHERE card_id = ? ORDER BY timestamp ASC
	`, cardID)
	if err != nil {
		return nil, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("query reviews: %w", err))
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var r Review
		var ts, rating string
		var revealed int
		if err := rows.Scan(&r.ID, &r.CardID, &ts, &rating, &r.ElapsedMs, &r.Attempts, &revealed); err != nil {
			return nil, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("scan review: %w", err))
		}
		t, err := time.Parse(timeFormat, ts)
		if err != nil {
			return nil, kbrserr.Wrap(kbrserr.ErrStorageHistoryCorruption, fmt.Errorf("review %d has unparseable timestamp %q: %w", r.ID, ts, err))
		}
		r.Timestamp = t
		r.Rating = ratingFromString(rating)
		r.Revealed = revealed != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetDeckStats aggregates total/due counts per deck.
func (s *Store) GetDeckStats(now time.Time) ([]DeckStats, error) {
	rows, err := s.db.Query(`
		SELECT d.name, d.mode,
			COUNT(c.id),
			SUM(CASE WHEN c.due IS NULL OR c.due <= ? THEN 1 ELSE 0 END)
		FROM decks d
		LEFT JOIN cards c ON c.deck_name = d.name
		GROUP BY d.name, d.mode
		ORDER BY d.name ASC
	`, now.Format(timeFormat))
	if err != nil {
		return nil, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("query deck stats: %w", err))
	}
	defer rows.Close()

	var out []DeckStats
	for rows.Next() {
		var st DeckStats
		var mode string
		var due sql.NullInt64
		if err := rows.Scan(&st.Name, &mode, &st.Total, &due); err != nil {
			return nil, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("scan deck stats: %w", err))
		}
		st.Mode = modeFromString(mode)
		st.Due = int(due.Int64)
		out = append(out, st)
	}
	return out, rows.Err()
}

// SyncDecks reconciles parsed decks with the store in a single write
// transaction: upsert deck rows, upsert/reset/insert cards, then delete
// removed cards and orphaned decks. On any error the whole transaction
// rolls back, leaving the store byte-identical to its pre-sync state.
func (s *Store) SyncDecks(decks []deck.Deck) (SyncReport, error) {
	var report SyncReport

	tx, err := s.db.Begin()
	if err != nil {
		return report, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("begin sync transaction: %w", err))
	}
	defer tx.Rollback()

	seenDecks := make(map[string]bool, len(decks))
	for _, d := range decks {
		seenDecks[d.Name] = true

		if _, err := tx.Exec(`
			INSERT INTO decks(name, mode) VALUES (?, ?)
			ON CONFLICT(name) DO UPDATE SET mode = excluded.mode
		`, d.Name, d.Mode.String()); err != nil {
			return report, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("upsert deck %q: %w", d.Name, err))
		}
		report.DecksUpserted++

		seenKeybinds := make(map[string]bool, len(d.Cards))
		for _, c := range d.Cards {
			seenKeybinds[c.Keybind] = true

			var existingDesc string
			err := tx.QueryRow(`SELECT description FROM cards WHERE deck_name = ? AND keybind = ?`, d.Name, c.Keybind).Scan(&existingDesc)
			switch {
			case err == sql.ErrNoRows:
				if _, err := tx.Exec(`
					INSERT INTO cards(deck_name, keybind, description, stability, difficulty, last_review, due, reps, lapses)
					VALUES (?, ?, ?, 0, 0, NULL, NULL, 0, 0)
				`, d.Name, c.Keybind, c.Description); err != nil {
					return report, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("insert card %q/%q: %w", d.Name, c.Keybind, err))
				}
				report.CardsInserted++
			case err != nil:
				return report, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("lookup card %q/%q: %w", d.Name, c.Keybind, err))
			case existingDesc != c.Description:
				if _, err := tx.Exec(`
					UPDATE cards SET description = ?, stability = 0, difficulty = 0,
						last_review = NULL, due = NULL, reps = 0, lapses = 0
					WHERE deck_name = ? AND keybind = ?
				`, c.Description, d.Name, c.Keybind); err != nil {
					return report, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("reset card %q/%q: %w", d.Name, c.Keybind, err))
				}
				report.CardsReset++
			}
		}

		rows, err := tx.Query(`SELECT keybind FROM cards WHERE deck_name = ?`, d.Name)
		if err != nil {
			return report, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("list existing keybinds for %q: %w", d.Name, err))
		}
		var toDelete []string
		for rows.Next() {
			var kb string
			if err := rows.Scan(&kb); err != nil {
				rows.Close()
				return report, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("scan keybind: %w", err))
			}
			if !seenKeybinds[kb] {
				toDelete = append(toDelete, kb)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return report, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("iterate keybinds: %w", err))
		}

		for _, kb := range toDelete {
			if _, err := tx.Exec(`DELETE FROM cards WHERE deck_name = ? AND keybind = ?`, d.Name, kb); err != nil {
				return report, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("delete removed card %q/%q: %w", d.Name, kb, err))
			}
			report.CardsDeleted++
		}
	}

	deckRows, err := tx.Query(`SELECT name FROM decks`)
	if err != nil {
		return report, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("list decks: %w", err))
	}
	var staleDecks []string
	for deckRows.Next() {
		var name string
		if err := deckRows.Scan(&name); err != nil {
			deckRows.Close()
			return report, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("scan deck name: %w", err))
		}
		if !seenDecks[name] {
			staleDecks = append(staleDecks, name)
		}
	}
	deckRows.Close()
	if err := deckRows.Err(); err != nil {
		return report, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("iterate decks: %w", err))
	}

	sort.Strings(staleDecks)
	for _, name := range staleDecks {
		if _, err := tx.Exec(`DELETE FROM decks WHERE name = ?`, name); err != nil {
			return report, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("delete orphaned deck %q: %w", name, err))
		}
		report.DecksDeleted++
	}

	if err := tx.Commit(); err != nil {
		return report, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("commit sync transaction: %w", err))
	}

	s.log.Info("deck sync complete",
		"decks_upserted", report.DecksUpserted,
		"cards_inserted", report.CardsInserted,
		"cards_reset", report.CardsReset,
		"cards_deleted", report.CardsDeleted,
		"decks_deleted", report.DecksDeleted,
	)
	return report, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func modeFromString(s string) interp.Mode {
	switch s {
	case "chars":
		return interp.Chars
	case "command":
		return interp.Command
	default:
		return interp.Raw
	}
}

func ratingFromString(s string) scheduler.Rating {
	switch s {
	case "again":
		return scheduler.Again
	case "hard":
		return scheduler.Hard
	case "good":
		return scheduler.Good
	case "easy":
		return scheduler.Easy
	default:
		return scheduler.Again
	}
}
