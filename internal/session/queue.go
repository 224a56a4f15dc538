// Package session implements the in-memory session queue of due cards.
package session

import (
	"math/rand"
	"time"
)

// Card is the store-agnostic identity a SessionCard wraps: just enough to
// look the underlying card back up and re-derive its expected input.
type Card struct {
	ID          int64
	Keybind     string
	Description string
}

// SessionCard is the in-memory view of a Card for the duration of one
// session: how many times it has been shown, and whether its first
// scored presentation has already mutated persistent state.
type SessionCard struct {
	Card
	Presentations   int
	FirstShowScored bool
}

// Queue is a FIFO of due SessionCards for the current run.
type Queue struct {
	cards []SessionCard
}

// NewQueue builds a Queue from due cards, shuffling with rnd when shuffle
// is true (a nil rnd then falls back to a time-seeded source). Production
// callers pass a *rand.Rand seeded from system entropy; tests pass one
// seeded deterministically.
func NewQueue(cards []Card, shuffle bool, rnd *rand.Rand) *Queue {
	session := make([]SessionCard, len(cards))
	for i, c := range cards {
		session[i] = SessionCard{Card: c}
	}
	if shuffle && len(session) > 1 {
		if rnd == nil {
			rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		rnd.Shuffle(len(session), func(i, j int) {
			session[i], session[j] = session[j], session[i]
		})
	}
	return &Queue{cards: session}
}

// Empty reports whether the queue has no more cards to present.
func (q *Queue) Empty() bool { return len(q.cards) == 0 }

// Len reports how many cards remain in the queue.
func (q *Queue) Len() int { return len(q.cards) }

// Peek returns the card at the front of the queue without removing it.
func (q *Queue) Peek() (*SessionCard, bool) {
	if q.Empty() {
		return nil, false
	}
	return &q.cards[0], true
}

// Advance removes the front card. Pass requeue=true to push a fresh copy
// (with Presentations incremented) to the back instead of discarding it;
// an Easy rating never requeues, per the session-queue invariant that no
// card is requeued once rated Easy.
func (q *Queue) Advance(requeue bool) {
	if q.Empty() {
		return
	}
	front := q.cards[0]
	q.cards = q.cards[1:]
	if requeue {
		front.Presentations++
		q.cards = append(q.cards, front)
	}
}
