package session

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueueNoShuffleKeepsOrder(t *testing.T) {
	cards := []Card{{ID: 1}, {ID: 2}, {ID: 3}}
	q := NewQueue(cards, false, nil)

	for i := int64(1); i <= 3; i++ {
		c, ok := q.Peek()
		require.True(t, ok)
		assert.Equal(t, i, c.ID)
		q.Advance(false)
	}
	assert.True(t, q.Empty())
}

func TestNewQueueShuffleIsDeterministicWithSeededRand(t *testing.T) {
	cards := []Card{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}}
	q1 := NewQueue(cards, true, rand.New(rand.NewSource(42)))
	q2 := NewQueue(cards, true, rand.New(rand.NewSource(42)))

	for i := 0; i < len(cards); i++ {
		c1, _ := q1.Peek()
		c2, _ := q2.Peek()
		assert.Equal(t, c1.ID, c2.ID)
		q1.Advance(false)
		q2.Advance(false)
	}
}

func TestAdvanceRequeueIncrementsPresentationsAndGoesToBack(t *testing.T) {
	cards := []Card{{ID: 1}, {ID: 2}}
	q := NewQueue(cards, false, nil)

	q.Advance(true) // requeue card 1

	first, _ := q.Peek()
	assert.Equal(t, int64(2), first.ID)

	q.Advance(false) // dequeue card 2 for good
	second, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, int64(1), second.ID)
	assert.Equal(t, 1, second.Presentations)
}

func TestQueueTerminatesInFiniteStepsWhenNeverRequeuedAfterEasy(t *testing.T) {
	cards := []Card{{ID: 1}, {ID: 2}, {ID: 3}}
	q := NewQueue(cards, false, nil)

	steps := 0
	const maxSteps = 1000
	for !q.Empty() && steps < maxSteps {
		c, _ := q.Peek()
		// Simulate: card 2 needs two extra non-Easy passes before Easy.
		requeue := c.ID == 2 && c.Presentations < 2
		q.Advance(requeue)
		steps++
	}

	assert.Less(t, steps, maxSteps, "queue did not terminate in finite steps")
	assert.True(t, q.Empty())
}
