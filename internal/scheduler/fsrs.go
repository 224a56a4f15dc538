package scheduler

import (
	"fmt"
	"math"
	"time"
)

// MemoryState is a card's FSRS memory state.
type MemoryState struct {
	Stability  float64
	Difficulty float64
}

// params is the single fixed coefficient vector the FSRS update is built
// from. Keeping every tunable in one place makes the model reproducible
// across runs, per the pinned-parameter-set decision recorded in
// DESIGN.md.
type params struct {
	// initStability/initDifficulty are keyed by Rating (Again..Easy).
	initStability  [5]float64
	initDifficulty [5]float64

	// alpha/delta are keyed by Rating for the Hard/Good/Easy branch only;
	// index 0 and Again are unused.
	alpha [5]float64
	delta [5]float64

	beta  float64
	gamma float64

	aAgain float64
	bAgain float64
	dAgain float64

	sMin    float64
	dTarget float64
	again   time.Duration // floor interval for Again, before modifier scaling
}

var defaultParams = params{
	initStability:  [5]float64{0, 0.4, 1.2, 3.2, 8.5},
	initDifficulty: [5]float64{0, 7.8, 6.0, 4.5, 2.5},
	alpha:          [5]float64{0, 0, -0.5, 0.2, 0.9},
	delta:          [5]float64{0, 0, -0.05, -0.1, -0.15},
	beta:           -0.2,
	gamma:          0.5,
	aAgain:         0.1,
	bAgain:         0.2,
	dAgain:         1.0,
	sMin:           0.2,
	dTarget:        5.0,
	again:          5 * time.Minute,
}

// Params exposes the FSRS coefficient vector for configuration-time
// validation and tests; callers should treat it as read-only.
type Params = params

// DefaultParams returns the pinned coefficient vector.
func DefaultParams() Params { return defaultParams }

// clampDifficulty keeps D within [1, 10].
func clampDifficulty(d float64) float64 {
	if d < 1 {
		return 1
	}
	if d > 10 {
		return 10
	}
	return d
}

// Retrievability computes R = exp(ln(0.9) * t / S) for elapsed days t.
func Retrievability(elapsedDays, stability float64) float64 {
	if stability <= 0 {
		return 0
	}
	return math.Exp(math.Log(0.9) * elapsedDays / stability)
}

// Init returns the initial (stability, difficulty) for a card's first
// rating.
func Init(p Params, rating Rating) MemoryState {
	return MemoryState{
		Stability:  p.initStability[rating],
		Difficulty: p.initDifficulty[rating],
	}
}

// Update applies one scored review to a card's memory state. elapsedDays
// is max(0, (now-last_review)/86400). When hasPrior is false (a card's
// first-ever scored review), state and elapsedDays are ignored and Init is
// used instead.
func Update(p Params, state MemoryState, rating Rating, elapsedDays float64, hasPrior bool) (MemoryState, error) {
	if !hasPrior {
		return Init(p, rating), nil
	}
	if state.Stability <= 0 {
		return MemoryState{}, fmt.Errorf("scheduler: update on card with non-positive stability %v", state.Stability)
	}

	r := Retrievability(elapsedDays, state.Stability)

	if rating == Again {
		newS := p.sMin * math.Exp(p.aAgain*state.Difficulty+p.bAgain*(1-r))
		newD := clampDifficulty(state.Difficulty + p.dAgain)
		return MemoryState{Stability: newS, Difficulty: newD}, nil
	}

	growth := math.Exp(p.alpha[rating]) * (11 - state.Difficulty) * math.Pow(state.Stability, p.beta) * (math.Exp(p.gamma*(1-r)) - 1)
	newS := state.Stability * (1 + growth)
	newD := clampDifficulty(state.Difficulty + p.delta[rating]*(state.Difficulty-p.dTarget))
	return MemoryState{Stability: newS, Difficulty: newD}, nil
}

// NextInterval computes the applied interval in days: the raw FSRS
// next-interval compressed by intervalModifier and capped at
// maxIntervalDays. Again uses a short floor interval before scaling so
// lapsed cards still return within the session day.
func NextInterval(p Params, state MemoryState, rating Rating, desiredRetention, intervalModifier, maxIntervalDays float64) time.Duration {
	if rating == Again {
		scaled := time.Duration(float64(p.again) * intervalModifier)
		if scaled < time.Minute {
			scaled = time.Minute
		}
		return scaled
	}

	rawDays := state.Stability * math.Log(desiredRetention) / math.Log(0.9)
	appliedDays := rawDays * intervalModifier
	if appliedDays > maxIntervalDays {
		appliedDays = maxIntervalDays
	}
	if appliedDays < 0 {
		appliedDays = 0
	}
	return time.Duration(appliedDays * float64(24*time.Hour))
}
