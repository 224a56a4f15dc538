package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwulff/kbsr/internal/interp"
	"github.com/jwulff/kbsr/internal/keybind"
	"github.com/jwulff/kbsr/internal/matcher"
	"github.com/jwulff/kbsr/internal/scheduler"
	"github.com/jwulff/kbsr/internal/store"
)

// handleKey dispatches a key event to the handler for the active state
// variant. Global quit/pause chords have already been intercepted by the
// caller.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state.Kind {
	case KindDeckSelection:
		return m.handleDeckSelectionKey(msg)
	case KindStudying:
		return m.handleStudyingKey(msg)
	case KindShowingSuccess, KindShowingAnswer, KindPaused:
		// Input is ignored while a flash or the pause screen is up; only
		// the global pause chord (handled by the caller) resumes.
		return m, nil
	case KindSummary:
		return m.handleSummaryKey(msg)
	}
	return m, nil
}

func (m Model) handleDeckSelectionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.state.DeckSelection
	// Entry 0 is always "all decks"; entries 1..len(decks) are the named
	// decks in the order the store returned them.
	count := len(st.AvailableDecks) + 1

	switch msg.String() {
	case "up", "k":
		if st.Selected > 0 {
			st.Selected--
		}
	case "down", "j":
		if st.Selected < count-1 {
			st.Selected++
		}
	case "h":
		st.ShowHints = !st.ShowHints
	case "enter":
		deckName := ""
		if st.Selected > 0 {
			deckName = st.AvailableDecks[st.Selected-1].Name
		}
		return m, m.loadDueCardsCmd(deckName, st.ShowHints)
	}
	return m, nil
}

func (m Model) handleSummaryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", " ":
		m.state = State{Kind: KindDeckSelection, DeckSelection: &DeckSelectionState{}}
		return m, m.loadDeckStatsCmd()
	}
	return m, nil
}

func (m Model) handleStudyingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.state.Studying
	if st.Matcher == nil {
		return m, nil
	}

	ev := translateKey(msg)

	if !ev.ModifierOnly && st.Mode != interp.Command &&
		ev.Key.Equal(keybind.NamedKey(keybind.Escape)) && ev.Mods.Empty() {
		return m.onMatchEvent(st, st.Matcher.ForceReveal())
	}

	res := st.Interpreter.Interpret(ev)
	return m.onMatchEvent(st, st.Matcher.Process(res))
}

// onMatchEvent applies one Matcher event to the Studying state: progress
// and wrong attempts update in place; Reveal shows the answer but leaves
// the card armed for a required retype; only Complete scores the
// presentation and advances the queue. Timeout only locks the eventual
// rating, it does not itself end the attempt.
func (m Model) onMatchEvent(st *StudyingState, ev matcher.Event) (tea.Model, tea.Cmd) {
	switch ev.Outcome {
	case matcher.Progress:
		m.state = State{Kind: KindStudying, Studying: st}
		return m, nil

	case matcher.Wrong, matcher.Reveal:
		st.Attempts = ev.Attempts
		m.state = State{
			Kind: KindShowingAnswer,
			ShowingAnswer: &ShowingAnswerState{
				Prior: *st,
				Until: m.clk.Now().Add(flashDuration(m.cfg.FailedFlashDelayMs)),
			},
		}
		return m, nil

	case matcher.Complete:
		return m.scoreAndFlash(st, ev)
	}

	m.state = State{Kind: KindStudying, Studying: st}
	return m, nil
}

// scoreAndFlash runs the rating policy and scheduler once a card is
// completed (having been typed correctly, whether or not it was revealed
// first), persists the result (unless this presentation already scored
// once this session), advances session stats and the queue, and flashes
// success.
func (m Model) scoreAndFlash(st *StudyingState, ev matcher.Event) (tea.Model, tea.Cmd) {
	sc, ok := st.Queue.Peek()
	if !ok {
		m.state = State{Kind: KindSummary, Summary: &SummaryState{Stats: st.Stats}}
		return m, nil
	}
	stored := st.Cards[sc.ID]
	alreadyScored := sc.FirstShowScored

	inputs := scheduler.RatingInputs{
		ChordCount:         chordCount(stored.Keybind),
		Attempts:           ev.Attempts,
		Elapsed:            ev.Elapsed,
		PriorPresentations: sc.Presentations,
		Revealed:           st.Matcher.Revealed() || st.Matcher.TimedOut(),
		EasyThresholdMs:    m.cfg.EasyThresholdMs,
		HardThresholdMs:    m.cfg.HardThresholdMs,
	}
	rating := scheduler.DeriveRating(inputs)

	var cmd tea.Cmd
	if !sc.FirstShowScored {
		sc.FirstShowScored = true
		st.Stats.Reviewed++
		if rating != scheduler.Again {
			st.Stats.Correct++
		}

		hasPrior := stored.Reps > 0
		mem, due, err := m.sched.Schedule(stored.Memory, hasPrior, rating, m.clk.Now(), stored.LastReview, stored.HasLastReview)
		if err != nil {
			m.lastErr = err
		} else {
			reps := stored.Reps + 1
			lapses := stored.Lapses
			if rating == scheduler.Again {
				lapses++
			}
			review := store.Review{
				CardID:    sc.ID,
				Timestamp: m.clk.Now(),
				Rating:    rating,
				ElapsedMs: ev.Elapsed.Milliseconds(),
				Attempts:  ev.Attempts,
				Revealed:  st.Matcher.Revealed(),
			}
			cmd = m.saveReviewCmd(sc.ID, mem, due, reps, lapses, review)
		}
	}

	// A card already scored earlier this session leaves the queue on Easy
	// timing alone: its prior presentations do not count against it here.
	exit := rating
	if alreadyScored {
		inputs.PriorPresentations = 0
		exit = scheduler.DeriveRating(inputs)
	}
	requeue := exit != scheduler.Easy
	st.Queue.Advance(requeue)

	m.state = State{
		Kind: KindShowingSuccess,
		ShowingSuccess: &ShowingSuccessState{
			Prior: *st,
			Until: m.clk.Now().Add(flashDuration(m.cfg.SuccessDelayMs)),
		},
	}
	return m, cmd
}

func chordCount(expr string) int {
	seq, err := keybind.Parse(expr)
	if err != nil {
		return 1
	}
	return len(seq)
}
