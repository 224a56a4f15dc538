// Package app wires the keybind, interp, matcher, scheduler, session, and
// store packages into a bubbletea program: a tagged-union session state
// machine driving deck selection, timed review, and end-of-session stats.
package app

import (
	"log/slog"
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwulff/kbsr/internal/clock"
	"github.com/jwulff/kbsr/internal/config"
	"github.com/jwulff/kbsr/internal/interp"
	"github.com/jwulff/kbsr/internal/keybind"
	"github.com/jwulff/kbsr/internal/matcher"
	"github.com/jwulff/kbsr/internal/scheduler"
	"github.com/jwulff/kbsr/internal/session"
	"github.com/jwulff/kbsr/internal/store"
)

const tickInterval = 200 * time.Millisecond

// Model is the top-level bubbletea model. It holds the long-lived
// collaborators (config, storage, scheduler, clock) and the current
// tagged-union State; everything specific to one screen lives on the
// State variant itself.
type Model struct {
	cfg   *config.Config
	store *store.Store
	sched *scheduler.Scheduler
	clk   clock.Clock
	log   *slog.Logger
	rng   *rand.Rand

	state State

	width, height int
	lastErr       error
	quitting      bool
}

// New builds a Model parked on the deck selection screen; Init kicks off
// the async load of deck statistics.
func New(cfg *config.Config, st *store.Store, sched *scheduler.Scheduler, clk clock.Clock, log *slog.Logger) Model {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	if log == nil {
		log = slog.Default()
	}
	return Model{
		cfg:   cfg,
		store: st,
		sched: sched,
		clk:   clk,
		log:   log,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		state: State{Kind: KindDeckSelection, DeckSelection: &DeckSelectionState{}},
	}
}

// Init loads the deck list shown on the selection screen.
func (m Model) Init() tea.Cmd {
	return m.loadDeckStatsCmd()
}

func (m Model) loadDeckStatsCmd() tea.Cmd {
	return func() tea.Msg {
		decks, err := m.store.GetDeckStats(m.clk.Now())
		return deckStatsLoadedMsg{decks: decks, err: err}
	}
}

func (m Model) loadDueCardsCmd(deckName string, showHints bool) tea.Cmd {
	return func() tea.Msg {
		cards, err := m.store.GetDueCards(deckName, m.clk.Now())
		if err != nil {
			return dueCardsLoadedMsg{deckName: deckName, err: err}
		}
		decks, err := m.store.GetDeckStats(m.clk.Now())
		if err != nil {
			return dueCardsLoadedMsg{deckName: deckName, err: err}
		}
		meta := make(map[string]deckMeta, len(decks))
		for _, d := range decks {
			meta[d.Name] = deckMeta{mode: d.Mode}
		}
		return dueCardsLoadedMsg{deckName: deckName, showHints: showHints, cards: cards, decks: meta}
	}
}

func (m Model) saveReviewCmd(cardID int64, mem scheduler.MemoryState, due time.Time, reps, lapses int, rev store.Review) tea.Cmd {
	return func() tea.Msg {
		err := m.store.UpdateCardAfterReview(cardID, mem, due, reps, lapses, rev)
		return reviewSavedMsg{cardID: cardID, err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update is bubbletea's event-loop entry point. Global chords (quit,
// pause/resume) are intercepted before any state-specific handling, so
// they work identically regardless of what screen is active.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if isGlobalChord(msg, m.cfg.QuitChord) {
			m.quitting = true
			return m, tea.Quit
		}
		if isGlobalChord(msg, m.cfg.PauseChord) {
			return m.togglePause(), nil
		}
		return m.handleKey(msg)

	case deckStatsLoadedMsg:
		if msg.err != nil {
			m.log.Error("load deck stats", "error", msg.err)
			m.lastErr = msg.err
			return m, nil
		}
		m.state = State{Kind: KindDeckSelection, DeckSelection: &DeckSelectionState{AvailableDecks: msg.decks}}
		return m, nil

	case dueCardsLoadedMsg:
		if msg.err != nil {
			m.log.Error("load due cards", "deck", msg.deckName, "error", msg.err)
			m.lastErr = msg.err
			return m, nil
		}
		return m.startStudying(msg), tickCmd()

	case reviewSavedMsg:
		if msg.err != nil {
			m.log.Error("save review", "card_id", msg.cardID, "error", msg.err)
			m.lastErr = msg.err
		}
		return m, nil

	case tickMsg:
		return m.handleTick()

	case errMsg:
		m.log.Error("background error", "error", msg.err)
		m.lastErr = msg.err
		return m, nil
	}

	return m, nil
}

// startStudying builds the Studying state from a freshly loaded due-card
// batch and arms the matcher for the first card in the queue.
func (m Model) startStudying(msg dueCardsLoadedMsg) Model {
	cards := make([]session.Card, 0, len(msg.cards))
	infos := make(map[int64]store.StoredCard, len(msg.cards))
	for _, sc := range msg.cards {
		cards = append(cards, session.Card{ID: sc.ID, Keybind: sc.Keybind, Description: sc.Description})
		infos[sc.ID] = sc
	}

	var rnd *rand.Rand
	if m.cfg.ShuffleCards {
		rnd = m.rng
	}
	q := session.NewQueue(cards, m.cfg.ShuffleCards, rnd)
	if q.Empty() {
		m.state = State{Kind: KindSummary, Summary: &SummaryState{}}
		return m
	}

	modes := make(map[string]interp.Mode, len(msg.decks))
	for name, meta := range msg.decks {
		modes[name] = meta.mode
	}

	st := &StudyingState{
		DeckName:  msg.deckName,
		DeckModes: modes,
		Cards:     infos,
		Queue:     q,
		ShowHints: msg.showHints,
	}
	m.state = State{Kind: KindStudying, Studying: st}
	if err := m.armNextCard(st); err != nil {
		m.lastErr = err
	}
	return m
}

// armNextCard resolves the chord sequence and input mode for the card now
// at the front of the queue and builds a fresh Matcher for it. It is a
// no-op if the queue is already empty; the caller is expected to check
// for that and transition to Summary instead.
func (m Model) armNextCard(st *StudyingState) error {
	sc, ok := st.Queue.Peek()
	if !ok {
		return nil
	}
	info := st.Cards[sc.ID]
	chords, err := keybind.Parse(sc.Keybind)
	if err != nil {
		return err
	}
	mode := interp.Raw
	if declared, ok := st.DeckModes[info.DeckName]; ok {
		mode = declared
	}
	st.Mode = mode
	st.Interpreter = interp.New(mode)
	st.Matcher = matcher.New(chords, mode, m.clk, m.cfg.MaxAttempts, time.Duration(m.cfg.TimeoutSecs)*time.Second)
	st.CardStartTime = m.clk.Now()
	st.Attempts = 0
	return nil
}

// togglePause snapshots the current state into Paused, or restores it and
// shifts the studying card's start time forward by however long the
// session was paused.
func (m Model) togglePause() Model {
	switch m.state.Kind {
	case KindPaused:
		prev := m.state.Paused.Previous
		pausedFor := m.clk.Now().Sub(m.state.Paused.StartedAt)
		if prev.Kind == KindStudying {
			prev.Studying.CardStartTime = prev.Studying.CardStartTime.Add(pausedFor)
		}
		m.state = prev
		return m
	default:
		m.state = State{Kind: KindPaused, Paused: &PausedState{Previous: m.state, StartedAt: m.clk.Now()}}
		return m
	}
}

// handleTick checks the per-card timeout and expires success/answer
// flashes, then reschedules itself unless the program is quitting.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	now := m.clk.Now()

	switch m.state.Kind {
	case KindStudying:
		st := m.state.Studying
		if st.Matcher != nil {
			if ev, fired := st.Matcher.CheckTimeout(); fired {
				next, cmd := m.onMatchEvent(st, ev)
				return next, tea.Batch(cmd, tickCmd())
			}
		}
	case KindShowingSuccess:
		if !now.Before(m.state.ShowingSuccess.Until) {
			st := m.state.ShowingSuccess.Prior
			return m.nextCard(&st), tickCmd()
		}
	case KindShowingAnswer:
		if !now.Before(m.state.ShowingAnswer.Until) {
			st := m.state.ShowingAnswer.Prior
			m.state = State{Kind: KindStudying, Studying: &st}
			return m, tickCmd()
		}
	}
	return m, tickCmd()
}

func flashDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// nextCard arms the card now at the front of the queue (scoreAndFlash has
// already advanced past the resolved one), or transitions to Summary when
// the queue is empty.
func (m Model) nextCard(st *StudyingState) Model {
	if st.Queue.Empty() {
		m.state = State{Kind: KindSummary, Summary: &SummaryState{Stats: st.Stats}}
		return m
	}
	if err := m.armNextCard(st); err != nil {
		m.lastErr = err
	}
	m.state = State{Kind: KindStudying, Studying: st}
	return m
}

// View renders the current state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderBody() + errorBar(m.lastErr)
}
