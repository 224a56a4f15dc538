package app

import (
	"fmt"
	"strings"

	"github.com/jwulff/kbsr/internal/ui"
)

// renderBody renders whichever state variant is active.
func (m Model) renderBody() string {
	switch m.state.Kind {
	case KindDeckSelection:
		return m.renderDeckSelection(m.state.DeckSelection)
	case KindStudying:
		return m.renderStudying(m.state.Studying, "", false)
	case KindShowingSuccess:
		s := m.state.ShowingSuccess
		return m.renderStudying(&s.Prior, "match", true)
	case KindShowingAnswer:
		s := m.state.ShowingAnswer
		sc, _ := s.Prior.Queue.Peek()
		expected := ""
		if sc != nil {
			expected = sc.Keybind
		}
		return m.renderStudying(&s.Prior, "wrong: "+expected, false)
	case KindPaused:
		return m.renderPaused()
	case KindSummary:
		return m.renderSummary(m.state.Summary)
	}
	return ""
}

func (m Model) renderDeckSelection(st *DeckSelectionState) string {
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("kbsr") + "\n\n")
	b.WriteString("Select a deck:\n\n")

	line := func(i int, label string) string {
		if i == st.Selected {
			return ui.SelectedStyle.Render("> " + label)
		}
		return ui.DimStyle.Render("  " + label)
	}

	b.WriteString(line(0, "All decks") + "\n")
	for i, d := range st.AvailableDecks {
		label := fmt.Sprintf("%s (%d/%d due)", d.Name, d.Due, d.Total)
		b.WriteString(line(i+1, label) + "\n")
	}

	b.WriteString("\n" + m.footer("up/down", "select", "enter", "start", "h", "toggle hints"))
	return b.String()
}

func (m Model) renderStudying(st *StudyingState, flash string, success bool) string {
	sc, ok := st.Queue.Peek()
	if !ok {
		return "Loading next card..."
	}
	info := st.Cards[sc.ID]

	var b strings.Builder
	b.WriteString(ui.HeaderStyle.Render("Studying") + "\n\n")
	b.WriteString(info.Description + "\n\n")

	if st.ShowHints {
		b.WriteString(ui.HintStyle.Render(sc.Keybind) + "\n\n")
	}

	if st.Matcher != nil {
		progress := fmt.Sprintf("step %d, attempt %d/%d", st.Matcher.Index()+1, st.Attempts+1, m.cfg.MaxAttempts)
		b.WriteString(ui.DimStyle.Render(progress) + "\n")
	}

	if flash != "" {
		style := ui.WrongStyle
		if success {
			style = ui.SuccessStyle
		}
		b.WriteString("\n" + style.Render(flash) + "\n")
	}

	b.WriteString("\n" + m.footer("esc", "reveal", m.cfg.PauseKeybind, "pause", m.cfg.QuitKeybind, "quit"))
	return b.String()
}

func (m Model) renderPaused() string {
	return ui.PausedBadgeStyle.Render("PAUSED") + "\n\n" +
		ui.DimStyle.Render("Press "+m.cfg.PauseKeybind+" to resume.")
}

func (m Model) renderSummary(st *SummaryState) string {
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("Session complete") + "\n\n")
	b.WriteString(fmt.Sprintf("Reviewed: %d\n", st.Stats.Reviewed))
	b.WriteString(fmt.Sprintf("Correct:  %d\n", st.Stats.Correct))
	b.WriteString("\n" + m.footer("enter", "back to deck selection"))
	return b.String()
}

func (m Model) footer(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, ui.FooterKeyStyle.Render(pairs[i])+" "+ui.FooterDescStyle.Render(pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}

func errorBar(err error) string {
	if err == nil {
		return ""
	}
	return "\n" + ui.ErrorTextStyle.Render(err.Error())
}
