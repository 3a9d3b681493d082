package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/liftlog/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateWorkout:
		content = m.editor.View(m.summaries, m.bodyHeight())
	case constants.StateHistory:
		if m.detail.Open() {
			content = m.detail.View()
		} else {
			content = m.history.View()
		}
	case constants.StateTrainers:
		content = m.trainers.View()
	case constants.StateEditing:
		content = m.form.View()
	case constants.StateConfirmComplete:
		content = m.viewConfirm(warningStyle.Render("Complete workout"))
	case constants.StateConfirmDiscard, constants.StateConfirmDelete:
		content = m.viewConfirm(dangerStyle.Render("This cannot be undone"))
	}

	sections := []string{m.viewTabs()}
	if m.state == constants.StateWorkout || m.returnTo == constants.StateWorkout && isFormState(m.state) {
		sections = append(sections, m.viewStats())
	}
	sections = append(sections, docStyle.Render(content), m.viewStatus(), m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewTabs() string {
	active := m.state
	if isFormState(active) {
		active = m.returnTo
	}
	var out []string
	for _, t := range tabs {
		if t.state == active {
			out = append(out, activeTabStyle.Render(t.title))
		} else {
			out = append(out, inactiveTabStyle.Render(t.title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (m Model) viewStats() string {
	w := m.sess.Workout()
	s := m.live
	line := fmt.Sprintf("%s %s · %d min · %d exercises · %d sets · %s %s · RPE %.1f · %s",
		w.Date, w.StartTime, s.Duration, s.TotalExercises, s.TotalSets,
		humanize.Comma(int64(s.TotalVolume)), m.ctx.Unit(), s.AvgRPE,
		m.ctx.Manager.TrainerName(w.TrainerID))
	return statsStyle.Render(line)
}

func (m Model) viewStatus() string {
	if m.errMsg != "" {
		return dangerStyle.Render("✗ " + m.errMsg)
	}
	if m.status != "" {
		return mutedStyle.Render(m.status)
	}
	return ""
}

func (m Model) viewConfirm(heading string) string {
	body := lipgloss.JoinVertical(lipgloss.Center, heading, "", m.form.View())
	if m.width == 0 {
		return body
	}
	return lipgloss.Place(m.width-4, m.bodyHeight(),
		lipgloss.Center, lipgloss.Center,
		body,
	)
}
