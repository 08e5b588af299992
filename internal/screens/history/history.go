package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/careercompass/compass/internal/screen"
	"github.com/careercompass/compass/internal/store"
	"github.com/careercompass/compass/internal/ui/layout"
	"github.com/careercompass/compass/internal/ui/theme"
)

const maxRows = 20

// HistoryScreen lists locally recorded assessment attempts.
type HistoryScreen struct {
	repo     store.AttemptRepo
	attempts []store.Attempt
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

type attemptsLoadedMsg struct {
	Attempts []store.Attempt
	Err      error
}

// New creates a new HistoryScreen.
func New(repo store.AttemptRepo) *HistoryScreen {
	return &HistoryScreen{repo: repo}
}

func (h *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		attempts, err := h.repo.Recent(context.Background(), maxRows)
		return attemptsLoadedMsg{Attempts: attempts, Err: err}
	}
}

func (h *HistoryScreen) Title() string {
	return "History"
}

func (h *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (h *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(attemptsLoadedMsg); ok {
		h.loaded = true
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
			return h, nil
		}
		h.attempts = msg.Attempts
	}
	return h, nil
}

func (h *HistoryScreen) View(width, height int) string {
	if h.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("\n\n  Could not load history: " + h.errMsg)
	}
	if !h.loaded {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Loading...")
	}
	if len(h.attempts) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  No assessments taken yet.")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %-17s %-12s %-16s %s", "Started", "Status", "Last stage", "Answered")))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Border).
		Render("  " + strings.Repeat("─", min(width-4, 60))))
	b.WriteString("\n")

	for _, a := range h.attempts {
		status := statusStyle(a.Status).Render(fmt.Sprintf("%-12s", a.Status))
		line := fmt.Sprintf("  %-17s %s %-16s %d",
			a.StartedAt.Local().Format("2006-01-02 15:04"),
			status,
			a.LastStage,
			a.QuestionsAnswered,
		)
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case store.AttemptFinished:
		return lipgloss.NewStyle().Foreground(theme.Success)
	case store.AttemptAborted:
		return lipgloss.NewStyle().Foreground(theme.Error)
	default:
		return lipgloss.NewStyle().Foreground(theme.TextDim)
	}
}
