package resultview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/careercompass/compass/internal/api"
	"github.com/careercompass/compass/internal/auth"
	"github.com/careercompass/compass/internal/results"
	"github.com/careercompass/compass/internal/screen"
	"github.com/careercompass/compass/internal/ui/components"
	"github.com/careercompass/compass/internal/ui/layout"
	"github.com/careercompass/compass/internal/ui/theme"
)

// ResultScreen shows the final category scores, the headline category,
// and the server's career recommendations with college suggestions.
type ResultScreen struct {
	client    results.Client
	studentID int

	summary *results.Summary
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

type summaryLoadedMsg struct {
	Summary *results.Summary
	Err     error
}

// New creates a new ResultScreen.
func New(client results.Client, studentID int) *ResultScreen {
	return &ResultScreen{client: client, studentID: studentID}
}

func (r *ResultScreen) Init() tea.Cmd {
	return func() tea.Msg {
		sum, err := results.Load(context.Background(), r.client, r.studentID)
		return summaryLoadedMsg{Summary: sum, Err: err}
	}
}

func (r *ResultScreen) Title() string {
	return "Your Results"
}

func (r *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (r *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(summaryLoadedMsg); ok {
		r.loaded = true
		if msg.Err != nil {
			if errors.Is(msg.Err, api.ErrUnauthorized) {
				return r, func() tea.Msg {
					return auth.SignedOutMsg{Notice: "Your session expired. Please sign in again."}
				}
			}
			r.errMsg = msg.Err.Error()
			return r, nil
		}
		r.summary = msg.Summary
	}
	return r, nil
}

func (r *ResultScreen) View(width, height int) string {
	if r.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("\n\n  Could not load results: " + r.errMsg)
	}
	if !r.loaded {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Loading your results...")
	}
	if r.summary.Empty() {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  No results yet. Finish an assessment first.")
	}

	var b strings.Builder
	b.WriteString("\n")

	if top, ok := r.summary.TopCategory(); ok {
		b.WriteString("  " + lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			Render("Strongest area: "+top))
		b.WriteString("\n\n")
	}

	b.WriteString(r.renderScores(width))

	if len(r.summary.Careers) > 0 {
		b.WriteString("\n  " + lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Bold(true).
			Render("Recommended careers"))
		b.WriteString("\n\n")
		b.WriteString(r.renderCareers(width))
	}

	return b.String()
}

// renderScores draws one bar per category, scaled against the highest
// total so relative strengths stay readable whatever the raw scale is.
func (r *ResultScreen) renderScores(width int) string {
	var maxTotal float64
	for _, s := range r.summary.Scores {
		if s.Total > maxTotal {
			maxTotal = s.Total
		}
	}

	labelWidth := 0
	for _, s := range r.summary.Scores {
		if len(s.Category) > labelWidth {
			labelWidth = len(s.Category)
		}
	}

	barWidth := min(width-labelWidth-16, 40)
	if barWidth < 10 {
		barWidth = 10
	}

	var b strings.Builder
	for _, s := range r.summary.Scores {
		var pct float64
		if maxTotal > 0 {
			pct = s.Total / maxTotal
		}
		label := fmt.Sprintf("%-*s", labelWidth, s.Category)
		bar := components.NewProgressBar(label, pct, false, labelWidth+2+barWidth)
		b.WriteString("  " + bar.View())
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %.0f", s.Total)))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *ResultScreen) renderCareers(width int) string {
	var b strings.Builder
	for _, career := range r.summary.Careers {
		b.WriteString("  " + lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("▸ "+career.Name))
		if career.Category != "" {
			b.WriteString(lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render("  (" + career.Category + ")"))
		}
		b.WriteString("\n")

		for _, college := range r.summary.Colleges[career.ID] {
			line := "      " + college.Name
			if college.Location != "" {
				line += ", " + college.Location
			}
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(line))
			b.WriteString("\n")
		}
	}
	return b.String()
}
