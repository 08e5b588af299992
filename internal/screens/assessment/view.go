package assessment

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/careercompass/compass/internal/stepper"
	"github.com/careercompass/compass/internal/ui/components"
	"github.com/careercompass/compass/internal/ui/theme"
)

func (a *AssessmentScreen) View(width, height int) string {
	if a.quitConfirm {
		return renderQuitConfirm(width)
	}

	switch a.state.Phase {
	case stepper.PhaseIdle, stepper.PhaseStarting:
		return centeredDim(width, "\n\n\n  Starting your assessment...")
	case stepper.PhaseAwaitingQuestion:
		return centeredDim(width, "\n\n\n  Loading the next question...")
	case stepper.PhaseAdvancingStage:
		return centeredDim(width, "\n\n\n  Moving to the next section...")
	case stepper.PhaseFinished:
		return centeredDim(width, "\n\n\n  Assessment complete. Preparing your results...")
	case stepper.PhaseAborted:
		return a.renderAborted(width)
	}

	return a.renderQuestion(width)
}

// renderQuestion draws the stage banner, progress, and the option list.
// Covers both Displaying and Submitting (locked list plus saving note).
func (a *AssessmentScreen) renderQuestion(width int) string {
	active := a.state.Active
	if active == nil {
		return centeredDim(width, "\n\n\n  Loading the next question...")
	}

	var b strings.Builder

	stageLine := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + a.state.Stage.Name)
	if a.state.Stage.Code != "" {
		stageLine += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render("  [" + a.state.Stage.Code + "]")
	}
	b.WriteString(stageLine)
	b.WriteString("\n")

	total := a.state.Stage.TotalQuestions
	progressLabel := fmt.Sprintf("Question %d of %d", active.Progress, total)
	bar := components.NewRatioBar(progressLabel, active.Progress, total, min(width-8, 60))
	b.WriteString("  " + bar.View())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Border).
		Render("  " + strings.Repeat("─", min(width-4, 70))))
	b.WriteString("\n\n")

	b.WriteString(indent(a.options.View(), "  "))

	if a.state.Phase == stepper.PhaseSubmitting || a.pacing {
		b.WriteString("\n  " + theme.Saving.Render("Saving your answer..."))
	}

	return b.String()
}

func (a *AssessmentScreen) renderAborted(width int) string {
	cause := "something went wrong"
	if a.state.Cause != nil {
		cause = a.state.Cause.Error()
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf(
			"\n\n\n  The assessment could not continue:\n  %s\n\n  Your progress so far is saved on the server.\n  Press any key to go back.",
			cause,
		))
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Leave the assessment?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Answers you already gave are saved on the server."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

func centeredDim(width int, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(text)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
