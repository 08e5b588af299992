package assessment

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/google/uuid"

	"github.com/careercompass/compass/internal/api"
	"github.com/careercompass/compass/internal/auth"
	"github.com/careercompass/compass/internal/results"
	"github.com/careercompass/compass/internal/router"
	"github.com/careercompass/compass/internal/screen"
	"github.com/careercompass/compass/internal/screens/resultview"
	"github.com/careercompass/compass/internal/stepper"
	"github.com/careercompass/compass/internal/store"
	"github.com/careercompass/compass/internal/ui/components"
	"github.com/careercompass/compass/internal/ui/layout"
)

// paceDelay keeps the chosen option highlighted briefly before the
// answer goes out, so fast selections still read as deliberate.
const paceDelay = 300 * time.Millisecond

// AssessmentScreen drives one assessment attempt. All sequencing lives
// in stepper.Transition; this screen only translates key presses into
// events and effects into commands.
type AssessmentScreen struct {
	runner        *stepper.Runner
	resultsClient results.Client
	attempts      store.AttemptRepo

	state   stepper.State
	options components.OptionList

	// ctx scopes every call of this attempt; cancel fires on exit or
	// abort so an in-flight request cannot outlive the screen.
	ctx    context.Context
	cancel context.CancelFunc

	attemptID   string
	quitConfirm bool
	pacing      bool
}

var _ screen.Screen = (*AssessmentScreen)(nil)
var _ screen.KeyHintProvider = (*AssessmentScreen)(nil)
var _ screen.EscHandler = (*AssessmentScreen)(nil)

// New creates an AssessmentScreen for the given student. In production
// both clients are the same *api.Client.
func New(client stepper.Client, resultsClient results.Client, attempts store.AttemptRepo, studentID int) *AssessmentScreen {
	ctx, cancel := context.WithCancel(context.Background())
	return &AssessmentScreen{
		runner:        stepper.NewRunner(client),
		resultsClient: resultsClient,
		attempts:      attempts,
		state:         stepper.NewState(studentID),
		ctx:           ctx,
		cancel:        cancel,
	}
}

func (a *AssessmentScreen) Init() tea.Cmd {
	return a.apply(stepper.EvStart{})
}

func (a *AssessmentScreen) Title() string {
	return "Assessment"
}

// HandlesEsc is always true: leaving mid-assessment needs confirmation.
func (a *AssessmentScreen) HandlesEsc() bool {
	return true
}

func (a *AssessmentScreen) KeyHints() []layout.KeyHint {
	if a.quitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave assessment"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if a.state.Phase == stepper.PhaseAborted {
		return []layout.KeyHint{
			{Key: "any key", Description: "Back to dashboard"},
		}
	}
	if a.state.Phase == stepper.PhaseDisplaying && !a.pacing {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Answer"},
			{Key: "Esc", Description: "Leave"},
		}
	}
	return []layout.KeyHint{
		{Key: "Esc", Description: "Leave"},
	}
}

func (a *AssessmentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case stepMsg:
		return a, a.apply(msg.Ev)

	case paceDoneMsg:
		a.pacing = false
		return a, a.apply(stepper.EvSelect{OptionID: msg.OptionID})

	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}

	return a, nil
}

// apply feeds an event through the state machine and turns the
// resulting effect into a command.
func (a *AssessmentScreen) apply(ev stepper.Event) tea.Cmd {
	var eff stepper.Effect
	a.state, eff = stepper.Transition(a.state, ev)

	cmds := a.record(ev, eff)

	switch eff.Kind {
	case stepper.EffectShowResults:
		a.cancel()
		cmds = append(cmds, func() tea.Msg {
			return router.ReplaceScreenMsg{
				Screen: resultview.New(a.resultsClient, a.state.StudentID),
			}
		})

	case stepper.EffectAbort:
		// The cause stays on screen; any key then pops back. A rejected
		// token is different: it ends the whole login, not just this
		// attempt, so it routes straight to the sign-in screen.
		a.cancel()
		if errors.Is(a.state.Cause, api.ErrUnauthorized) {
			cmds = append(cmds, signedOut())
		}

	case stepper.EffectNone:
		// No call to make. Refresh the option list if a question landed.
		if q, ok := ev.(stepper.EvQuestion); ok {
			a.options = components.NewOptionList(q.Question.Text, choiceOptions(q.Options))
		}
		// A 401 on submit cannot be retried with cleared credentials.
		if f, ok := ev.(stepper.EvAnswerFailed); ok && errors.Is(f.Err, api.ErrUnauthorized) {
			a.cancel()
			cmds = append(cmds, signedOut())
		}

	default:
		cmds = append(cmds, a.exec(eff))
	}

	return tea.Batch(cmds...)
}

// exec runs one effect against the API off the UI goroutine.
func (a *AssessmentScreen) exec(eff stepper.Effect) tea.Cmd {
	s := a.state
	return func() tea.Msg {
		ev := a.runner.Execute(a.ctx, s, eff)
		if ev == nil {
			return nil
		}
		return stepMsg{Ev: ev}
	}
}

// record mirrors flow milestones into the local attempt log and keeps
// stage metadata fresh. All writes are best-effort.
func (a *AssessmentScreen) record(ev stepper.Event, eff stepper.Effect) []tea.Cmd {
	var cmds []tea.Cmd

	switch ev := ev.(type) {
	case stepper.EvStarted:
		a.attemptID = uuid.New().String()
		_ = a.attempts.Begin(a.ctx, store.Attempt{
			ID:        a.attemptID,
			StudentID: a.state.StudentID,
			SessionID: a.state.SessionID,
			StartedAt: time.Now(),
			LastStage: ev.CurrentStage,
		})
		cmds = append(cmds, a.fetchStageInfo(ev.CurrentStage))

	case stepper.EvAnswerAccepted:
		_ = a.attempts.RecordAnswer(a.ctx, a.attemptID, a.state.Stage.Code)

	case stepper.EvAdvanced:
		_ = a.attempts.RecordStageComplete(a.ctx, a.attemptID)
		cmds = append(cmds, a.fetchStageInfo(ev.NextStage))

	case stepper.EvFinished:
		_ = a.attempts.RecordStageComplete(a.ctx, a.attemptID)
		_ = a.attempts.End(context.Background(), a.attemptID, store.AttemptFinished, time.Now())
	}

	if eff.Kind == stepper.EffectAbort && a.attemptID != "" {
		// ctx may already be cancelled; the log write gets its own.
		_ = a.attempts.End(context.Background(), a.attemptID, store.AttemptAborted, time.Now())
	}

	return cmds
}

// fetchStageInfo loads display metadata for a stage. A nil event (fetch
// failed) is swallowed: the flow never waits on this.
func (a *AssessmentScreen) fetchStageInfo(code string) tea.Cmd {
	return func() tea.Msg {
		ev := a.runner.FetchStageInfo(a.ctx, code)
		if ev == nil {
			return nil
		}
		return stepMsg{Ev: ev}
	}
}

func (a *AssessmentScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	// Aborted state: any key returns to the dashboard.
	if a.state.Phase == stepper.PhaseAborted {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}

	if a.quitConfirm {
		switch key {
		case "y", "Y":
			a.quitConfirm = false
			return a.leave()
		case "n", "N", "esc":
			a.quitConfirm = false
		}
		return nil
	}

	if key == "esc" {
		a.quitConfirm = true
		return nil
	}

	// Selection only while a question is up and nothing is in flight.
	if a.state.Phase != stepper.PhaseDisplaying || a.pacing {
		return nil
	}

	switch key {
	case "up", "k", "down", "j":
		a.options, _ = a.options.Update(msg)
		return nil
	case "enter":
		return a.commitSelection()
	}

	// Number keys jump straight to an option and answer.
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		if a.options.SelectIndex(int(key[0] - '1')) {
			return a.commitSelection()
		}
	}

	return nil
}

// commitSelection locks the list and schedules the actual submission
// after the pacing delay.
func (a *AssessmentScreen) commitSelection() tea.Cmd {
	chosen, ok := a.options.Chosen()
	if !ok {
		return nil
	}
	a.options.Lock()
	a.pacing = true
	return tea.Tick(paceDelay, func(time.Time) tea.Msg {
		return paceDoneMsg{OptionID: chosen.ID}
	})
}

// leave abandons the attempt on user request. The server keeps the
// dangling session; there is no cancel endpoint.
func (a *AssessmentScreen) leave() tea.Cmd {
	if a.attemptID != "" {
		_ = a.attempts.End(context.Background(), a.attemptID, store.AttemptAbandoned, time.Now())
	}
	a.state, _ = stepper.Transition(a.state, stepper.EvExit{})
	a.cancel()
	return func() tea.Msg { return router.PopScreenMsg{} }
}

// signedOut asks the app to drop back to the login screen after the
// server rejected the token mid-flow.
func signedOut() tea.Cmd {
	return func() tea.Msg {
		return auth.SignedOutMsg{Notice: "Your session expired. Please sign in again."}
	}
}

func choiceOptions(opts []api.Option) []components.ChoiceOption {
	out := make([]components.ChoiceOption, 0, len(opts))
	for _, o := range opts {
		out = append(out, components.ChoiceOption{ID: o.ID, Label: o.Label()})
	}
	return out
}
