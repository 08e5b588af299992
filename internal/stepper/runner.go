package stepper

import (
	"context"

	"github.com/careercompass/compass/internal/api"
)

// Client is the slice of the API surface the stepper drives. *api.Client
// satisfies it; tests substitute a scripted implementation.
type Client interface {
	StartSession(ctx context.Context, studentID int) (api.StartResult, error)
	NextQuestion(ctx context.Context, sessionID int) (api.NextResult, error)
	SubmitAnswer(ctx context.Context, sessionID, questionID, optionID int) error
	AdvanceStage(ctx context.Context, sessionID int) (api.AdvanceResult, error)
	StageInfo(ctx context.Context, testCode string) (api.TestInfo, error)
}

// Runner executes effects against the API and turns the outcomes back
// into events. It holds no state of its own; sequencing lives entirely
// in Transition.
type Runner struct {
	client Client
}

// NewRunner creates a Runner over the given client.
func NewRunner(client Client) *Runner {
	return &Runner{client: client}
}

// Execute performs the single API call an effect names and returns the
// resulting event, or nil for effects with no call (none, navigation).
func (r *Runner) Execute(ctx context.Context, s State, eff Effect) Event {
	switch eff.Kind {
	case EffectStart:
		res, err := r.client.StartSession(ctx, s.StudentID)
		if err != nil {
			return EvFailed{Err: err}
		}
		return EvStarted{SessionID: res.SessionID, CurrentStage: res.CurrentStage}

	case EffectFetchNext:
		res, err := r.client.NextQuestion(ctx, s.SessionID)
		if err != nil {
			return EvFailed{Err: err}
		}
		if res.StageComplete {
			return EvStageComplete{}
		}
		return EvQuestion{
			Question:       res.Question,
			Options:        res.Options,
			Progress:       res.Progress,
			Stage:          res.Stage,
			TotalQuestions: res.TotalQuestions,
		}

	case EffectSubmitAnswer:
		if err := r.client.SubmitAnswer(ctx, s.SessionID, eff.QuestionID, eff.OptionID); err != nil {
			return EvAnswerFailed{Err: err}
		}
		return EvAnswerAccepted{}

	case EffectAdvanceStage:
		res, err := r.client.AdvanceStage(ctx, s.SessionID)
		if err != nil {
			return EvFailed{Err: err}
		}
		if res.Finished {
			return EvFinished{}
		}
		return EvAdvanced{NextStage: res.NextStage}
	}

	return nil
}

// FetchStageInfo loads stage display metadata. Failures are swallowed
// (nil event): they only degrade the label, never the flow.
func (r *Runner) FetchStageInfo(ctx context.Context, testCode string) Event {
	if testCode == "" {
		return nil
	}
	info, err := r.client.StageInfo(ctx, testCode)
	if err != nil {
		return nil
	}
	return EvStageInfo{Stage: testCode, Name: info.Name, TotalQuestions: info.TotalQuestions}
}
