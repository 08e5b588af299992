package stepper

import "github.com/careercompass/compass/internal/api"

// Event is something that happened: a server response, a user action,
// or a failure. Exactly one concrete type per occurrence.
type Event interface{ isEvent() }

type (
	// EvStart kicks off the flow from Idle.
	EvStart struct{}

	// EvStarted is a successful start-session response.
	EvStarted struct {
		SessionID    int
		CurrentStage string
	}

	// EvQuestion is a next-question response carrying a question.
	EvQuestion struct {
		Question       api.Question
		Options        []api.Option
		Progress       int
		Stage          string
		TotalQuestions int
	}

	// EvStageComplete is a next-question response signalling the stage is done.
	EvStageComplete struct{}

	// EvSelect is the user choosing an option.
	EvSelect struct{ OptionID int }

	// EvAnswerAccepted is a successful answer submission.
	EvAnswerAccepted struct{}

	// EvAnswerFailed is a failed submission: non-fatal, the question stays.
	EvAnswerFailed struct{ Err error }

	// EvAdvanced is an advance-stage response naming the next stage.
	EvAdvanced struct{ NextStage string }

	// EvFinished is an advance-stage response reporting no stages remain.
	EvFinished struct{}

	// EvStageInfo is the best-effort metadata fetch landing. Stage names
	// the stage the fetch was issued for.
	EvStageInfo struct {
		Stage          string
		Name           string
		TotalQuestions int
	}

	// EvFailed is a flow-fatal error in start, next-question, or advance.
	EvFailed struct{ Err error }

	// EvExit is a confirmed user exit.
	EvExit struct{}
)

func (EvStart) isEvent()          {}
func (EvStarted) isEvent()        {}
func (EvQuestion) isEvent()       {}
func (EvStageComplete) isEvent()  {}
func (EvSelect) isEvent()         {}
func (EvAnswerAccepted) isEvent() {}
func (EvAnswerFailed) isEvent()   {}
func (EvAdvanced) isEvent()       {}
func (EvFinished) isEvent()       {}
func (EvStageInfo) isEvent()      {}
func (EvFailed) isEvent()         {}
func (EvExit) isEvent()           {}

// EffectKind names the single API call (or navigation) a transition
// demands next. The machine never asks for two calls at once, which is
// what keeps request ordering strict within a session.
type EffectKind int

const (
	EffectNone         EffectKind = iota
	EffectStart                   // call start-session
	EffectFetchNext               // call next-question
	EffectSubmitAnswer            // call submit-answer for Question/Option below
	EffectAdvanceStage            // call advance-stage
	EffectShowResults             // navigate to the results screen
	EffectAbort                   // alert once, navigate to the dashboard
)

// Effect pairs a kind with the submission payload when relevant.
type Effect struct {
	Kind       EffectKind
	QuestionID int
	OptionID   int
}

func none() Effect               { return Effect{Kind: EffectNone} }
func effect(k EffectKind) Effect { return Effect{Kind: k} }

// Transition is the pure step function: given the current state and an
// event, produce the next state and the effect to run. Events that make
// no sense in the current phase are ignored — that single rule is the
// re-entrancy guard (a second selection while Submitting hits the
// "EvSelect outside Displaying" case and drops on the floor) and the
// never-call-next-after-finished guarantee (terminal phases ignore
// everything).
func Transition(s State, ev Event) (State, Effect) {
	if s.Phase.Terminal() {
		return s, none()
	}

	// Stage metadata can land in any live phase; it only affects labels.
	// A slow fetch can outlive its stage, so anything tagged for a stage
	// we already left is dropped.
	if info, ok := ev.(EvStageInfo); ok {
		if info.Stage != s.Stage.Code {
			return s, none()
		}
		if info.Name != "" {
			s.Stage.Name = info.Name
		}
		if info.TotalQuestions > 0 {
			s.Stage.TotalQuestions = info.TotalQuestions
		}
		return s, none()
	}

	// A confirmed exit abandons the flow from anywhere. No server-side
	// cancel exists; the session is left dangling by design of the API.
	if _, ok := ev.(EvExit); ok {
		s.Phase = PhaseAborted
		s.Active = nil
		return s, none()
	}

	switch s.Phase {
	case PhaseIdle:
		if _, ok := ev.(EvStart); ok {
			s.Phase = PhaseStarting
			return s, effect(EffectStart)
		}

	case PhaseStarting:
		switch ev := ev.(type) {
		case EvStarted:
			s.Phase = PhaseAwaitingQuestion
			s.SessionID = ev.SessionID
			s.Stage.Code = ev.CurrentStage
			return s, effect(EffectFetchNext)
		case EvFailed:
			return abort(s, ev.Err)
		}

	case PhaseAwaitingQuestion:
		switch ev := ev.(type) {
		case EvQuestion:
			s.Phase = PhaseDisplaying
			s.Active = &ActiveQuestion{
				Question: ev.Question,
				Options:  ev.Options,
				Progress: ev.Progress,
			}
			if ev.Stage != "" {
				s.Stage.Code = ev.Stage
			}
			if ev.TotalQuestions > 0 {
				s.Stage.TotalQuestions = ev.TotalQuestions
			}
			return s, none()
		case EvStageComplete:
			s.Phase = PhaseAdvancingStage
			s.Active = nil
			return s, effect(EffectAdvanceStage)
		case EvFailed:
			return abort(s, ev.Err)
		}

	case PhaseDisplaying:
		if ev, ok := ev.(EvSelect); ok {
			s.Phase = PhaseSubmitting
			s.PendingOption = ev.OptionID
			return s, Effect{
				Kind:       EffectSubmitAnswer,
				QuestionID: s.Active.Question.ID,
				OptionID:   ev.OptionID,
			}
		}

	case PhaseSubmitting:
		switch ev.(type) {
		case EvAnswerAccepted:
			s.Phase = PhaseAwaitingQuestion
			s.Active = nil
			s.PendingOption = 0
			s.Answered++
			return s, effect(EffectFetchNext)
		case EvAnswerFailed:
			// Non-fatal: back to the same question for a manual retry.
			s.Phase = PhaseDisplaying
			s.PendingOption = 0
			return s, none()
		}

	case PhaseAdvancingStage:
		switch ev := ev.(type) {
		case EvAdvanced:
			s.Phase = PhaseAwaitingQuestion
			s.Stage = StageInfo{
				Code:           ev.NextStage,
				Name:           DefaultStageName,
				TotalQuestions: s.Stage.TotalQuestions,
			}
			s.StagesDone++
			return s, effect(EffectFetchNext)
		case EvFinished:
			s.Phase = PhaseFinished
			s.StagesDone++
			return s, effect(EffectShowResults)
		case EvFailed:
			return abort(s, ev.Err)
		}
	}

	return s, none()
}

func abort(s State, cause error) (State, Effect) {
	s.Phase = PhaseAborted
	s.Active = nil
	s.Cause = cause
	return s, effect(EffectAbort)
}
