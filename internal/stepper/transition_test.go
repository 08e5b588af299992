package stepper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careercompass/compass/internal/api"
)

func questionEvent(id int) EvQuestion {
	return EvQuestion{
		Question: api.Question{ID: id, Text: "I enjoy solving puzzles."},
		Options: []api.Option{
			{ID: 1, Text: "Agree"},
			{ID: 2, Text: "Disagree"},
		},
		Progress:       1,
		Stage:          "RIASEC",
		TotalQuestions: 10,
	}
}

// displayingState walks a fresh state to Displaying with one question up.
func displayingState(t *testing.T) State {
	t.Helper()
	s := NewState(1)

	s, eff := Transition(s, EvStart{})
	require.Equal(t, EffectStart, eff.Kind)

	s, eff = Transition(s, EvStarted{SessionID: 500, CurrentStage: "RIASEC"})
	require.Equal(t, EffectFetchNext, eff.Kind)

	s, eff = Transition(s, questionEvent(9))
	require.Equal(t, EffectNone, eff.Kind)
	require.Equal(t, PhaseDisplaying, s.Phase)
	return s
}

func TestHappyPathPhases(t *testing.T) {
	s := displayingState(t)
	assert.Equal(t, 500, s.SessionID)
	assert.Equal(t, "RIASEC", s.Stage.Code)
	require.NotNil(t, s.Active)
	assert.Equal(t, 9, s.Active.Question.ID)
}

// At most one un-submitted question is held, and an accepted answer
// immediately requests the next one: no double-fetch, no skipped fetch.
func TestSingleActiveQuestion(t *testing.T) {
	s := displayingState(t)

	s, eff := Transition(s, EvSelect{OptionID: 1})
	assert.Equal(t, PhaseSubmitting, s.Phase)
	assert.Equal(t, EffectSubmitAnswer, eff.Kind)
	assert.Equal(t, 9, eff.QuestionID)
	assert.Equal(t, 1, eff.OptionID)
	require.NotNil(t, s.Active)

	s, eff = Transition(s, EvAnswerAccepted{})
	assert.Equal(t, PhaseAwaitingQuestion, s.Phase)
	assert.Equal(t, EffectFetchNext, eff.Kind)
	assert.Nil(t, s.Active)
	assert.Equal(t, 1, s.Answered)
}

// Two rapid selections produce exactly one submit, carrying the first
// clicked option id.
func TestReentrancyGuard(t *testing.T) {
	s := displayingState(t)

	s, eff := Transition(s, EvSelect{OptionID: 1})
	require.Equal(t, EffectSubmitAnswer, eff.Kind)
	require.Equal(t, 1, eff.OptionID)

	// Second click lands while the submission is in flight.
	s2, eff2 := Transition(s, EvSelect{OptionID: 2})
	assert.Equal(t, EffectNone, eff2.Kind)
	assert.Equal(t, s.Phase, s2.Phase)
	assert.Equal(t, 1, s2.PendingOption)
}

// A stage-complete signal must lead to advance-stage, never to another
// next-question call first.
func TestStageCompleteAdvances(t *testing.T) {
	s := displayingState(t)
	s, _ = Transition(s, EvSelect{OptionID: 1})
	s, _ = Transition(s, EvAnswerAccepted{})

	s, eff := Transition(s, EvStageComplete{})
	assert.Equal(t, PhaseAdvancingStage, s.Phase)
	assert.Equal(t, EffectAdvanceStage, eff.Kind)
	assert.Nil(t, s.Active)
}

func TestAdvanceToNextStage(t *testing.T) {
	s := displayingState(t)
	s, _ = Transition(s, EvSelect{OptionID: 1})
	s, _ = Transition(s, EvAnswerAccepted{})
	s, _ = Transition(s, EvStageComplete{})

	s, eff := Transition(s, EvAdvanced{NextStage: "APTITUDE"})
	assert.Equal(t, PhaseAwaitingQuestion, s.Phase)
	assert.Equal(t, EffectFetchNext, eff.Kind)
	assert.Equal(t, "APTITUDE", s.Stage.Code)
	// Metadata for the new stage is unknown until its info fetch lands.
	assert.Equal(t, DefaultStageName, s.Stage.Name)
	assert.Equal(t, 1, s.StagesDone)
}

// finished is terminal: the machine must never ask for another
// next-question afterwards, whatever arrives.
func TestFinishedIsTerminal(t *testing.T) {
	s := displayingState(t)
	s, _ = Transition(s, EvSelect{OptionID: 1})
	s, _ = Transition(s, EvAnswerAccepted{})
	s, _ = Transition(s, EvStageComplete{})

	s, eff := Transition(s, EvFinished{})
	assert.Equal(t, PhaseFinished, s.Phase)
	assert.Equal(t, EffectShowResults, eff.Kind)

	for _, ev := range []Event{EvStageComplete{}, questionEvent(10), EvSelect{OptionID: 1}, EvStart{}} {
		next, eff := Transition(s, ev)
		assert.Equal(t, PhaseFinished, next.Phase)
		assert.Equal(t, EffectNone, eff.Kind)
	}
}

func TestFlowFatalFailures(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name  string
		state func(t *testing.T) State
	}{
		{"starting", func(t *testing.T) State {
			s := NewState(1)
			s, _ = Transition(s, EvStart{})
			return s
		}},
		{"awaiting question", func(t *testing.T) State {
			s := displayingState(t)
			s, _ = Transition(s, EvSelect{OptionID: 1})
			s, _ = Transition(s, EvAnswerAccepted{})
			return s
		}},
		{"advancing stage", func(t *testing.T) State {
			s := displayingState(t)
			s, _ = Transition(s, EvSelect{OptionID: 1})
			s, _ = Transition(s, EvAnswerAccepted{})
			s, _ = Transition(s, EvStageComplete{})
			return s
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, eff := Transition(tt.state(t), EvFailed{Err: cause})
			assert.Equal(t, PhaseAborted, s.Phase)
			assert.Equal(t, EffectAbort, eff.Kind)
			assert.ErrorIs(t, s.Cause, cause)
		})
	}
}

// Submission failure is non-fatal: the question stays up for a manual
// re-selection and no call is issued until the user acts again.
func TestAnswerFailureKeepsQuestion(t *testing.T) {
	s := displayingState(t)
	s, _ = Transition(s, EvSelect{OptionID: 1})

	s, eff := Transition(s, EvAnswerFailed{Err: errors.New("timeout")})
	assert.Equal(t, PhaseDisplaying, s.Phase)
	assert.Equal(t, EffectNone, eff.Kind)
	require.NotNil(t, s.Active)
	assert.Equal(t, 9, s.Active.Question.ID)
	assert.Zero(t, s.PendingOption)

	// Retry goes through.
	_, eff = Transition(s, EvSelect{OptionID: 2})
	assert.Equal(t, EffectSubmitAnswer, eff.Kind)
	assert.Equal(t, 2, eff.OptionID)
}

func TestStageInfoUpdatesLabelOnly(t *testing.T) {
	s := displayingState(t)

	s2, eff := Transition(s, EvStageInfo{Stage: "RIASEC", Name: "Interest Inventory", TotalQuestions: 30})
	assert.Equal(t, EffectNone, eff.Kind)
	assert.Equal(t, s.Phase, s2.Phase)
	assert.Equal(t, "Interest Inventory", s2.Stage.Name)
	assert.Equal(t, 30, s2.Stage.TotalQuestions)
}

// A metadata fetch issued for an earlier stage can land after the flow
// has advanced; it must not relabel the stage we are now in.
func TestStaleStageInfoDropped(t *testing.T) {
	s := displayingState(t)
	s, _ = Transition(s, EvSelect{OptionID: 1})
	s, _ = Transition(s, EvAnswerAccepted{})
	s, _ = Transition(s, EvStageComplete{})
	s, _ = Transition(s, EvAdvanced{NextStage: "APTITUDE"})

	s2, eff := Transition(s, EvStageInfo{Stage: "RIASEC", Name: "Interest Inventory", TotalQuestions: 30})
	assert.Equal(t, EffectNone, eff.Kind)
	assert.Equal(t, "APTITUDE", s2.Stage.Code)
	assert.Equal(t, DefaultStageName, s2.Stage.Name)
}

func TestExitAbandonsFromAnyPhase(t *testing.T) {
	s := displayingState(t)

	s, eff := Transition(s, EvExit{})
	assert.Equal(t, PhaseAborted, s.Phase)
	assert.Equal(t, EffectNone, eff.Kind)
	assert.Nil(t, s.Cause)

	// Nothing continues after an exit, including in-flight responses.
	next, eff := Transition(s, questionEvent(11))
	assert.Equal(t, PhaseAborted, next.Phase)
	assert.Equal(t, EffectNone, eff.Kind)
}
