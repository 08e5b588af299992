package stepper

import "github.com/careercompass/compass/internal/api"

// Phase is the orchestrator's position in the assessment flow.
type Phase int

const (
	PhaseIdle             Phase = iota // not started
	PhaseStarting                      // start-session call in flight
	PhaseAwaitingQuestion              // next-question call in flight
	PhaseDisplaying                    // question on screen, waiting for a selection
	PhaseSubmitting                    // answer call in flight
	PhaseAdvancingStage                // advance-stage call in flight
	PhaseFinished                      // no stages remain; results are next
	PhaseAborted                       // flow-fatal error or user exit
)

// String returns the phase name for logs and test failure output.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStarting:
		return "starting"
	case PhaseAwaitingQuestion:
		return "awaiting-question"
	case PhaseDisplaying:
		return "displaying"
	case PhaseSubmitting:
		return "submitting"
	case PhaseAdvancingStage:
		return "advancing-stage"
	case PhaseFinished:
		return "finished"
	case PhaseAborted:
		return "aborted"
	}
	return "unknown"
}

// Terminal reports whether no further transitions can occur.
func (p Phase) Terminal() bool {
	return p == PhaseFinished || p == PhaseAborted
}

// StageInfo is the display metadata for the current stage. Name and
// TotalQuestions come from the best-effort info fetch and may keep
// their defaults when that fetch fails.
type StageInfo struct {
	Code           string
	Name           string
	TotalQuestions int
}

// DefaultStageName labels a stage whose metadata fetch failed.
const DefaultStageName = "Assessment"

// ActiveQuestion is the single question held in memory. The client
// keeps no history of earlier questions or answers.
type ActiveQuestion struct {
	Question api.Question
	Options  []api.Option
	Progress int
}

// State is the full orchestrator state. Values are copied through
// Transition; nothing here is mutated in place.
type State struct {
	Phase     Phase
	StudentID int
	SessionID int
	Stage     StageInfo

	// Active is non-nil only in Displaying and Submitting: the one
	// un-submitted question.
	Active *ActiveQuestion

	// PendingOption is the option chosen for the in-flight submission.
	PendingOption int

	// Answered and StagesDone count progress for local history.
	Answered   int
	StagesDone int

	// Cause records why the flow aborted; nil for a user exit.
	Cause error
}

// NewState returns the initial state for one assessment attempt.
func NewState(studentID int) State {
	return State{
		Phase:     PhaseIdle,
		StudentID: studentID,
		Stage:     StageInfo{Name: DefaultStageName, TotalQuestions: 10},
	}
}
