package assessment

import (
	"github.com/careercompass/compass/internal/stepper"
)

// stepMsg carries the outcome of an executed flow effect back into the
// state machine.
type stepMsg struct {
	Ev stepper.Event
}

// paceDoneMsg fires when the short post-selection highlight period ends
// and the chosen option should actually be submitted.
type paceDoneMsg struct {
	OptionID int
}
