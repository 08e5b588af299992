package assessment

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/careercompass/compass/internal/api"
	"github.com/careercompass/compass/internal/auth"
	"github.com/careercompass/compass/internal/results"
	"github.com/careercompass/compass/internal/router"
	"github.com/careercompass/compass/internal/screens/resultview"
	"github.com/careercompass/compass/internal/stepper"
	"github.com/careercompass/compass/internal/store"
)

// scriptedClient replays queued flow responses.
type scriptedClient struct {
	start     api.StartResult
	next      []api.NextResult
	nextErr   error
	advance   []api.AdvanceResult
	submitErr error
}

func (c *scriptedClient) StartSession(context.Context, int) (api.StartResult, error) {
	return c.start, nil
}

func (c *scriptedClient) NextQuestion(context.Context, int) (api.NextResult, error) {
	if c.nextErr != nil {
		return api.NextResult{}, c.nextErr
	}
	if len(c.next) == 0 {
		return api.NextResult{}, errors.New("script exhausted")
	}
	res := c.next[0]
	c.next = c.next[1:]
	return res, nil
}

func (c *scriptedClient) SubmitAnswer(context.Context, int, int, int) error {
	return c.submitErr
}

func (c *scriptedClient) AdvanceStage(context.Context, int) (api.AdvanceResult, error) {
	if len(c.advance) == 0 {
		return api.AdvanceResult{}, errors.New("script exhausted")
	}
	res := c.advance[0]
	c.advance = c.advance[1:]
	return res, nil
}

func (c *scriptedClient) StageInfo(context.Context, string) (api.TestInfo, error) {
	return api.TestInfo{Name: "Interest Inventory", TotalQuestions: 10}, nil
}

func (c *scriptedClient) FinalResults(context.Context, int) ([]api.CategoryScore, error) {
	return nil, nil
}

func (c *scriptedClient) RecommendedCareers(context.Context, int) ([]api.Career, error) {
	return nil, nil
}

func (c *scriptedClient) CollegesForCareer(context.Context, int) ([]api.College, error) {
	return nil, nil
}

var _ stepper.Client = (*scriptedClient)(nil)
var _ results.Client = (*scriptedClient)(nil)

// mockAttemptRepo records lifecycle calls.
type mockAttemptRepo struct {
	begun           []store.Attempt
	answers         int
	stagesCompleted int
	ended           []string
}

func (m *mockAttemptRepo) Begin(_ context.Context, a store.Attempt) error {
	m.begun = append(m.begun, a)
	return nil
}
func (m *mockAttemptRepo) RecordAnswer(context.Context, string, string) error {
	m.answers++
	return nil
}
func (m *mockAttemptRepo) RecordStageComplete(context.Context, string) error {
	m.stagesCompleted++
	return nil
}
func (m *mockAttemptRepo) End(_ context.Context, _ string, status string, _ time.Time) error {
	m.ended = append(m.ended, status)
	return nil
}
func (m *mockAttemptRepo) Recent(context.Context, int) ([]store.Attempt, error) {
	return nil, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func question(id int) api.NextResult {
	return api.NextResult{
		Question: api.Question{ID: id, Text: "I enjoy working with my hands."},
		Options: []api.Option{
			{ID: 1, Text: "Agree"},
			{ID: 2, Text: "Disagree"},
		},
		Progress:       1,
		Stage:          "RIASEC",
		TotalQuestions: 10,
	}
}

// drain executes commands until the flow quiesces, collecting navigation
// messages instead of delivering them.
func drain(t *testing.T, scr *AssessmentScreen, cmd tea.Cmd) (*AssessmentScreen, []tea.Msg) {
	t.Helper()
	var nav []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch m := msg.(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, m...)
		case router.PopScreenMsg, router.ReplaceScreenMsg, router.PushScreenMsg, auth.SignedOutMsg:
			nav = append(nav, m)
		default:
			updated, next := scr.Update(m)
			scr = updated.(*AssessmentScreen)
			queue = append(queue, next)
		}
	}
	return scr, nav
}

func testScreen(client *scriptedClient) (*AssessmentScreen, *mockAttemptRepo) {
	repo := &mockAttemptRepo{}
	return New(client, client, repo, 1), repo
}

func TestStartsAndShowsFirstQuestion(t *testing.T) {
	client := &scriptedClient{
		start: api.StartResult{SessionID: 500, CurrentStage: "RIASEC"},
		next:  []api.NextResult{question(9)},
	}
	s, repo := testScreen(client)

	s, _ = drain(t, s, s.Init())

	if s.state.Phase != stepper.PhaseDisplaying {
		t.Fatalf("phase = %v, want Displaying", s.state.Phase)
	}
	if got := len(s.options.Options); got != 2 {
		t.Errorf("options = %d, want 2", got)
	}
	// Stage metadata fetch landed and replaced the fallback label.
	if s.state.Stage.Name != "Interest Inventory" {
		t.Errorf("stage name = %q, want %q", s.state.Stage.Name, "Interest Inventory")
	}
	if len(repo.begun) != 1 {
		t.Fatalf("begun attempts = %d, want 1", len(repo.begun))
	}
	if repo.begun[0].SessionID != 500 {
		t.Errorf("attempt session = %d, want 500", repo.begun[0].SessionID)
	}
}

func TestNumberKeyAnswersAfterPacing(t *testing.T) {
	client := &scriptedClient{
		start: api.StartResult{SessionID: 500, CurrentStage: "RIASEC"},
		next:  []api.NextResult{question(9), question(10)},
	}
	s, repo := testScreen(client)
	s, _ = drain(t, s, s.Init())

	updated, cmd := s.Update(keyPress('1'))
	s = updated.(*AssessmentScreen)
	if !s.pacing {
		t.Fatal("expected pacing after selection")
	}
	if !s.options.Locked {
		t.Fatal("expected option list locked while pacing")
	}

	// Run the pacing tick and everything after it.
	s, _ = drain(t, s, cmd)

	if s.state.Phase != stepper.PhaseDisplaying {
		t.Fatalf("phase = %v, want Displaying on next question", s.state.Phase)
	}
	if s.state.Active.Question.ID != 10 {
		t.Errorf("question = %d, want 10", s.state.Active.Question.ID)
	}
	if repo.answers != 1 {
		t.Errorf("recorded answers = %d, want 1", repo.answers)
	}
}

func TestSelectionIgnoredWhilePacing(t *testing.T) {
	client := &scriptedClient{
		start: api.StartResult{SessionID: 500, CurrentStage: "RIASEC"},
		next:  []api.NextResult{question(9), question(10)},
	}
	s, _ := testScreen(client)
	s, _ = drain(t, s, s.Init())

	updated, _ := s.Update(keyPress('1'))
	s = updated.(*AssessmentScreen)

	// A second press while the first answer is pacing does nothing.
	updated, cmd := s.Update(keyPress('2'))
	s = updated.(*AssessmentScreen)
	if cmd != nil {
		t.Error("expected no command for a second selection while pacing")
	}
	if s.options.Selected != 0 {
		t.Errorf("selection moved to %d while locked", s.options.Selected)
	}
}

func TestFinishNavigatesToResults(t *testing.T) {
	client := &scriptedClient{
		start:   api.StartResult{SessionID: 500, CurrentStage: "RIASEC"},
		next:    []api.NextResult{question(9), {StageComplete: true}},
		advance: []api.AdvanceResult{{Finished: true}},
	}
	s, repo := testScreen(client)
	s, _ = drain(t, s, s.Init())

	updated, cmd := s.Update(keyPress('1'))
	s = updated.(*AssessmentScreen)
	s, nav := drain(t, s, cmd)

	if s.state.Phase != stepper.PhaseFinished {
		t.Fatalf("phase = %v, want Finished", s.state.Phase)
	}
	if len(nav) != 1 {
		t.Fatalf("navigation msgs = %d, want 1", len(nav))
	}
	repl, ok := nav[0].(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", nav[0])
	}
	if _, ok := repl.Screen.(*resultview.ResultScreen); !ok {
		t.Errorf("expected results screen, got %T", repl.Screen)
	}
	if repo.stagesCompleted == 0 {
		t.Error("expected stage completion to be recorded")
	}
}

func TestFlowErrorShowsAbortThenPops(t *testing.T) {
	client := &scriptedClient{
		start:   api.StartResult{SessionID: 500, CurrentStage: "RIASEC"},
		nextErr: errors.New("network down"),
	}
	s, _ := testScreen(client)
	s, _ = drain(t, s, s.Init())

	if s.state.Phase != stepper.PhaseAborted {
		t.Fatalf("phase = %v, want Aborted", s.state.Phase)
	}
	view := s.View(80, 24)
	if view == "" {
		t.Error("expected abort view")
	}

	_, cmd := s.Update(keyPress(' '))
	if cmd == nil {
		t.Fatal("expected pop command from abort view")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg after abort")
	}
}

// A rejected token anywhere in the flow must land on the login screen,
// not the logged-out dashboard.
func TestUnauthorizedDuringFlowSignsOut(t *testing.T) {
	client := &scriptedClient{
		start:   api.StartResult{SessionID: 500, CurrentStage: "RIASEC"},
		nextErr: &api.APIError{StatusCode: 401},
	}
	s, _ := testScreen(client)
	s, nav := drain(t, s, s.Init())

	if s.state.Phase != stepper.PhaseAborted {
		t.Fatalf("phase = %v, want Aborted", s.state.Phase)
	}
	if len(nav) != 1 {
		t.Fatalf("navigation msgs = %v, want one sign-out", nav)
	}
	out, ok := nav[0].(auth.SignedOutMsg)
	if !ok {
		t.Fatalf("expected SignedOutMsg, got %T", nav[0])
	}
	if out.Notice == "" {
		t.Error("expected a notice explaining the expired session")
	}
}

// A 401 on submit-answer cannot be retried with cleared credentials,
// so it signs out instead of re-displaying the question.
func TestUnauthorizedOnSubmitSignsOut(t *testing.T) {
	client := &scriptedClient{
		start:     api.StartResult{SessionID: 500, CurrentStage: "RIASEC"},
		next:      []api.NextResult{question(9)},
		submitErr: &api.APIError{StatusCode: 401},
	}
	s, _ := testScreen(client)
	s, _ = drain(t, s, s.Init())

	updated, cmd := s.Update(keyPress('1'))
	s = updated.(*AssessmentScreen)
	s, nav := drain(t, s, cmd)

	if len(nav) != 1 {
		t.Fatalf("navigation msgs = %v, want one sign-out", nav)
	}
	if _, ok := nav[0].(auth.SignedOutMsg); !ok {
		t.Fatalf("expected SignedOutMsg, got %T", nav[0])
	}
}

func TestQuitConfirm(t *testing.T) {
	client := &scriptedClient{
		start: api.StartResult{SessionID: 500, CurrentStage: "RIASEC"},
		next:  []api.NextResult{question(9)},
	}
	s, _ := testScreen(client)
	s, _ = drain(t, s, s.Init())

	updated, _ := s.Update(specialKey(tea.KeyEscape))
	s = updated.(*AssessmentScreen)
	if !s.quitConfirm {
		t.Fatal("expected quit confirmation")
	}

	// N keeps going.
	updated, _ = s.Update(keyPress('n'))
	s = updated.(*AssessmentScreen)
	if s.quitConfirm {
		t.Fatal("expected confirmation dismissed")
	}
	if s.state.Phase != stepper.PhaseDisplaying {
		t.Fatalf("phase = %v, want Displaying after dismiss", s.state.Phase)
	}

	// Y leaves and pops.
	updated, _ = s.Update(specialKey(tea.KeyEscape))
	s = updated.(*AssessmentScreen)
	updated, cmd := s.Update(keyPress('y'))
	s = updated.(*AssessmentScreen)

	if s.state.Phase != stepper.PhaseAborted {
		t.Fatalf("phase = %v, want Aborted after leave", s.state.Phase)
	}
	if cmd == nil {
		t.Fatal("expected pop command after leave")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg after leave")
	}
}

func TestLeaveMarksAttemptAbandoned(t *testing.T) {
	client := &scriptedClient{
		start: api.StartResult{SessionID: 500, CurrentStage: "RIASEC"},
		next:  []api.NextResult{question(9)},
	}
	s, repo := testScreen(client)
	s, _ = drain(t, s, s.Init())

	updated, _ := s.Update(specialKey(tea.KeyEscape))
	s = updated.(*AssessmentScreen)
	s.Update(keyPress('y'))

	if len(repo.ended) != 1 || repo.ended[0] != store.AttemptAbandoned {
		t.Errorf("ended = %v, want [%s]", repo.ended, store.AttemptAbandoned)
	}
}
