package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// Assessment session protocol. Each method is a single request/response
// pair: no retries, no batching, no local caching. Sequencing belongs to
// the stepper, not here.

type startRequest struct {
	StudentID int `json:"studentId"`
}

type answerRequest struct {
	SessionID  int `json:"sessionId"`
	QuestionID int `json:"questionId"`
	OptionID   int `json:"optionId"`
}

type sessionRequest struct {
	SessionID int `json:"sessionId"`
}

type resultsResponse struct {
	Results []CategoryScore `json:"results"`
}

// StartSession begins a new assessment attempt for the student. The
// server decides the initial stage.
func (c *Client) StartSession(ctx context.Context, studentID int) (StartResult, error) {
	var out StartResult
	if err := c.post(ctx, "/tests/start", startRequest{StudentID: studentID}, &out); err != nil {
		return StartResult{}, fmt.Errorf("start session: %w", err)
	}
	if out.SessionID == 0 {
		return StartResult{}, fmt.Errorf("%w: start response carried no session id", ErrProtocol)
	}
	return out, nil
}

// NextQuestion polls for the next unanswered question in the current
// stage. The result either carries a question or StageComplete; a
// response with neither shape is ErrProtocol.
func (c *Client) NextQuestion(ctx context.Context, sessionID int) (NextResult, error) {
	raw, err := c.doJSONRaw(ctx, http.MethodGet, "/tests/next/"+strconv.Itoa(sessionID), nil)
	if err != nil {
		return NextResult{}, fmt.Errorf("next question: %w", err)
	}
	if err := checkShape(nextQuestionSchema, raw); err != nil {
		return NextResult{}, err
	}

	var out NextResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return NextResult{}, fmt.Errorf("decode next question: %w", err)
	}
	return out, nil
}

// SubmitAnswer records one (session, question, option) answer. One
// answer per call; a failure leaves the question unanswered.
func (c *Client) SubmitAnswer(ctx context.Context, sessionID, questionID, optionID int) error {
	req := answerRequest{SessionID: sessionID, QuestionID: questionID, OptionID: optionID}
	if err := c.post(ctx, "/tests/answer", req, nil); err != nil {
		return fmt.Errorf("submit answer: %w", err)
	}
	return nil
}

// AdvanceStage moves the session past a completed stage. Called only
// after NextQuestion reported StageComplete.
func (c *Client) AdvanceStage(ctx context.Context, sessionID int) (AdvanceResult, error) {
	raw, err := c.doJSONRaw(ctx, http.MethodPost, "/tests/next-stage", sessionRequest{SessionID: sessionID})
	if err != nil {
		return AdvanceResult{}, fmt.Errorf("advance stage: %w", err)
	}
	if err := checkShape(advanceStageSchema, raw); err != nil {
		return AdvanceResult{}, err
	}

	var out AdvanceResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return AdvanceResult{}, fmt.Errorf("decode advance stage: %w", err)
	}
	return out, nil
}

// FinalResults fetches the per-category totals for a finished
// assessment. Idempotent; safe to call repeatedly.
func (c *Client) FinalResults(ctx context.Context, studentID int) ([]CategoryScore, error) {
	var out resultsResponse
	if err := c.get(ctx, "/tests/result/"+strconv.Itoa(studentID), &out); err != nil {
		return nil, fmt.Errorf("final results: %w", err)
	}
	return out.Results, nil
}

// StageInfo fetches display metadata for a stage. Callers treat failure
// as best-effort: a missing name only degrades the progress label.
func (c *Client) StageInfo(ctx context.Context, testCode string) (TestInfo, error) {
	var out TestInfo
	if err := c.get(ctx, "/tests/info/"+testCode, &out); err != nil {
		return TestInfo{}, fmt.Errorf("stage info: %w", err)
	}
	return out, nil
}
