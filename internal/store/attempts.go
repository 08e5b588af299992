package store

import (
	"context"
	"database/sql"
	"time"
)

// Attempt statuses. An attempt that never reaches finished stays
// "abandoned" if the user exits, or "aborted" on a flow-fatal error.
const (
	AttemptInProgress = "in_progress"
	AttemptFinished   = "finished"
	AttemptAbandoned  = "abandoned"
	AttemptAborted    = "aborted"
)

// Attempt is one locally-recorded assessment run.
type Attempt struct {
	ID                string
	StudentID         int
	SessionID         int
	StartedAt         time.Time
	FinishedAt        *time.Time
	Status            string
	LastStage         string
	QuestionsAnswered int
	StagesCompleted   int
}

// AttemptRepo records attempt lifecycle events for the history screen.
// Best-effort: callers ignore write failures, which never affect the
// assessment flow itself.
type AttemptRepo interface {
	// Begin records a freshly started attempt.
	Begin(ctx context.Context, a Attempt) error

	// RecordAnswer bumps the answered-question count and the last stage.
	RecordAnswer(ctx context.Context, attemptID, stage string) error

	// RecordStageComplete bumps the completed-stage count.
	RecordStageComplete(ctx context.Context, attemptID string) error

	// End marks the attempt's terminal status.
	End(ctx context.Context, attemptID, status string, at time.Time) error

	// Recent returns attempts newest-first, at most limit.
	Recent(ctx context.Context, limit int) ([]Attempt, error)
}

type attemptRepo struct {
	db *sql.DB
}

func (r *attemptRepo) Begin(ctx context.Context, a Attempt) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attempts (id, student_id, session_id, started_at, status, last_stage)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.StudentID, a.SessionID, a.StartedAt.UTC(), AttemptInProgress, a.LastStage)
	return err
}

func (r *attemptRepo) RecordAnswer(ctx context.Context, attemptID, stage string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE attempts
		 SET questions_answered = questions_answered + 1, last_stage = ?
		 WHERE id = ?`, stage, attemptID)
	return err
}

func (r *attemptRepo) RecordStageComplete(ctx context.Context, attemptID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE attempts SET stages_completed = stages_completed + 1 WHERE id = ?`,
		attemptID)
	return err
}

func (r *attemptRepo) End(ctx context.Context, attemptID, status string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE attempts SET status = ?, finished_at = ? WHERE id = ?`,
		status, at.UTC(), attemptID)
	return err
}

func (r *attemptRepo) Recent(ctx context.Context, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, student_id, session_id, started_at, finished_at, status,
		        last_stage, questions_answered, stages_completed
		 FROM attempts ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var a Attempt
		var finished sql.NullTime
		if err := rows.Scan(&a.ID, &a.StudentID, &a.SessionID, &a.StartedAt,
			&finished, &a.Status, &a.LastStage, &a.QuestionsAnswered,
			&a.StagesCompleted); err != nil {
			return nil, err
		}
		if finished.Valid {
			t := finished.Time
			a.FinishedAt = &t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
