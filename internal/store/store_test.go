package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "compass.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestCredentialRoundTrip(t *testing.T) {
	st := openTestStore(t)
	repo := st.CredentialRepo()
	ctx := context.Background()

	_, _, err := repo.Load(ctx)
	assert.ErrorIs(t, err, ErrNoCredentials)

	require.NoError(t, repo.Save(ctx, "tok-1", `{"id":1,"phone":"555"}`))

	token, userJSON, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, `{"id":1,"phone":"555"}`, userJSON)

	// Second save replaces the first login.
	require.NoError(t, repo.Save(ctx, "tok-2", `{"id":2}`))
	token, _, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)
}

func TestCredentialClear(t *testing.T) {
	st := openTestStore(t)
	repo := st.CredentialRepo()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "tok", `{}`))
	require.NoError(t, repo.Clear(ctx))

	_, _, err := repo.Load(ctx)
	assert.ErrorIs(t, err, ErrNoCredentials)

	// Clearing again is a no-op, not an error.
	require.NoError(t, repo.Clear(ctx))
}

func TestAttemptLifecycle(t *testing.T) {
	st := openTestStore(t)
	repo := st.AttemptRepo()
	ctx := context.Background()
	started := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Begin(ctx, Attempt{
		ID:        "attempt-1",
		StudentID: 1,
		SessionID: 500,
		StartedAt: started,
		LastStage: "RIASEC",
	}))

	require.NoError(t, repo.RecordAnswer(ctx, "attempt-1", "RIASEC"))
	require.NoError(t, repo.RecordAnswer(ctx, "attempt-1", "RIASEC"))
	require.NoError(t, repo.RecordStageComplete(ctx, "attempt-1"))
	require.NoError(t, repo.RecordAnswer(ctx, "attempt-1", "APTITUDE"))

	finished := started.Add(20 * time.Minute)
	require.NoError(t, repo.End(ctx, "attempt-1", AttemptFinished, finished))

	attempts, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, attempts, 1)

	a := attempts[0]
	assert.Equal(t, AttemptFinished, a.Status)
	assert.Equal(t, 3, a.QuestionsAnswered)
	assert.Equal(t, 1, a.StagesCompleted)
	assert.Equal(t, "APTITUDE", a.LastStage)
	require.NotNil(t, a.FinishedAt)
	assert.True(t, a.FinishedAt.Equal(finished))
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	st := openTestStore(t)
	repo := st.AttemptRepo()
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Begin(ctx, Attempt{
			ID:        id,
			StudentID: 1,
			SessionID: 100 + i,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	attempts, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, "c", attempts[0].ID)
	assert.Equal(t, "b", attempts[1].ID)
}
