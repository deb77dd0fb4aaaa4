//go:build integration

package repository

import (
	"context"
	"fmt"
	"lawhealth/internal/model"
	"lawhealth/internal/testutil/containers"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoAssessmentRepo(t *testing.T) {
	ctx := context.Background()
	db := containers.NewMongoDatabase(t, "lawhealth_test")

	name, err := EnsureIndexes(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "subject_created", name)

	repo := NewAssessmentRepo(db)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := assessment("a0", "alice", base)
	first.Answers = model.Answers{
		"q1": model.TokenAnswer("partial"),
		"q2": model.ChecklistAnswer(map[string]bool{"x": true, "y": false}),
	}
	first.Report.CategoryBreakdown = map[string]model.CategoryScore{
		"employment": {Name: "Employment relations", Score: 1, MaxScore: 3, Percentage: 33},
	}
	require.NoError(t, repo.Create(ctx, first))
	for i := 1; i < 4; i++ {
		require.NoError(t, repo.Create(ctx, assessment(fmt.Sprintf("a%d", i), "alice", base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, repo.Create(ctx, assessment("b0", "bob", base)))

	t.Run("get by id round-trips answers", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "a0", "alice")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, first.Answers, got.Answers)
		assert.Equal(t, 33, got.Report.CategoryBreakdown["employment"].Percentage)
		assert.True(t, base.Equal(got.CreatedAt))
	})

	t.Run("get by id is scoped to subject", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "a0", "bob")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("history is newest first and bounded", func(t *testing.T) {
		history, err := repo.History(ctx, "alice", 2)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "a3", history[0].ID)
		assert.Equal(t, "a2", history[1].ID)
	})

	t.Run("duplicate ids are rejected", func(t *testing.T) {
		assert.Error(t, repo.Create(ctx, assessment("a0", "alice", base)))
	})
}
