package services

import (
	"context"
	"testing"

	"github.com/justsurfingit/job-application-tracker/internal/dtos"
	"github.com/justsurfingit/job-application-tracker/internal/models"
	"github.com/justsurfingit/job-application-tracker/internal/repository/memrepo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

// seedProblems loads a small catalog and returns the problem ids by title.
func seedProblems(t *testing.T, store *memrepo.Store) map[string]string {
	t.Helper()
	ctx := context.Background()
	_, err := store.Problems.SeedCatalog(ctx, []models.LeetCodeProblem{
		{Title: "Two Sum", Difficulty: models.DifficultyEasy, Category: "Arrays & Hashing", Link: "https://leetcode.com/problems/two-sum/"},
		{Title: "Merge Intervals", Difficulty: models.DifficultyMedium, Category: "Intervals", Link: "https://leetcode.com/problems/merge-intervals/"},
		{Title: "Alien Dictionary", Difficulty: models.DifficultyHard, Category: "Advanced Graphs", Link: "https://leetcode.com/problems/alien-dictionary/"},
	})
	require.NoError(t, err)

	rows, err := store.Problems.ListWithProgress(ctx, "nobody")
	require.NoError(t, err)
	ids := map[string]string{}
	for _, r := range rows {
		ids[r.Title] = r.ID
	}
	return ids
}

func TestTechPrepService_ListProblems(t *testing.T) {
	ctx := context.Background()
	store := memrepo.New()
	svc := NewTechPrepService(store.Problems)
	ids := seedProblems(t, store)
	ada := createUser(t, store, "ada@example.com")
	bob := createUser(t, store, "bob@example.com")

	_, err := svc.UpdateProgress(ctx, ada, &dtos.ProgressRequest{ProblemID: ids["Two Sum"], Solved: boolPtr(true)})
	require.NoError(t, err)

	rows, err := svc.ListProblems(ctx, ada)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Alien Dictionary", rows[0].Title)
	assert.Equal(t, "Merge Intervals", rows[1].Title)
	assert.Equal(t, "Two Sum", rows[2].Title)
	assert.True(t, rows[2].Solved)
	assert.False(t, rows[2].Bookmarked)

	rows, err = svc.ListProblems(ctx, bob)
	require.NoError(t, err)
	for _, r := range rows {
		assert.False(t, r.Solved, r.Title)
		assert.False(t, r.Bookmarked, r.Title)
	}
}

func TestTechPrepService_UpdateProgress(t *testing.T) {
	ctx := context.Background()
	store := memrepo.New()
	svc := NewTechPrepService(store.Problems)
	ids := seedProblems(t, store)
	ada := createUser(t, store, "ada@example.com")
	twoSum := ids["Two Sum"]

	t.Run("creates then patches one flag at a time", func(t *testing.T) {
		p, err := svc.UpdateProgress(ctx, ada, &dtos.ProgressRequest{ProblemID: twoSum, Bookmarked: boolPtr(true)})
		require.NoError(t, err)
		assert.True(t, p.Bookmarked)
		assert.False(t, p.Solved)
		firstID := p.ID

		p, err = svc.UpdateProgress(ctx, ada, &dtos.ProgressRequest{ProblemID: twoSum, Solved: boolPtr(true)})
		require.NoError(t, err)
		assert.Equal(t, firstID, p.ID, "same row is updated")
		assert.True(t, p.Solved)
		assert.True(t, p.Bookmarked, "omitted flag is kept")

		p, err = svc.UpdateProgress(ctx, ada, &dtos.ProgressRequest{ProblemID: twoSum, Bookmarked: boolPtr(false)})
		require.NoError(t, err)
		assert.True(t, p.Solved)
		assert.False(t, p.Bookmarked)
	})

	t.Run("repeating a request is idempotent", func(t *testing.T) {
		req := &dtos.ProgressRequest{ProblemID: ids["Merge Intervals"], Solved: boolPtr(true)}
		first, err := svc.UpdateProgress(ctx, ada, req)
		require.NoError(t, err)
		second, err := svc.UpdateProgress(ctx, ada, req)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.Solved, second.Solved)
		assert.Equal(t, first.Bookmarked, second.Bookmarked)

		_, progress := store.Counts(ada.ID)
		assert.Equal(t, 2, progress)
	})

	tests := []struct {
		name    string
		req     *dtos.ProgressRequest
		wantErr error
	}{
		{name: "missing problem id", req: &dtos.ProgressRequest{Solved: boolPtr(true)}, wantErr: ErrValidation},
		{name: "no flags", req: &dtos.ProgressRequest{ProblemID: twoSum}, wantErr: ErrValidation},
		{name: "unknown problem", req: &dtos.ProgressRequest{ProblemID: "nope", Solved: boolPtr(true)}, wantErr: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateProgress(ctx, ada, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
