package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "paygo-hire/internal/common/errors"
	"paygo-hire/internal/models"
)

func TestMemoryApplications(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	repo := mem.Applications()

	app := &models.Application{
		ID:          "app-1",
		JobID:       "job-1",
		CandidateID: "cand-1",
		Status:      "Applied",
		AppliedDate: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, app))

	got, err := repo.Get(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, "Applied", got.Status)

	got.Status = "Screening"
	require.NoError(t, repo.Update(ctx, got))

	// The stored copy changed, the caller's copy is independent.
	again, err := repo.Get(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, "Screening", again.Status)
	again.Status = "Offer"
	unchanged, err := repo.Get(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, "Screening", unchanged.Status)

	_, err = repo.Get(ctx, "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	err = repo.Update(ctx, &models.Application{ID: "missing"})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestMemoryHasActiveIgnoresWithdrawn(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	repo := mem.Applications()

	require.NoError(t, repo.Create(ctx, &models.Application{
		ID: "app-1", JobID: "job-1", CandidateID: "cand-1", Status: "Withdrawn",
	}))

	active, err := repo.HasActive(ctx, "job-1", "cand-1")
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, repo.Create(ctx, &models.Application{
		ID: "app-2", JobID: "job-1", CandidateID: "cand-1", Status: "Applied",
	}))

	active, err = repo.HasActive(ctx, "job-1", "cand-1")
	require.NoError(t, err)
	assert.True(t, active)
}

func TestMemoryListByJobOrdersNewestFirst(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	repo := mem.Applications()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, repo.Create(ctx, &models.Application{
			ID: id, JobID: "job-1", CandidateID: "cand-" + id,
			Status: "Applied", AppliedDate: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, repo.Create(ctx, &models.Application{
		ID: "other", JobID: "job-2", CandidateID: "cand-x", Status: "Applied",
	}))

	apps, err := repo.ListByJob(ctx, "job-1")
	require.NoError(t, err)
	require.Len(t, apps, 3)
	assert.Equal(t, "new", apps[0].ID)
	assert.Equal(t, "old", apps[2].ID)
}

func TestMemoryLedgerAppendOnly(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	ledger := mem.Ledger()

	require.NoError(t, ledger.Append(ctx, &models.BillingItem{ID: "b-1", AmountCents: 500}))
	require.NoError(t, ledger.Append(ctx, &models.BillingItem{ID: "b-2", AmountCents: 250}))

	items, err := ledger.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Mutating the returned slice does not reach the stored ledger.
	items[0].AmountCents = 0
	again, err := ledger.List(ctx)
	require.NoError(t, err)
	total := again[0].AmountCents + again[1].AmountCents
	assert.Equal(t, int64(750), total)
}

func TestMemoryDiscountFirstStartWins(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	disc := mem.Discount()

	_, ok, err := disc.Start(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	start, err := disc.RecordStart(ctx, t0)
	require.NoError(t, err)
	assert.Equal(t, t0, start)

	start, err = disc.RecordStart(ctx, t0.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, t0, start)

	got, ok, err := disc.Start(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, t0, got)
}
