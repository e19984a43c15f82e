// Package store defines the repository contracts for the marketplace and
// provides PostgreSQL and in-memory implementations. Repositories are
// explicit objects constructed once at startup and injected into services;
// there is no package-level state.
package store

import (
	"context"
	"time"

	"paygo-hire/internal/models"
)

// ApplicationRepo persists candidate applications.
type ApplicationRepo interface {
	Create(ctx context.Context, app *models.Application) error
	Get(ctx context.Context, id string) (*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
	List(ctx context.Context) ([]models.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]models.Application, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]models.Application, error)
	// HasActive reports whether a non-withdrawn application exists for the
	// (job, candidate) pair. Withdrawn applications do not block reapplication.
	HasActive(ctx context.Context, jobID, candidateID string) (bool, error)
}

// JobRepo persists job postings.
type JobRepo interface {
	Create(ctx context.Context, job *models.Job) error
	Get(ctx context.Context, id string) (*models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	List(ctx context.Context) ([]models.Job, error)
}

// CandidateRepo persists candidate profiles.
type CandidateRepo interface {
	Put(ctx context.Context, c *models.Candidate) error
	Get(ctx context.Context, id string) (*models.Candidate, error)
	List(ctx context.Context) ([]models.Candidate, error)
}

// LedgerRepo is the append-only billing ledger. There is no update or
// delete: corrections would be modeled as compensating entries.
type LedgerRepo interface {
	Append(ctx context.Context, item *models.BillingItem) error
	List(ctx context.Context) ([]models.BillingItem, error)
}

// DiscountRepo persists the new-account discount window start. The start is
// written once on the first chargeable action and never overwritten.
type DiscountRepo interface {
	// Start returns the recorded window start, or ok=false when no charge
	// has ever been made.
	Start(ctx context.Context) (start time.Time, ok bool, err error)
	// RecordStart records t as the window start if none is recorded yet and
	// returns the effective start (the previously recorded one wins).
	RecordStart(ctx context.Context, t time.Time) (time.Time, error)
}
