package store

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "paygo-hire/internal/common/errors"
	"paygo-hire/internal/models"
)

// Memory is an in-process implementation of every repository, used by tests
// and the seeded demo mode. All methods are safe for concurrent use.
type Memory struct {
	mu            sync.RWMutex
	applications  map[string]models.Application
	jobs          map[string]models.Job
	candidates    map[string]models.Candidate
	ledger        []models.BillingItem
	discountStart *time.Time
}

func NewMemory() *Memory {
	return &Memory{
		applications: make(map[string]models.Application),
		jobs:         make(map[string]models.Job),
		candidates:   make(map[string]models.Candidate),
	}
}

// Applications / Jobs / Candidates / Ledger / Discount expose the Memory
// store under each repository interface.
func (m *Memory) Applications() ApplicationRepo { return (*memApplications)(m) }
func (m *Memory) Jobs() JobRepo                 { return (*memJobs)(m) }
func (m *Memory) Candidates() CandidateRepo     { return (*memCandidates)(m) }
func (m *Memory) Ledger() LedgerRepo            { return (*memLedger)(m) }
func (m *Memory) Discount() DiscountRepo        { return (*memDiscount)(m) }

type memApplications Memory

func (m *memApplications) Create(_ context.Context, app *models.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applications[app.ID] = *app
	return nil
}

func (m *memApplications) Get(_ context.Context, id string) (*models.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	app, ok := m.applications[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("application", id)
	}
	out := app
	return &out, nil
}

func (m *memApplications) Update(_ context.Context, app *models.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.applications[app.ID]; !ok {
		return apperrors.NewNotFoundError("application", app.ID)
	}
	m.applications[app.ID] = *app
	return nil
}

func (m *memApplications) List(_ context.Context) ([]models.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(models.Application) bool { return true }), nil
}

func (m *memApplications) ListByJob(_ context.Context, jobID string) ([]models.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(a models.Application) bool { return a.JobID == jobID }), nil
}

func (m *memApplications) ListByCandidate(_ context.Context, candidateID string) ([]models.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(a models.Application) bool { return a.CandidateID == candidateID }), nil
}

func (m *memApplications) HasActive(_ context.Context, jobID, candidateID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.applications {
		if a.JobID == jobID && a.CandidateID == candidateID && a.Status != "Withdrawn" {
			return true, nil
		}
	}
	return false, nil
}

// collect copies matching applications, newest first. Callers hold the lock.
func (m *memApplications) collect(match func(models.Application) bool) []models.Application {
	out := make([]models.Application, 0, len(m.applications))
	for _, a := range m.applications {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedDate.After(out[j].AppliedDate) })
	return out
}

type memJobs Memory

func (m *memJobs) Create(_ context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = *job
	return nil
}

func (m *memJobs) Get(_ context.Context, id string) (*models.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("job", id)
	}
	out := job
	return &out, nil
}

func (m *memJobs) Update(_ context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.ID]; !ok {
		return apperrors.NewNotFoundError("job", job.ID)
	}
	m.jobs[job.ID] = *job
	return nil
}

func (m *memJobs) List(_ context.Context) ([]models.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memCandidates Memory

func (m *memCandidates) Put(_ context.Context, c *models.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidates[c.ID] = *c
	return nil
}

func (m *memCandidates) Get(_ context.Context, id string) (*models.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.candidates[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("candidate", id)
	}
	out := c
	return &out, nil
}

func (m *memCandidates) List(_ context.Context) ([]models.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Candidate, 0, len(m.candidates))
	for _, c := range m.candidates {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memLedger Memory

func (m *memLedger) Append(_ context.Context, item *models.BillingItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledger = append(m.ledger, *item)
	return nil
}

func (m *memLedger) List(_ context.Context) ([]models.BillingItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.BillingItem, len(m.ledger))
	copy(out, m.ledger)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

type memDiscount Memory

func (m *memDiscount) Start(_ context.Context) (time.Time, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.discountStart == nil {
		return time.Time{}, false, nil
	}
	return *m.discountStart, true, nil
}

func (m *memDiscount) RecordStart(_ context.Context, t time.Time) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.discountStart != nil {
		return *m.discountStart, nil
	}
	start := t
	m.discountStart = &start
	return start, nil
}
