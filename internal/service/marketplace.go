// Package service orchestrates the marketplace: applications move through
// the hiring pipeline, chargeable actions go through the billing engine,
// and side effects (search indexing, notifications) hang off the core
// operations without being able to fail them.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"paygo-hire/internal/billing"
	apperrors "paygo-hire/internal/common/errors"
	"paygo-hire/internal/common/logger"
	"paygo-hire/internal/common/metrics"
	"paygo-hire/internal/models"
	"paygo-hire/internal/pipeline"
	"paygo-hire/internal/store"
)

// JobIndex mirrors active jobs into the search index.
type JobIndex interface {
	IndexJob(ctx context.Context, job *models.Job) error
	RemoveJob(ctx context.Context, jobID string) error
}

// Notifier delivers candidate-facing notifications. Implementations must
// treat delivery as best effort; the service logs failures and moves on.
type Notifier interface {
	StatusChanged(ctx context.Context, candidate *models.Candidate, job *models.Job, from, to string) error
	InterviewConfirmed(ctx context.Context, candidate *models.Candidate, job *models.Job, slot time.Time) error
}

// TextGenerator produces text from a prompt. The output is treated as an
// opaque string; nothing downstream branches on its contents.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Deps collects everything a Marketplace needs. Index, Notifier and
// Generator may be nil; the matching features degrade to no-ops.
type Deps struct {
	Applications store.ApplicationRepo
	Jobs         store.JobRepo
	Candidates   store.CandidateRepo
	Engine       *billing.Engine
	Machine      *pipeline.Machine
	Views        ViewCounter
	Index        JobIndex
	Notifier     Notifier
	Generator    TextGenerator
	Logger       logger.Logger
}

type Marketplace struct {
	apps       store.ApplicationRepo
	jobs       store.JobRepo
	candidates store.CandidateRepo
	engine     *billing.Engine
	machine    *pipeline.Machine
	views      ViewCounter
	index      JobIndex
	notifier   Notifier
	generator  TextGenerator
	logger     logger.Logger
	now        func() time.Time
}

func New(deps Deps) *Marketplace {
	return &Marketplace{
		apps:       deps.Applications,
		jobs:       deps.Jobs,
		candidates: deps.Candidates,
		engine:     deps.Engine,
		machine:    deps.Machine,
		views:      deps.Views,
		index:      deps.Index,
		notifier:   deps.Notifier,
		generator:  deps.Generator,
		logger:     deps.Logger.WithFields(map[string]interface{}{"component": "marketplace"}),
		now:        time.Now,
	}
}

// WithClock overrides the time source for tests.
func (m *Marketplace) WithClock(now func() time.Time) *Marketplace {
	m.now = now
	return m
}

// ApplyInput is a candidate's submission to a job.
type ApplyInput struct {
	JobID          string
	CandidateID    string
	ResumeText     string
	ResumeFileName string
}

// ApplyForJob creates a new application in Applied status. A candidate may
// hold at most one non-withdrawn application per job; a withdrawn one does
// not block reapplying.
func (m *Marketplace) ApplyForJob(ctx context.Context, input ApplyInput) (*models.Application, error) {
	job, err := m.jobs.Get(ctx, input.JobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusActive {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("job %s is not accepting applications", job.ID))
	}
	if _, err := m.candidates.Get(ctx, input.CandidateID); err != nil {
		return nil, err
	}

	exists, err := m.apps.HasActive(ctx, input.JobID, input.CandidateID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewDuplicateApplicationError(input.JobID, input.CandidateID)
	}

	now := m.now().UTC()
	app := &models.Application{
		ID:             uuid.New().String(),
		JobID:          input.JobID,
		CandidateID:    input.CandidateID,
		Status:         string(pipeline.StatusApplied),
		AppliedDate:    now,
		ResumeText:     input.ResumeText,
		ResumeFileName: input.ResumeFileName,
		UpdatedAt:      now,
	}
	if err := m.apps.Create(ctx, app); err != nil {
		return nil, err
	}

	metrics.ApplicationsSubmitted.Inc()
	m.logger.Info("application submitted", map[string]interface{}{
		"applicationId": app.ID,
		"jobId":         app.JobID,
		"candidateId":   app.CandidateID,
	})
	return app, nil
}

// AdvanceApplication moves an application to target. Reaching Hired also
// charges the successful-hire fee; the charge and the transition succeed or
// fail together from the caller's point of view, with the transition
// applied first.
func (m *Marketplace) AdvanceApplication(ctx context.Context, id, target string) (*models.Application, error) {
	targetStatus, err := pipeline.ParseStatus(target)
	if err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}

	app, err := m.apps.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := app.Status

	if err := m.machine.Advance(app, targetStatus); err != nil {
		return nil, err
	}
	app.UpdatedAt = m.now().UTC()
	if err := m.apps.Update(ctx, app); err != nil {
		return nil, err
	}
	metrics.StatusTransitionsTotal.WithLabelValues(string(targetStatus)).Inc()

	candidate, job := m.lookupParties(ctx, app)

	if pipeline.IsHired(targetStatus) {
		desc := fmt.Sprintf("Successful Hire: %s for %s", partyName(candidate), jobTitle(job))
		if _, err := m.engine.ChargeService(ctx, billing.ServiceSuccessfulHire, desc); err != nil {
			m.logger.WithError(err).Error("successful hire fee charge failed", map[string]interface{}{
				"applicationId": app.ID,
			})
			return nil, err
		}
	}

	m.notifyStatusChanged(ctx, candidate, job, from, app.Status)

	m.logger.Info("application advanced", map[string]interface{}{
		"applicationId": app.ID,
		"from":          from,
		"to":            app.Status,
	})
	return app, nil
}

// WithdrawApplication moves an application to Withdrawn. Withdrawing an
// already withdrawn application succeeds and changes nothing.
func (m *Marketplace) WithdrawApplication(ctx context.Context, id string) (*models.Application, error) {
	app, err := m.apps.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := app.Status

	if err := m.machine.Withdraw(app); err != nil {
		return nil, err
	}
	if app.Status == from {
		return app, nil
	}

	app.UpdatedAt = m.now().UTC()
	if err := m.apps.Update(ctx, app); err != nil {
		return nil, err
	}
	metrics.StatusTransitionsTotal.WithLabelValues(app.Status).Inc()

	candidate, job := m.lookupParties(ctx, app)
	m.notifyStatusChanged(ctx, candidate, job, from, app.Status)
	return app, nil
}

// AddNote appends a hiring manager note. Notes are never edited or removed.
func (m *Marketplace) AddNote(ctx context.Context, id, authorID, authorName, text string) (*models.Application, error) {
	if text == "" {
		return nil, apperrors.NewValidationFailedError("note text must not be empty")
	}
	app, err := m.apps.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	app.Notes = append(app.Notes, models.Note{
		ID:         uuid.New().String(),
		AuthorID:   authorID,
		AuthorName: authorName,
		Text:       text,
		Timestamp:  m.now().UTC(),
	})
	app.UpdatedAt = m.now().UTC()
	if err := m.apps.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// ScheduleInterview proposes interview slots to the candidate and charges
// the video interview service.
func (m *Marketplace) ScheduleInterview(ctx context.Context, id string, slots []time.Time) (*models.Application, error) {
	if len(slots) == 0 {
		return nil, apperrors.NewValidationFailedError("at least one interview slot is required")
	}
	app, err := m.apps.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !pipeline.IsActive(app) {
		return nil, apperrors.NewValidationFailedError("cannot schedule an interview on a withdrawn application")
	}

	app.InterviewSchedule = &models.InterviewSchedule{
		Status:        models.ScheduleStatusPending,
		ProposedSlots: slots,
	}
	app.UpdatedAt = m.now().UTC()
	if err := m.apps.Update(ctx, app); err != nil {
		return nil, err
	}

	candidate, _ := m.lookupParties(ctx, app)
	desc := fmt.Sprintf("Video interview for %s", partyName(candidate))
	if _, err := m.engine.ChargeService(ctx, billing.ServiceVideoInterview, desc); err != nil {
		return nil, err
	}
	return app, nil
}

// ConfirmInterviewSlot books one of the previously proposed slots.
func (m *Marketplace) ConfirmInterviewSlot(ctx context.Context, id string, slot time.Time) (*models.Application, error) {
	app, err := m.apps.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.InterviewSchedule == nil {
		return nil, apperrors.NewSlotNotProposedError(slot.Format(time.RFC3339))
	}

	proposed := false
	for _, s := range app.InterviewSchedule.ProposedSlots {
		if s.Equal(slot) {
			proposed = true
			break
		}
	}
	if !proposed {
		return nil, apperrors.NewSlotNotProposedError(slot.Format(time.RFC3339))
	}

	confirmed := slot
	app.InterviewSchedule.ConfirmedSlot = &confirmed
	app.InterviewSchedule.Status = models.ScheduleStatusBooked
	app.UpdatedAt = m.now().UTC()
	if err := m.apps.Update(ctx, app); err != nil {
		return nil, err
	}

	candidate, job := m.lookupParties(ctx, app)
	if m.notifier != nil && candidate != nil && job != nil {
		if err := m.notifier.InterviewConfirmed(ctx, candidate, job, slot); err != nil {
			m.logger.WithError(err).Warn("interview confirmation notification failed", map[string]interface{}{
				"applicationId": app.ID,
			})
		}
	}
	return app, nil
}

// AssignAssessment sends a skill assessment to the candidate and charges
// the assessment service.
func (m *Marketplace) AssignAssessment(ctx context.Context, id string, questions []models.SkillAssessmentQuestion) (*models.Application, error) {
	if len(questions) == 0 {
		return nil, apperrors.NewValidationFailedError("assessment needs at least one question")
	}
	for i, q := range questions {
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("question %d has an out of range answer index", i))
		}
	}

	app, err := m.apps.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !pipeline.IsActive(app) {
		return nil, apperrors.NewValidationFailedError("cannot assess a withdrawn application")
	}

	app.SkillAssessment = &models.SkillAssessment{
		Questions: questions,
		Status:    models.AssessmentStatusPending,
	}
	app.UpdatedAt = m.now().UTC()
	if err := m.apps.Update(ctx, app); err != nil {
		return nil, err
	}

	candidate, _ := m.lookupParties(ctx, app)
	desc := fmt.Sprintf("Skill assessment for %s", partyName(candidate))
	if _, err := m.engine.ChargeService(ctx, billing.ServiceSkillAssessment, desc); err != nil {
		return nil, err
	}
	return app, nil
}

// SubmitAssessment records the candidate's answers and scores them as the
// fraction of correct answers.
func (m *Marketplace) SubmitAssessment(ctx context.Context, id string, answers []int) (*models.Application, error) {
	app, err := m.apps.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.SkillAssessment == nil {
		return nil, apperrors.NewValidationFailedError("no assessment assigned to this application")
	}
	if app.SkillAssessment.Status == models.AssessmentStatusCompleted {
		return nil, apperrors.NewValidationFailedError("assessment already completed")
	}
	if len(answers) != len(app.SkillAssessment.Questions) {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf(
			"expected %d answers, got %d", len(app.SkillAssessment.Questions), len(answers)))
	}

	correct := 0
	for i, q := range app.SkillAssessment.Questions {
		if answers[i] == q.CorrectAnswerIndex {
			correct++
		}
	}
	score := float64(correct) / float64(len(answers))

	app.SkillAssessment.Answers = answers
	app.SkillAssessment.Score = &score
	app.SkillAssessment.Status = models.AssessmentStatusCompleted
	app.UpdatedAt = m.now().UTC()
	if err := m.apps.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// RecordResumeView bumps the view counter for an application's resume and
// folds the new total back into the stored record.
func (m *Marketplace) RecordResumeView(ctx context.Context, id string) (int64, error) {
	app, err := m.apps.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	count, err := m.views.Increment(ctx, id)
	if err != nil {
		return 0, err
	}
	if count > app.ResumeViews {
		app.ResumeViews = count
		if err := m.apps.Update(ctx, app); err != nil {
			return 0, err
		}
	}
	return count, nil
}

// PostJob creates a job posting. Publishing an active job charges the
// posting fee and pushes the job into the search index; drafts cost nothing
// until activated.
func (m *Marketplace) PostJob(ctx context.Context, job *models.Job) (*models.Job, error) {
	if job.Title == "" {
		return nil, apperrors.NewValidationFailedError("job title must not be empty")
	}
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = models.JobStatusDraft
	}
	job.CreatedAt = m.now().UTC()

	if err := m.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	if job.Status == models.JobStatusActive {
		if err := m.chargeJobPost(ctx, job); err != nil {
			return nil, err
		}
		m.indexJob(ctx, job)
	}
	return job, nil
}

// UpdateJob saves edits to a job. Activating a draft charges the posting
// fee; closing a job removes it from the search index.
func (m *Marketplace) UpdateJob(ctx context.Context, job *models.Job) (*models.Job, error) {
	current, err := m.jobs.Get(ctx, job.ID)
	if err != nil {
		return nil, err
	}

	wasActive := current.Status == models.JobStatusActive
	job.CreatedAt = current.CreatedAt
	if err := m.jobs.Update(ctx, job); err != nil {
		return nil, err
	}

	switch {
	case !wasActive && job.Status == models.JobStatusActive:
		if err := m.chargeJobPost(ctx, job); err != nil {
			return nil, err
		}
		m.indexJob(ctx, job)
	case wasActive && job.Status != models.JobStatusActive:
		m.removeJob(ctx, job.ID)
	case job.Status == models.JobStatusActive:
		m.indexJob(ctx, job)
	}
	return job, nil
}

// OrderService purchases any catalog service directly.
func (m *Marketplace) OrderService(ctx context.Context, kind billing.ServiceKind, description string) (*models.BillingItem, error) {
	return m.engine.ChargeService(ctx, kind, description)
}

// GenerateJobDescription drafts a posting description for a title.
func (m *Marketplace) GenerateJobDescription(ctx context.Context, title string) (string, error) {
	if title == "" {
		return "", apperrors.NewValidationFailedError("job title must not be empty")
	}
	if m.generator == nil {
		return "", apperrors.NewTextGenerationFailedError(fmt.Errorf("text generation is not configured"))
	}
	prompt := fmt.Sprintf(
		"Write a concise, appealing job description for a %q position. Include responsibilities and requirements sections.", title)
	return m.generator.GenerateText(ctx, prompt)
}

// ScreenCandidate buys an AI screening for a candidate and stores the
// resulting summary on their profile.
func (m *Marketplace) ScreenCandidate(ctx context.Context, candidateID string) (*models.Candidate, error) {
	candidate, err := m.candidates.Get(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if m.generator == nil {
		return nil, apperrors.NewTextGenerationFailedError(fmt.Errorf("text generation is not configured"))
	}

	desc := fmt.Sprintf("AI Screening for %s", candidate.Name)
	if _, err := m.engine.ChargeService(ctx, billing.ServiceAIScreening, desc); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"Summarize this candidate for a hiring manager in 3 sentences. Title: %s. Profile: %s. Resume: %s",
		candidate.Title, candidate.Summary, candidate.ResumeText)
	summary, err := m.generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	candidate.AIScreeningResult = summary
	if err := m.candidates.Put(ctx, candidate); err != nil {
		return nil, err
	}
	return candidate, nil
}

// PipelineCounts groups a job's applications by status.
func (m *Marketplace) PipelineCounts(ctx context.Context, jobID string) (map[string]int, error) {
	apps, err := m.apps.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for i := range apps {
		counts[apps[i].Status]++
	}
	return counts, nil
}

// DashboardSummary is the hiring manager's spend overview.
type DashboardSummary struct {
	TotalSpend         billing.Amount                         `json:"totalSpendCents"`
	SpendByService     map[billing.ServiceKind]billing.Amount `json:"spendByServiceCents"`
	CostPerHire        billing.Amount                         `json:"costPerHireCents"`
	HireCount          int                                    `json:"hireCount"`
	ActiveApplications int                                    `json:"activeApplications"`
	DiscountActive     bool                                   `json:"discountActive"`
	DiscountEndDate    *time.Time                             `json:"discountEndDate,omitempty"`
}

// Dashboard aggregates spend and pipeline state in one pass over the data.
func (m *Marketplace) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	apps, err := m.apps.List(ctx)
	if err != nil {
		return nil, err
	}
	hired, active := 0, 0
	for i := range apps {
		switch apps[i].Status {
		case string(pipeline.StatusHired):
			hired++
		case string(pipeline.StatusWithdrawn):
		default:
			active++
		}
	}

	total, err := m.engine.TotalSpend(ctx)
	if err != nil {
		return nil, err
	}
	byService, err := m.engine.SpendByService(ctx)
	if err != nil {
		return nil, err
	}
	costPerHire, err := m.engine.CostPerHire(ctx, hired)
	if err != nil {
		return nil, err
	}
	discountActive, err := m.engine.IsDiscountActive(ctx)
	if err != nil {
		return nil, err
	}
	discountEnd, err := m.engine.DiscountEndDate(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		TotalSpend:         total,
		SpendByService:     byService,
		CostPerHire:        costPerHire,
		HireCount:          hired,
		ActiveApplications: active,
		DiscountActive:     discountActive,
		DiscountEndDate:    discountEnd,
	}, nil
}

func (m *Marketplace) chargeJobPost(ctx context.Context, job *models.Job) error {
	desc := fmt.Sprintf("Job Post: %s", job.Title)
	_, err := m.engine.ChargeService(ctx, billing.ServiceJobPost, desc)
	return err
}

func (m *Marketplace) indexJob(ctx context.Context, job *models.Job) {
	if m.index == nil {
		return
	}
	if err := m.index.IndexJob(ctx, job); err != nil {
		m.logger.WithError(err).Warn("job indexing failed", map[string]interface{}{"jobId": job.ID})
	}
}

func (m *Marketplace) removeJob(ctx context.Context, jobID string) {
	if m.index == nil {
		return
	}
	if err := m.index.RemoveJob(ctx, jobID); err != nil {
		m.logger.WithError(err).Warn("job removal from index failed", map[string]interface{}{"jobId": jobID})
	}
}

// lookupParties fetches the candidate and job for notification and billing
// descriptions. Lookup failures are logged and return nils; core operations
// never depend on them.
func (m *Marketplace) lookupParties(ctx context.Context, app *models.Application) (*models.Candidate, *models.Job) {
	candidate, err := m.candidates.Get(ctx, app.CandidateID)
	if err != nil {
		m.logger.WithError(err).Warn("candidate lookup failed", map[string]interface{}{"candidateId": app.CandidateID})
		candidate = nil
	}
	job, err := m.jobs.Get(ctx, app.JobID)
	if err != nil {
		m.logger.WithError(err).Warn("job lookup failed", map[string]interface{}{"jobId": app.JobID})
		job = nil
	}
	return candidate, job
}

func (m *Marketplace) notifyStatusChanged(ctx context.Context, candidate *models.Candidate, job *models.Job, from, to string) {
	if m.notifier == nil || candidate == nil || job == nil {
		return
	}
	if err := m.notifier.StatusChanged(ctx, candidate, job, from, to); err != nil {
		m.logger.WithError(err).Warn("status change notification failed", map[string]interface{}{
			"candidateId": candidate.ID,
			"jobId":       job.ID,
		})
	}
}

func partyName(c *models.Candidate) string {
	if c == nil {
		return "candidate"
	}
	return c.Name
}

func jobTitle(j *models.Job) string {
	if j == nil {
		return "position"
	}
	return j.Title
}
