package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "paygo-hire/internal/common/errors"
	"paygo-hire/internal/models"
)

// Postgres implements every repository on top of a shared *sql.DB.
// Application sub-documents (notes, interview schedule, skill assessment)
// live in JSONB columns; the hot filter columns are relational.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Applications() ApplicationRepo { return &pgApplications{db: p.db} }
func (p *Postgres) Jobs() JobRepo                 { return &pgJobs{db: p.db} }
func (p *Postgres) Candidates() CandidateRepo     { return &pgCandidates{db: p.db} }
func (p *Postgres) Ledger() LedgerRepo            { return &pgLedger{db: p.db} }
func (p *Postgres) Discount() DiscountRepo        { return &pgDiscount{db: p.db} }

type pgApplications struct {
	db *sql.DB
}

const applicationColumns = `id, job_id, candidate_id, status, applied_date,
	resume_text, resume_file_name, resume_views, notes, interview_schedule,
	skill_assessment, updated_at`

func (r *pgApplications) Create(ctx context.Context, app *models.Application) error {
	notes, schedule, assessment, err := marshalApplicationDocs(app)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO applications (
			id, job_id, candidate_id, status, applied_date,
			resume_text, resume_file_name, resume_views, notes,
			interview_schedule, skill_assessment, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		app.ID, app.JobID, app.CandidateID, app.Status, app.AppliedDate,
		app.ResumeText, app.ResumeFileName, app.ResumeViews, notes,
		schedule, assessment, app.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("insert application", err)
	}
	return nil
}

func (r *pgApplications) Get(ctx context.Context, id string) (*models.Application, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)

	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("application", id)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("get application", err)
	}
	return app, nil
}

func (r *pgApplications) Update(ctx context.Context, app *models.Application) error {
	notes, schedule, assessment, err := marshalApplicationDocs(app)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE applications SET
			status = $2, resume_text = $3, resume_file_name = $4,
			resume_views = $5, notes = $6, interview_schedule = $7,
			skill_assessment = $8, updated_at = $9
		WHERE id = $1`,
		app.ID, app.Status, app.ResumeText, app.ResumeFileName,
		app.ResumeViews, notes, schedule, assessment, app.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("update application", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("update application", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError("application", app.ID)
	}
	return nil
}

func (r *pgApplications) List(ctx context.Context) ([]models.Application, error) {
	return r.query(ctx,
		`SELECT `+applicationColumns+` FROM applications ORDER BY applied_date DESC`)
}

func (r *pgApplications) ListByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	return r.query(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 ORDER BY applied_date DESC`,
		jobID)
}

func (r *pgApplications) ListByCandidate(ctx context.Context, candidateID string) ([]models.Application, error) {
	return r.query(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE candidate_id = $1 ORDER BY applied_date DESC`,
		candidateID)
}

func (r *pgApplications) HasActive(ctx context.Context, jobID, candidateID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM applications
			WHERE job_id = $1 AND candidate_id = $2 AND status <> 'Withdrawn'
		)`, jobID, candidateID).Scan(&exists)
	if err != nil {
		return false, apperrors.NewQueryExecutionFailedError("duplicate check failed", err)
	}
	return exists, nil
}

func (r *pgApplications) query(ctx context.Context, q string, args ...interface{}) ([]models.Application, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list applications", err)
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan application", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list applications", err)
	}
	return apps, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var (
		app        models.Application
		notes      []byte
		schedule   []byte
		assessment []byte
	)
	err := row.Scan(
		&app.ID, &app.JobID, &app.CandidateID, &app.Status, &app.AppliedDate,
		&app.ResumeText, &app.ResumeFileName, &app.ResumeViews, &notes,
		&schedule, &assessment, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(notes) > 0 {
		if err := json.Unmarshal(notes, &app.Notes); err != nil {
			return nil, fmt.Errorf("unmarshal notes: %w", err)
		}
	}
	if len(schedule) > 0 {
		if err := json.Unmarshal(schedule, &app.InterviewSchedule); err != nil {
			return nil, fmt.Errorf("unmarshal interview schedule: %w", err)
		}
	}
	if len(assessment) > 0 {
		if err := json.Unmarshal(assessment, &app.SkillAssessment); err != nil {
			return nil, fmt.Errorf("unmarshal skill assessment: %w", err)
		}
	}
	return &app, nil
}

// marshalApplicationDocs serializes the JSONB sub-documents. Nil documents
// become SQL NULL rather than the JSON literal null.
func marshalApplicationDocs(app *models.Application) (notes, schedule, assessment []byte, err error) {
	if app.Notes != nil {
		if notes, err = json.Marshal(app.Notes); err != nil {
			return nil, nil, nil, fmt.Errorf("marshal notes: %w", err)
		}
	}
	if app.InterviewSchedule != nil {
		if schedule, err = json.Marshal(app.InterviewSchedule); err != nil {
			return nil, nil, nil, fmt.Errorf("marshal interview schedule: %w", err)
		}
	}
	if app.SkillAssessment != nil {
		if assessment, err = json.Marshal(app.SkillAssessment); err != nil {
			return nil, nil, nil, fmt.Errorf("marshal skill assessment: %w", err)
		}
	}
	return notes, schedule, assessment, nil
}

type pgJobs struct {
	db *sql.DB
}

func (r *pgJobs) Create(ctx context.Context, job *models.Job) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO jobs (id, title, location, salary, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		job.ID, job.Title, job.Location, job.Salary, job.Description, job.Status, job.CreatedAt,
	)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("insert job", err)
	}
	return nil
}

func (r *pgJobs) Get(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, location, salary, description, status, created_at
		FROM jobs WHERE id = $1`, id).Scan(
		&job.ID, &job.Title, &job.Location, &job.Salary,
		&job.Description, &job.Status, &job.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("job", id)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("get job", err)
	}
	return &job, nil
}

func (r *pgJobs) Update(ctx context.Context, job *models.Job) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET title = $2, location = $3, salary = $4,
			description = $5, status = $6
		WHERE id = $1`,
		job.ID, job.Title, job.Location, job.Salary, job.Description, job.Status,
	)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("update job", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("update job", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError("job", job.ID)
	}
	return nil
}

func (r *pgJobs) List(ctx context.Context) ([]models.Job, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, location, salary, description, status, created_at
		FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list jobs", err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		var job models.Job
		if err := rows.Scan(&job.ID, &job.Title, &job.Location, &job.Salary,
			&job.Description, &job.Status, &job.CreatedAt); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan job", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list jobs", err)
	}
	return jobs, nil
}

type pgCandidates struct {
	db *sql.DB
}

func (r *pgCandidates) Put(ctx context.Context, c *models.Candidate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO candidates (
			id, name, email, phone, title, summary, location,
			resume_text, background_check, ai_screening_result
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, email = EXCLUDED.email, phone = EXCLUDED.phone,
			title = EXCLUDED.title, summary = EXCLUDED.summary,
			location = EXCLUDED.location, resume_text = EXCLUDED.resume_text,
			background_check = EXCLUDED.background_check,
			ai_screening_result = EXCLUDED.ai_screening_result`,
		c.ID, c.Name, c.Email, c.Phone, c.Title, c.Summary, c.Location,
		c.ResumeText, c.BackgroundCheck, c.AIScreeningResult,
	)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("upsert candidate", err)
	}
	return nil
}

func (r *pgCandidates) Get(ctx context.Context, id string) (*models.Candidate, error) {
	var c models.Candidate
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, title, summary, location,
			resume_text, background_check, ai_screening_result
		FROM candidates WHERE id = $1`, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Title, &c.Summary,
		&c.Location, &c.ResumeText, &c.BackgroundCheck, &c.AIScreeningResult,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("candidate", id)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("get candidate", err)
	}
	return &c, nil
}

func (r *pgCandidates) List(ctx context.Context) ([]models.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, phone, title, summary, location,
			resume_text, background_check, ai_screening_result
		FROM candidates ORDER BY name`)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list candidates", err)
	}
	defer rows.Close()

	var out []models.Candidate
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Title,
			&c.Summary, &c.Location, &c.ResumeText, &c.BackgroundCheck,
			&c.AIScreeningResult); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan candidate", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list candidates", err)
	}
	return out, nil
}

type pgLedger struct {
	db *sql.DB
}

func (r *pgLedger) Append(ctx context.Context, item *models.BillingItem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO billing_items (id, service, amount_cents, date, description)
		VALUES ($1, $2, $3, $4, $5)`,
		item.ID, item.Service, item.AmountCents, item.Date, item.Description,
	)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("append billing item", err)
	}
	return nil
}

func (r *pgLedger) List(ctx context.Context) ([]models.BillingItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, service, amount_cents, date, description
		FROM billing_items ORDER BY date DESC`)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list billing items", err)
	}
	defer rows.Close()

	var items []models.BillingItem
	for rows.Next() {
		var item models.BillingItem
		if err := rows.Scan(&item.ID, &item.Service, &item.AmountCents,
			&item.Date, &item.Description); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan billing item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list billing items", err)
	}
	return items, nil
}

type pgDiscount struct {
	db *sql.DB
}

// The discount window start lives in a single-row table. The insert races
// are resolved by the primary key: whoever commits first wins, everyone
// reads back the same started_at.
func (r *pgDiscount) Start(ctx context.Context) (time.Time, bool, error) {
	var start time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT started_at FROM discount_window WHERE id = 1`).Scan(&start)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, apperrors.NewQueryExecutionFailedError("read discount window", err)
	}
	return start, true, nil
}

func (r *pgDiscount) RecordStart(ctx context.Context, t time.Time) (time.Time, error) {
	var start time.Time
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO discount_window (id, started_at) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET started_at = discount_window.started_at
		RETURNING started_at`, t).Scan(&start)
	if err != nil {
		return time.Time{}, apperrors.NewQueryExecutionFailedError("record discount window", err)
	}
	return start, nil
}
