package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "paygo-hire/internal/common/errors"
	"paygo-hire/internal/models"
)

func newMockStore(t *testing.T) (*Postgres, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgres(db), mock, func() { db.Close() }
}

func applicationRows(apps ...models.Application) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "job_id", "candidate_id", "status", "applied_date",
		"resume_text", "resume_file_name", "resume_views", "notes",
		"interview_schedule", "skill_assessment", "updated_at",
	})
	for _, app := range apps {
		var notes, schedule, assessment []byte
		if app.Notes != nil {
			notes, _ = json.Marshal(app.Notes)
		}
		if app.InterviewSchedule != nil {
			schedule, _ = json.Marshal(app.InterviewSchedule)
		}
		if app.SkillAssessment != nil {
			assessment, _ = json.Marshal(app.SkillAssessment)
		}
		rows.AddRow(app.ID, app.JobID, app.CandidateID, app.Status, app.AppliedDate,
			app.ResumeText, app.ResumeFileName, app.ResumeViews, notes,
			schedule, assessment, app.UpdatedAt)
	}
	return rows
}

func TestPostgresApplicationsGet(t *testing.T) {
	pg, mock, closeFn := newMockStore(t)
	defer closeFn()

	applied := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	app := models.Application{
		ID: "app-1", JobID: "job-1", CandidateID: "cand-1",
		Status: "Screening", AppliedDate: applied, UpdatedAt: applied,
		Notes: []models.Note{{ID: "n-1", AuthorName: "Dana", Text: "strong resume", Timestamp: applied}},
	}

	mock.ExpectQuery(`SELECT .+ FROM applications WHERE id = \$1`).
		WithArgs("app-1").
		WillReturnRows(applicationRows(app))

	got, err := pg.Applications().Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, "Screening", got.Status)
	require.Len(t, got.Notes, 1)
	assert.Equal(t, "strong resume", got.Notes[0].Text)
	assert.Nil(t, got.InterviewSchedule)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresApplicationsGetNotFound(t *testing.T) {
	pg, mock, closeFn := newMockStore(t)
	defer closeFn()

	mock.ExpectQuery(`SELECT .+ FROM applications WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := pg.Applications().Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresApplicationsCreate(t *testing.T) {
	pg, mock, closeFn := newMockStore(t)
	defer closeFn()

	applied := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	app := &models.Application{
		ID: "app-1", JobID: "job-1", CandidateID: "cand-1",
		Status: "Applied", AppliedDate: applied, UpdatedAt: applied,
		ResumeText: "ten years of Go", ResumeFileName: "resume.pdf",
	}

	mock.ExpectExec(`INSERT INTO applications`).
		WithArgs(app.ID, app.JobID, app.CandidateID, app.Status, app.AppliedDate,
			app.ResumeText, app.ResumeFileName, app.ResumeViews, nil, nil, nil,
			app.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, pg.Applications().Create(context.Background(), app))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresApplicationsUpdateMissing(t *testing.T) {
	pg, mock, closeFn := newMockStore(t)
	defer closeFn()

	mock.ExpectExec(`UPDATE applications SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := pg.Applications().Update(context.Background(), &models.Application{ID: "missing"})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresHasActive(t *testing.T) {
	pg, mock, closeFn := newMockStore(t)
	defer closeFn()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("job-1", "cand-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	active, err := pg.Applications().HasActive(context.Background(), "job-1", "cand-1")
	require.NoError(t, err)
	assert.True(t, active)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLedgerAppendAndList(t *testing.T) {
	pg, mock, closeFn := newMockStore(t)
	defer closeFn()

	date := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	item := &models.BillingItem{
		ID: "b-1", Service: "Job Posting", AmountCents: 500,
		Date: date, Description: "Job posting: Staff Engineer (90% new member discount)",
	}

	mock.ExpectExec(`INSERT INTO billing_items`).
		WithArgs(item.ID, item.Service, item.AmountCents, item.Date, item.Description).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, pg.Ledger().Append(context.Background(), item))

	mock.ExpectQuery(`SELECT id, service, amount_cents, date, description`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "service", "amount_cents", "date", "description"}).
			AddRow(item.ID, item.Service, item.AmountCents, item.Date, item.Description))

	items, err := pg.Ledger().List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(500), items[0].AmountCents)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDiscountRecordStartKeepsFirst(t *testing.T) {
	pg, mock, closeFn := newMockStore(t)
	defer closeFn()

	first := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	later := first.Add(72 * time.Hour)

	// The conflicting insert returns the original started_at.
	mock.ExpectQuery(`INSERT INTO discount_window`).
		WithArgs(later).
		WillReturnRows(sqlmock.NewRows([]string{"started_at"}).AddRow(first))

	start, err := pg.Discount().RecordStart(context.Background(), later)
	require.NoError(t, err)
	assert.Equal(t, first, start)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDiscountStartEmpty(t *testing.T) {
	pg, mock, closeFn := newMockStore(t)
	defer closeFn()

	mock.ExpectQuery(`SELECT started_at FROM discount_window`).
		WillReturnError(sql.ErrNoRows)

	_, ok, err := pg.Discount().Start(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
