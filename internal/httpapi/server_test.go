package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paygo-hire/internal/billing"
	"paygo-hire/internal/common/logger"
	"paygo-hire/internal/models"
	"paygo-hire/internal/pipeline"
	"paygo-hire/internal/service"
	"paygo-hire/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	log := logger.NewTestLogger(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	engine := billing.NewEngine(billing.DefaultCatalog(), mem.Ledger(), mem.Discount(), log).
		WithClock(func() time.Time { return now })

	market := service.New(service.Deps{
		Applications: mem.Applications(),
		Jobs:         mem.Jobs(),
		Candidates:   mem.Candidates(),
		Engine:       engine,
		Machine:      pipeline.NewMachine(pipeline.PolicyStrict),
		Views:        service.NewMemoryViewCounter(),
		Logger:       log,
	}).WithClock(func() time.Time { return now })

	srv, err := NewServer(Deps{
		Market:       market,
		Applications: mem.Applications(),
		Jobs:         mem.Jobs(),
		Candidates:   mem.Candidates(),
		Ledger:       mem.Ledger(),
		Logger:       log,
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, mem.Candidates().Put(ctx, &models.Candidate{
		ID: "cand-1", Name: "Alice Johnson", Email: "alice@example.com",
	}))
	require.NoError(t, mem.Jobs().Create(ctx, &models.Job{
		ID: "job-1", Title: "Senior React Developer", Status: models.JobStatusActive, CreatedAt: now,
	}))
	return srv, mem
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func applyApp(t *testing.T, srv *Server) models.Application {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/api/applications",
		`{"jobId":"job-1","candidateId":"cand-1","resumeText":"go expert"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var app models.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &app))
	return app
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApplyEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	app := applyApp(t, srv)
	assert.Equal(t, "Applied", app.Status)

	// Second application for the same pair conflicts.
	rec := doJSON(t, srv, http.MethodPost, "/api/applications",
		`{"jobId":"job-1","candidateId":"cand-1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestApplyValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/applications", `{"jobId":"job-1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")

	rec = doJSON(t, srv, http.MethodPost, "/api/applications", `{not json`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestApplyUnknownJob(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/api/applications",
		`{"jobId":"ghost","candidateId":"cand-1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdvanceEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	app := applyApp(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/applications/"+app.ID+"/advance",
		`{"status":"Screening"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Backward move conflicts under the strict policy.
	rec = doJSON(t, srv, http.MethodPost, "/api/applications/"+app.ID+"/advance",
		`{"status":"Applied"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TRANSITION")

	// Unknown status fails validation.
	rec = doJSON(t, srv, http.MethodPost, "/api/applications/"+app.ID+"/advance",
		`{"status":"Promoted"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestWithdrawEndpointIdempotent(t *testing.T) {
	srv, _ := newTestServer(t)
	app := applyApp(t, srv)

	for i := 0; i < 2; i++ {
		rec := doJSON(t, srv, http.MethodPost, "/api/applications/"+app.ID+"/withdraw", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var got models.Application
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Withdrawn", got.Status)
	}
}

func TestNotesEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	app := applyApp(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/applications/"+app.ID+"/notes",
		`{"authorId":"hm-1","authorName":"Dana","text":"call scheduled"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Notes, 1)
	assert.Equal(t, "call scheduled", got.Notes[0].Text)

	// Empty text fails schema validation.
	rec = doJSON(t, srv, http.MethodPost, "/api/applications/"+app.ID+"/notes", `{"text":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestScheduleAndConfirmEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	app := applyApp(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/applications/"+app.ID+"/schedule",
		`{"slots":["2025-03-05T14:00:00Z","2025-03-06T15:00:00Z"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// A slot that was never proposed is rejected.
	rec = doJSON(t, srv, http.MethodPost, "/api/applications/"+app.ID+"/schedule/confirm",
		`{"slot":"2025-03-07T10:00:00Z"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "SLOT_NOT_PROPOSED")

	rec = doJSON(t, srv, http.MethodPost, "/api/applications/"+app.ID+"/schedule/confirm",
		`{"slot":"2025-03-06T15:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.ScheduleStatusBooked, got.InterviewSchedule.Status)
}

func TestAssessmentEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	app := applyApp(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/applications/"+app.ID+"/assessment",
		`{"questions":[{"question":"2+2?","options":["3","4"],"correctAnswerIndex":1}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodPost, "/api/applications/"+app.ID+"/assessment/submit",
		`{"answers":[1]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.SkillAssessment.Score)
	assert.Equal(t, float64(1), *got.SkillAssessment.Score)
}

func TestResumeViewEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	app := applyApp(t, srv)

	for want := 1; want <= 2; want++ {
		rec := doJSON(t, srv, http.MethodPost, "/api/applications/"+app.ID+"/resume-view", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var got map[string]int64
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, int64(want), got["resumeViews"])
	}
}

func TestJobEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/jobs",
		`{"title":"Platform Engineer","location":"Remote","status":"Active"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var job models.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))

	rec = doJSON(t, srv, http.MethodGet, "/api/jobs/"+job.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/jobs/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Bad status enum fails validation.
	rec = doJSON(t, srv, http.MethodPost, "/api/jobs", `{"title":"X","status":"Open"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestJobPipelineEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	app := applyApp(t, srv)
	_ = app

	rec := doJSON(t, srv, http.MethodGet, "/api/jobs/job-1/pipeline", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var counts map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, 1, counts["Applied"])
}

func TestBillingEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/billing/order",
		`{"service":"Background Check","description":"Background check for Alice Johnson"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var item models.BillingItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	// First charge, new-account discount active.
	assert.Equal(t, int64(250), item.AmountCents)

	rec = doJSON(t, srv, http.MethodPost, "/api/billing/order", `{"service":"Massage"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNKNOWN_SERVICE")

	rec = doJSON(t, srv, http.MethodGet, "/api/billing/ledger", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []models.BillingItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 1)

	rec = doJSON(t, srv, http.MethodGet, "/api/billing/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary service.DashboardSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, billing.Amount(250), summary.TotalSpend)
	assert.True(t, summary.DiscountActive)
}

func TestSearchDisabled(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/api/search/jobs?q=react", "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
