package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"paygo-hire/internal/billing"
	apperrors "paygo-hire/internal/common/errors"
	"paygo-hire/internal/models"
	"paygo-hire/internal/service"
)

// readValidated slurps the body and checks it against the named schema.
func (s *Server) readValidated(req *http.Request, schema string, dst interface{}) error {
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return apperrors.NewValidationFailedError("could not read request body")
	}
	if err := s.validator.ValidateJSON(schema, raw); err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// --- jobs ---

func (s *Server) handleListJobs(w http.ResponseWriter, req *http.Request) {
	jobs, err := s.jobs.List(req.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleGetJob(w http.ResponseWriter, req *http.Request, id string) {
	job, err := s.jobs.Get(req.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

type jobRequest struct {
	Title       string `json:"title"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (s *Server) handleCreateJob(w http.ResponseWriter, req *http.Request) {
	var body jobRequest
	if err := s.readValidated(req, "job", &body); err != nil {
		writeError(w, err)
		return
	}

	job, err := s.market.PostJob(req.Context(), &models.Job{
		Title:       body.Title,
		Location:    body.Location,
		Salary:      body.Salary,
		Description: body.Description,
		Status:      body.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, req *http.Request, id string) {
	var body jobRequest
	if err := s.readValidated(req, "job", &body); err != nil {
		writeError(w, err)
		return
	}

	job, err := s.market.UpdateJob(req.Context(), &models.Job{
		ID:          id,
		Title:       body.Title,
		Location:    body.Location,
		Salary:      body.Salary,
		Description: body.Description,
		Status:      body.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleJobPipeline(w http.ResponseWriter, req *http.Request, id string) {
	if _, err := s.jobs.Get(req.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	counts, err := s.market.PipelineCounts(req.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (s *Server) handleGenerateDescription(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Title string `json:"title"`
	}
	if err := s.readValidated(req, "generate_description", &body); err != nil {
		writeError(w, err)
		return
	}

	text, err := s.market.GenerateJobDescription(req.Context(), body.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"description": text})
}

// --- applications ---

func (s *Server) handleListApplications(w http.ResponseWriter, req *http.Request) {
	var (
		apps interface{}
		err  error
	)
	switch {
	case req.URL.Query().Get("jobId") != "":
		apps, err = s.apps.ListByJob(req.Context(), req.URL.Query().Get("jobId"))
	case req.URL.Query().Get("candidateId") != "":
		apps, err = s.apps.ListByCandidate(req.Context(), req.URL.Query().Get("candidateId"))
	default:
		apps, err = s.apps.List(req.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, req *http.Request, id string) {
	app, err := s.apps.Get(req.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleApply(w http.ResponseWriter, req *http.Request) {
	var body struct {
		JobID          string `json:"jobId"`
		CandidateID    string `json:"candidateId"`
		ResumeText     string `json:"resumeText"`
		ResumeFileName string `json:"resumeFileName"`
	}
	if err := s.readValidated(req, "apply", &body); err != nil {
		writeError(w, err)
		return
	}

	app, err := s.market.ApplyForJob(req.Context(), service.ApplyInput{
		JobID:          body.JobID,
		CandidateID:    body.CandidateID,
		ResumeText:     body.ResumeText,
		ResumeFileName: body.ResumeFileName,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (s *Server) handleAdvance(w http.ResponseWriter, req *http.Request, id string) {
	var body struct {
		Status string `json:"status"`
	}
	if err := s.readValidated(req, "advance", &body); err != nil {
		writeError(w, err)
		return
	}

	app, err := s.market.AdvanceApplication(req.Context(), id, body.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, req *http.Request, id string) {
	app, err := s.market.WithdrawApplication(req.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleAddNote(w http.ResponseWriter, req *http.Request, id string) {
	var body struct {
		AuthorID   string `json:"authorId"`
		AuthorName string `json:"authorName"`
		Text       string `json:"text"`
	}
	if err := s.readValidated(req, "note", &body); err != nil {
		writeError(w, err)
		return
	}

	app, err := s.market.AddNote(req.Context(), id, body.AuthorID, body.AuthorName, body.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleScheduleInterview(w http.ResponseWriter, req *http.Request, id string) {
	var body struct {
		Slots []time.Time `json:"slots"`
	}
	if err := s.readValidated(req, "schedule", &body); err != nil {
		writeError(w, err)
		return
	}

	app, err := s.market.ScheduleInterview(req.Context(), id, body.Slots)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleConfirmSlot(w http.ResponseWriter, req *http.Request, id string) {
	var body struct {
		Slot time.Time `json:"slot"`
	}
	if err := s.readValidated(req, "confirm", &body); err != nil {
		writeError(w, err)
		return
	}

	app, err := s.market.ConfirmInterviewSlot(req.Context(), id, body.Slot)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleAssignAssessment(w http.ResponseWriter, req *http.Request, id string) {
	var body struct {
		Questions []models.SkillAssessmentQuestion `json:"questions"`
	}
	if err := s.readValidated(req, "assign_assessment", &body); err != nil {
		writeError(w, err)
		return
	}

	app, err := s.market.AssignAssessment(req.Context(), id, body.Questions)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleSubmitAssessment(w http.ResponseWriter, req *http.Request, id string) {
	var body struct {
		Answers []int `json:"answers"`
	}
	if err := s.readValidated(req, "submit_assessment", &body); err != nil {
		writeError(w, err)
		return
	}

	app, err := s.market.SubmitAssessment(req.Context(), id, body.Answers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleResumeView(w http.ResponseWriter, req *http.Request, id string) {
	count, err := s.market.RecordResumeView(req.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"resumeViews": count})
}

// --- candidates ---

func (s *Server) handleListCandidates(w http.ResponseWriter, req *http.Request) {
	out, err := s.candidates.List(req.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, req *http.Request, id string) {
	c, err := s.candidates.Get(req.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleScreenCandidate(w http.ResponseWriter, req *http.Request, id string) {
	c, err := s.market.ScreenCandidate(req.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// --- billing ---

func (s *Server) handleLedger(w http.ResponseWriter, req *http.Request) {
	items, err := s.ledger.List(req.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleDashboard(w http.ResponseWriter, req *http.Request) {
	summary, err := s.market.Dashboard(req.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleOrderService(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Service     string `json:"service"`
		Description string `json:"description"`
	}
	if err := s.readValidated(req, "order", &body); err != nil {
		writeError(w, err)
		return
	}

	description := body.Description
	if description == "" {
		description = body.Service
	}
	item, err := s.market.OrderService(req.Context(), billing.ServiceKind(body.Service), description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// --- search ---

func (s *Server) handleSearchJobs(w http.ResponseWriter, req *http.Request) {
	if s.searcher == nil {
		writeJSON(w, http.StatusNotImplemented, errorBody{
			Error: errorDetail{Code: "SEARCH_DISABLED", Message: "job search is not enabled"},
		})
		return
	}

	q := req.URL.Query()
	hits, err := s.searcher.Search(req.Context(), q.Get("q"), q.Get("location"), 20)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hits)
}
