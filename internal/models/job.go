package models

import "time"

const (
	JobStatusDraft  = "Draft"
	JobStatusActive = "Active"
	JobStatusClosed = "Closed"
)

// Job is a posting created by a hiring manager.
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Salary      string    `json:"salary"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

const (
	BackgroundCheckNotStarted = "Not Started"
	BackgroundCheckPending    = "Pending"
	BackgroundCheckCompleted  = "Completed"
	BackgroundCheckFlagged    = "Flagged"
)

// Candidate is a job seeker profile.
type Candidate struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone,omitempty"`
	Title             string `json:"title"`
	Summary           string `json:"summary"`
	Location          string `json:"location,omitempty"`
	ResumeText        string `json:"resumeText,omitempty"`
	BackgroundCheck   string `json:"backgroundCheck"`
	AIScreeningResult string `json:"aiScreeningResult,omitempty"`
}
