package models

import "time"

// Application represents one candidate's submission to one job posting.
type Application struct {
	ID                string             `json:"id"`
	JobID             string             `json:"jobId"`
	CandidateID       string             `json:"candidateId"`
	Status            string             `json:"status"`
	AppliedDate       time.Time          `json:"appliedDate"`
	ResumeText        string             `json:"resumeText,omitempty"`
	ResumeFileName    string             `json:"resumeFileName,omitempty"`
	ResumeViews       int64              `json:"resumeViews"`
	Notes             []Note             `json:"notes,omitempty"`
	InterviewSchedule *InterviewSchedule `json:"interviewSchedule,omitempty"`
	SkillAssessment   *SkillAssessment   `json:"skillAssessment,omitempty"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// Note is an append-only annotation left by a hiring manager on an application.
type Note struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
}

const (
	ScheduleStatusPending   = "pending"
	ScheduleStatusBooked    = "booked"
	ScheduleStatusCompleted = "completed"
)

// InterviewSchedule tracks proposed and confirmed interview slots.
// ConfirmedSlot, when set, is always one of ProposedSlots.
type InterviewSchedule struct {
	Status        string      `json:"status"`
	ProposedSlots []time.Time `json:"proposedSlots"`
	ConfirmedSlot *time.Time  `json:"confirmedSlot,omitempty"`
}

const (
	AssessmentStatusPending   = "pending"
	AssessmentStatusCompleted = "completed"
)

// SkillAssessmentQuestion is a multiple-choice question with one correct option.
type SkillAssessmentQuestion struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

// SkillAssessment holds the questions sent to a candidate and, once
// completed, their answers and score (fraction of correct answers).
type SkillAssessment struct {
	Questions []SkillAssessmentQuestion `json:"questions"`
	Status    string                    `json:"status"`
	Answers   []int                     `json:"answers,omitempty"`
	Score     *float64                  `json:"score,omitempty"`
}
