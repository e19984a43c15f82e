// Package pipeline defines the state machine for candidate applications.
//
// Status graph (strict policy):
//
//	Applied ──► Screening ──► Interviewing ──► Offer ──► Hired
//	   │            │              │             │
//	   └────────────┴──────────────┴─────────────┴──► Withdrawn
//
// Hired and Withdrawn are terminal states.
package pipeline

import (
	"fmt"

	apperrors "paygo-hire/internal/common/errors"
	"paygo-hire/internal/models"
)

// Status values mirror the application status pipeline.
type Status string

const (
	StatusApplied   Status = "Applied"
	StatusScreening Status = "Screening"
	StatusInterview Status = "Interviewing"
	StatusOffer     Status = "Offer"
	StatusHired     Status = "Hired"
	StatusWithdrawn Status = "Withdrawn"
)

// rank orders the forward pipeline. Withdrawn has no rank.
var rank = map[Status]int{
	StatusApplied:   0,
	StatusScreening: 1,
	StatusInterview: 2,
	StatusOffer:     3,
	StatusHired:     4,
}

// Policy selects how strictly advance validates ordering.
type Policy string

const (
	// PolicyStrict permits only forward moves through the ordered pipeline,
	// plus a jump to Withdrawn from any non-terminal state.
	PolicyStrict Policy = "strict"
	// PolicyPermissive permits any non-terminal to non-terminal move, the way
	// a Kanban board allows dragging cards backward.
	PolicyPermissive Policy = "permissive"
)

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusApplied, StatusScreening, StatusInterview, StatusOffer, StatusHired, StatusWithdrawn:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsTerminal returns true when no further transition is permitted from s.
func IsTerminal(s Status) bool {
	return s == StatusHired || s == StatusWithdrawn
}

// Machine validates and applies status transitions under a configured policy.
type Machine struct {
	policy Policy
}

func NewMachine(policy Policy) *Machine {
	if policy != PolicyPermissive {
		policy = PolicyStrict
	}
	return &Machine{policy: policy}
}

func (m *Machine) Policy() Policy { return m.policy }

// CanAdvance reports whether moving from → to is permitted.
func (m *Machine) CanAdvance(from, to Status) bool {
	if IsTerminal(from) {
		return false
	}
	if to == StatusWithdrawn {
		return true
	}
	if m.policy == PolicyPermissive {
		return from != to
	}
	return rank[to] > rank[from]
}

// Advance sets app.Status to target after validating the transition.
// Mutating a terminal application is rejected regardless of policy.
func (m *Machine) Advance(app *models.Application, target Status) error {
	from, err := ParseStatus(app.Status)
	if err != nil {
		return apperrors.NewInvalidTransitionError(app.Status, string(target))
	}
	if !m.CanAdvance(from, target) {
		return apperrors.NewInvalidTransitionError(string(from), string(target))
	}
	app.Status = string(target)
	return nil
}

// Withdraw moves app to Withdrawn. Calling it on an already withdrawn
// application is a no-op, not an error. Withdrawing a hired application is
// rejected.
func (m *Machine) Withdraw(app *models.Application) error {
	from, err := ParseStatus(app.Status)
	if err != nil {
		return apperrors.NewInvalidTransitionError(app.Status, string(StatusWithdrawn))
	}
	if from == StatusWithdrawn {
		return nil
	}
	if from == StatusHired {
		return apperrors.NewInvalidTransitionError(string(from), string(StatusWithdrawn))
	}
	app.Status = string(StatusWithdrawn)
	return nil
}

// IsActive reports whether an application still counts toward a job's
// pipeline (everything except Withdrawn).
func IsActive(app *models.Application) bool {
	return app.Status != string(StatusWithdrawn)
}

// IsHired returns true when status is Hired (triggers the successful-hire fee).
func IsHired(s Status) bool { return s == StatusHired }
