package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "paygo-hire/internal/common/errors"
	"paygo-hire/internal/models"
)

func newApplication(status Status) *models.Application {
	return &models.Application{
		ID:          "app-001",
		JobID:       "job-001",
		CandidateID: "cand-001",
		Status:      string(status),
		AppliedDate: time.Now().UTC(),
	}
}

func TestParseStatus_ValidValues(t *testing.T) {
	valid := []string{"Applied", "Screening", "Interviewing", "Offer", "Hired", "Withdrawn"}
	for _, s := range valid {
		got, err := ParseStatus(s)
		assert.NoError(t, err)
		assert.Equal(t, s, string(got))
	}
}

func TestParseStatus_InvalidValues(t *testing.T) {
	for _, s := range []string{"", "applied", "Rejected", " Applied"} {
		_, err := ParseStatus(s)
		assert.Error(t, err, "ParseStatus(%q) should fail", s)
	}
}

func TestAdvance_StrictForwardOnly(t *testing.T) {
	m := NewMachine(PolicyStrict)

	app := newApplication(StatusApplied)
	assert.NoError(t, m.Advance(app, StatusScreening))
	assert.Equal(t, string(StatusScreening), app.Status)

	// Backward move is rejected under the strict policy.
	err := m.Advance(app, StatusApplied)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
	assert.Equal(t, string(StatusScreening), app.Status)

	// Skipping stages forward is allowed.
	assert.NoError(t, m.Advance(app, StatusOffer))
	assert.NoError(t, m.Advance(app, StatusHired))
}

func TestAdvance_PermissiveAllowsBackward(t *testing.T) {
	m := NewMachine(PolicyPermissive)

	app := newApplication(StatusOffer)
	assert.NoError(t, m.Advance(app, StatusScreening))
	assert.Equal(t, string(StatusScreening), app.Status)

	// Terminal states are still locked even under the permissive policy.
	assert.NoError(t, m.Advance(app, StatusHired))
	err := m.Advance(app, StatusScreening)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
	assert.Equal(t, string(StatusHired), app.Status)
}

func TestAdvance_TerminalStatesAreImmutable(t *testing.T) {
	for _, policy := range []Policy{PolicyStrict, PolicyPermissive} {
		m := NewMachine(policy)
		for _, terminal := range []Status{StatusHired, StatusWithdrawn} {
			app := newApplication(terminal)
			for _, target := range []Status{StatusApplied, StatusScreening, StatusInterview, StatusOffer, StatusHired, StatusWithdrawn} {
				err := m.Advance(app, target)
				assert.Error(t, err, "policy=%s from=%s to=%s", policy, terminal, target)
				assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
				assert.Equal(t, string(terminal), app.Status, "status must not change")
			}
		}
	}
}

func TestAdvance_HiredThenScreeningRejected(t *testing.T) {
	m := NewMachine(PolicyStrict)
	app := newApplication(StatusApplied)

	assert.NoError(t, m.Advance(app, StatusHired))
	assert.Equal(t, string(StatusHired), app.Status)

	err := m.Advance(app, StatusScreening)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
	assert.Equal(t, string(StatusHired), app.Status)
}

func TestWithdraw_FromEveryNonTerminalState(t *testing.T) {
	m := NewMachine(PolicyStrict)
	for _, from := range []Status{StatusApplied, StatusScreening, StatusInterview, StatusOffer} {
		app := newApplication(from)
		assert.NoError(t, m.Withdraw(app))
		assert.Equal(t, string(StatusWithdrawn), app.Status)
	}
}

func TestWithdraw_Idempotent(t *testing.T) {
	m := NewMachine(PolicyStrict)
	app := newApplication(StatusScreening)

	assert.NoError(t, m.Withdraw(app))
	assert.NoError(t, m.Withdraw(app))
	assert.Equal(t, string(StatusWithdrawn), app.Status)
}

func TestWithdraw_HiredRejected(t *testing.T) {
	m := NewMachine(PolicyStrict)
	app := newApplication(StatusHired)

	err := m.Withdraw(app)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
	assert.Equal(t, string(StatusHired), app.Status)
}

func TestIsActive(t *testing.T) {
	assert.True(t, IsActive(newApplication(StatusApplied)))
	assert.True(t, IsActive(newApplication(StatusHired)))
	assert.False(t, IsActive(newApplication(StatusWithdrawn)))
}

func TestNewMachine_DefaultsToStrict(t *testing.T) {
	assert.Equal(t, PolicyStrict, NewMachine("").Policy())
	assert.Equal(t, PolicyStrict, NewMachine("bogus").Policy())
	assert.Equal(t, PolicyPermissive, NewMachine(PolicyPermissive).Policy())
}
