// Package prediction models channel point predictions and derives the state
// chat messages report on from the raw upstream record.
package prediction

import (
	"fmt"
	"time"
)

// State names. A prediction is Up while open for bets, Closed once locked,
// Paid after an outcome won, Refunded after a cancellation.
const (
	StateUp       = "Up"
	StateClosed   = "Closed"
	StatePaid     = "Paid"
	StateRefunded = "Refunded"
)

// Upstream status values.
const (
	StatusActive   = "ACTIVE"
	StatusLocked   = "LOCKED"
	StatusResolved = "RESOLVED"
	StatusCanceled = "CANCELED"
)

// Outcome is one side of a prediction.
type Outcome struct {
	ID            string
	Title         string
	Users         int
	ChannelPoints int64
	Color         string
}

// Record is the raw prediction as reported upstream. Optional timestamps are
// nil when the platform has not set them yet.
type Record struct {
	ID               string
	Title            string
	Outcomes         []Outcome
	Status           string
	Window           time.Duration
	CreatedAt        time.Time
	EndedAt          *time.Time
	LockedAt         *time.Time
	WinningOutcomeID string
}

// State is the derived, chat-facing view of a prediction.
type State struct {
	Name       string
	ClosedAt   *time.Time
	PaidAt     *time.Time
	RefundedAt *time.Time
	Winner     *Outcome
}

// MissingFieldError reports an upstream record whose status promises a field
// the record does not carry. The platform contract guarantees these fields,
// so a gap is a hard error rather than a default.
type MissingFieldError struct {
	Status string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("prediction with status %s is missing %s", e.Status, e.Field)
}

// UnexpectedStatusError reports an upstream status outside the known set.
type UnexpectedStatusError struct {
	Status string
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected prediction status %q", e.Status)
}

// Derive maps the raw record to its chat-facing state.
func (r Record) Derive() (State, error) {
	switch r.Status {
	case StatusActive:
		return State{Name: StateUp}, nil

	case StatusLocked:
		if r.EndedAt == nil {
			return State{}, &MissingFieldError{Status: r.Status, Field: "ended_at"}
		}
		return State{Name: StateClosed, ClosedAt: r.EndedAt}, nil

	case StatusResolved:
		if r.WinningOutcomeID == "" {
			return State{}, &MissingFieldError{Status: r.Status, Field: "winning_outcome_id"}
		}
		winner := r.outcomeByID(r.WinningOutcomeID)
		if winner == nil {
			return State{}, &MissingFieldError{Status: r.Status, Field: "winning outcome"}
		}
		if r.LockedAt == nil {
			return State{}, &MissingFieldError{Status: r.Status, Field: "locked_at"}
		}
		return State{Name: StatePaid, PaidAt: r.LockedAt, Winner: winner}, nil

	case StatusCanceled:
		if r.LockedAt == nil {
			return State{}, &MissingFieldError{Status: r.Status, Field: "locked_at"}
		}
		return State{Name: StateRefunded, RefundedAt: r.LockedAt}, nil
	}

	return State{}, &UnexpectedStatusError{Status: r.Status}
}

func (r Record) outcomeByID(id string) *Outcome {
	for i := range r.Outcomes {
		if r.Outcomes[i].ID == id {
			return &r.Outcomes[i]
		}
	}
	return nil
}
