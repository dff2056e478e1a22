package domain

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// maxDurationSeconds keeps deadline arithmetic inside time.Duration.
const maxDurationSeconds = math.MaxInt64 / int64(time.Second)

// Campaign represents a fundraising campaign. Amounts are stored in the
// smallest native-currency unit.
type Campaign struct {
	ID          int64
	Title       string
	Owner       Account
	Goal        decimal.Decimal
	Deadline    time.Time
	TotalRaised decimal.Decimal
	Finalized   bool
	Successful  bool // meaningful only once Finalized
	CreatedAt   time.Time
}

// CampaignDraft carries the caller supplied parameters of a new campaign.
type CampaignDraft struct {
	Title           string
	Owner           Account
	Goal            decimal.Decimal
	DurationSeconds int64
}

// Validate checks the draft in the order callers observe the errors:
// title, then goal, then duration.
func (d CampaignDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrInvalidTitle
	}
	if !IsPositiveWhole(d.Goal) {
		return ErrInvalidGoal
	}
	if d.DurationSeconds <= 0 || d.DurationSeconds > maxDurationSeconds {
		return ErrInvalidDuration
	}
	if d.Owner.IsZero() {
		return ErrInvalidAccount
	}
	return nil
}

// timeResolution matches the TIMESTAMPTZ columns so both stores hold the
// same instants.
const timeResolution = time.Microsecond

// Build turns a validated draft into a campaign created at now. The
// deadline is now + duration rounded up to timeResolution, never earlier.
func (d CampaignDraft) Build(id int64, now time.Time) Campaign {
	now = now.UTC()
	deadline := now.Add(time.Duration(d.DurationSeconds) * time.Second)
	if t := deadline.Truncate(timeResolution); !t.Equal(deadline) {
		deadline = t.Add(timeResolution)
	}
	return Campaign{
		ID:          id,
		Title:       d.Title,
		Owner:       d.Owner,
		Goal:        d.Goal,
		Deadline:    deadline,
		TotalRaised: decimal.Zero,
		CreatedAt:   now.Truncate(timeResolution),
	}
}

// State is the lifecycle position of a campaign. Active and Ended are
// derived from the clock; only the finalized states are persisted.
type State string

const (
	StateActive     State = "active"
	StateEnded      State = "ended"
	StateSuccessful State = "successful"
	StateFailed     State = "failed"
)

// Label is the human readable status shown by the campaign list.
func (s State) Label() string {
	switch s {
	case StateActive:
		return "Active"
	case StateEnded:
		return "Ended (needs finalize)"
	case StateSuccessful:
		return "Successful"
	case StateFailed:
		return "Failed"
	default:
		return string(s)
	}
}

// Ended reports whether the deadline has passed at now.
func (c Campaign) Ended(now time.Time) bool {
	return !now.Before(c.Deadline)
}

// GoalReached reports whether the raised total covers the goal.
func (c Campaign) GoalReached() bool {
	return c.TotalRaised.GreaterThanOrEqual(c.Goal)
}

// State evaluates the campaign lifecycle at now.
func (c Campaign) State(now time.Time) State {
	switch {
	case c.Finalized && c.Successful:
		return StateSuccessful
	case c.Finalized:
		return StateFailed
	case c.Ended(now):
		return StateEnded
	default:
		return StateActive
	}
}
