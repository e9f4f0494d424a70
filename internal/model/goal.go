package model

import "time"

// GoalStatus tracks the lifecycle of a savings goal.
type GoalStatus string

const (
	// GoalStatusActive represents a goal still being saved toward.
	GoalStatusActive GoalStatus = "active"
	// GoalStatusCompleted represents a goal whose target has been reached.
	GoalStatusCompleted GoalStatus = "completed"
)

// Goal represents a savings goal with a target amount and optional deadline.
type Goal struct {
	CreatedAt     time.Time
	Deadline      *time.Time
	Name          string
	Status        GoalStatus
	ID            int64
	UserID        int64
	TargetAmount  float64
	CurrentAmount float64
}

// Progress returns completion as a fraction in [0, 1].
func (g *Goal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	p := g.CurrentAmount / g.TargetAmount
	if p > 1 {
		return 1
	}
	return p
}

// Remaining returns the amount still needed to reach the target.
func (g *Goal) Remaining() float64 {
	r := g.TargetAmount - g.CurrentAmount
	if r < 0 {
		return 0
	}
	return r
}
