package domain

import "time"

// ActivityState is the derived lifecycle state of an activity.
type ActivityState string

const (
	ActivityUnreleased ActivityState = "unreleased"
	ActivityReleased   ActivityState = "released"
	ActivityCompleted  ActivityState = "completed"
)

// Activity is a single unit of ordered work inside a scenario. Sequence
// numbers are caller-supplied and compared numerically; they need not be
// contiguous or unique.
type Activity struct {
	ID             string
	ScenarioID     string
	SequenceNumber int
	Description    string
	// Responsible is a username string, not a member reference. Completion
	// compares it against the caller's username unless the caller holds
	// the complete-any-activity capability.
	Responsible string
	ReleasedAt  *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// State derives the lifecycle state from the two timestamps.
func (a *Activity) State() ActivityState {
	switch {
	case a.CompletedAt != nil:
		return ActivityCompleted
	case a.ReleasedAt != nil:
		return ActivityReleased
	default:
		return ActivityUnreleased
	}
}

// Released reports whether the activity has been released.
func (a *Activity) Released() bool { return a.ReleasedAt != nil }

// Completed reports whether the activity has been completed.
func (a *Activity) Completed() bool { return a.CompletedAt != nil }

// Release stamps the release time. Releasing an already-released activity
// is a no-op; the first timestamp stands.
func (a *Activity) Release(now time.Time) {
	if a.ReleasedAt == nil {
		t := now
		a.ReleasedAt = &t
		a.UpdatedAt = now
	}
}

// Complete stamps the completion time. The caller is responsible for having
// verified the release precondition.
func (a *Activity) Complete(now time.Time) {
	t := now
	a.CompletedAt = &t
	a.UpdatedAt = now
}

// Reopen clears the completion timestamp, returning the activity to the
// released state. The release timestamp is left untouched.
func (a *Activity) Reopen(now time.Time) {
	a.CompletedAt = nil
	a.UpdatedAt = now
}
