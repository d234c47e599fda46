package service

import "errors"

// Typed engine failures. The presentation layer matches these with
// errors.Is and owns the user-facing messaging.
var (
	// ErrDenied means the caller lacks the required capability or is not
	// the activity's responsible party.
	ErrDenied = errors.New("authorization denied")

	// ErrPrecondition means a state-machine precondition was not met, such
	// as completing an unreleased activity.
	ErrPrecondition = errors.New("precondition failed")

	// ErrInvariant means the action would leave the data model in an
	// illegal state, such as removing a project's last member or editing a
	// default profile.
	ErrInvariant = errors.New("invariant violation")
)
