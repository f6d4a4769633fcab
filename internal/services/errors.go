// Package services defines the business logic for credits, generation, and
// history. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer; the
// handler layer translates them into user-facing messages and HTTP status
// codes.
package services

import "errors"

// Generation precondition errors. They are detected before any side effect
// occurs and map to the Blocked outcome of a generation request.
var (
	// ErrAuthRequired indicates the request carried no authenticated user.
	ErrAuthRequired = errors.New("sign in required")

	// ErrNoImage indicates no section screenshot was supplied.
	ErrNoImage = errors.New("image required")

	// ErrNoCredits indicates the user's daily allowance is exhausted.
	ErrNoCredits = errors.New("no credits remaining")
)

// Generation failure errors. Unlike preconditions, these abort a request that
// had already passed validation; they still occur before any mutation.
var (
	// ErrImageUnreadable indicates the uploaded image could not be decoded.
	ErrImageUnreadable = errors.New("image could not be read")
)

// Account errors.
var (
	// ErrInvalidPlan is returned when an upgrade names an unknown plan.
	ErrInvalidPlan = errors.New("unknown plan")
)

// History errors.
var (
	// ErrChatNotFound indicates that the requested chat does not exist or is
	// not accessible to the current user.
	ErrChatNotFound = errors.New("chat not found")

	// ErrMessageNotFound indicates that the requested message does not exist
	// or is not accessible to the current user.
	ErrMessageNotFound = errors.New("message not found")

	// ErrInvalidTitle is returned when a rename carries a blank title.
	ErrInvalidTitle = errors.New("title must not be empty")
)

// Feedback errors.
var (
	// ErrInvalidFeedback is returned when a feedback value is outside the
	// allowed set (currently -1 or 1).
	ErrInvalidFeedback = errors.New("feedback value must be -1 or 1")

	// ErrForbiddenFeedback is returned when a user attempts to leave feedback
	// on a message they are not permitted to rate.
	ErrForbiddenFeedback = errors.New("cannot leave feedback on this message")

	// ErrDuplicateFeedback is returned when a user attempts to leave feedback
	// on a message that they have already rated.
	ErrDuplicateFeedback = errors.New("feedback already exists")
)
