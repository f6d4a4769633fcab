// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes the symbolic error code constants mapped to HTTP
// responses via the fail() helper. The codes give clients a stable,
// machine-readable error taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are lowercase snake_case.
//   - Generic codes (bad_request, unauthorized, conflict, ...) mirror common
//     HTTP status semantics.
//   - Domain-specific codes (no_credits, image_unreadable, ...) carry business
//     outcomes that a status alone cannot convey; the frontend branches on
//     them to choose the right prompt (sign-in dialog, upgrade dialog, ...).
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeAuthRequired         = "auth_required"
	ErrCodeNoImage              = "no_image"
	ErrCodeNoCredits            = "no_credits"
	ErrCodeImageUnreadable      = "image_unreadable"
	ErrCodeGenerateFailed       = "generate_failed"
	ErrCodeInvalidPlan          = "invalid_plan"
	ErrCodeConfirmationRequired = "confirmation_required"
	ErrCodeListFailed           = "list_failed"
	ErrCodeDeleteFailed         = "delete_failed"
	ErrCodeMethodNotAllowed     = "method_not_allowed"
)
