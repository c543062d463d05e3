// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable: clients branch on them, while
// the message is meant for display. Generic codes mirror HTTP status
// semantics; the rest name a failure of the dashboard itself.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "delete_failed",
//	  "message": "Record not found"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeInternal         = "internal_error"

	// Submissions list and exports.
	ErrCodeUnavailable = "unavailable"
	ErrCodeBadFormat   = "bad_format"
	ErrCodeBadSort     = "bad_sort"
	ErrCodeBadPage     = "bad_page"
	ErrCodeExport      = "export_failed"

	// Optimistic delete.
	ErrCodeMissingID            = "missing_id"
	ErrCodeDeleteInFlight       = "delete_in_flight"
	ErrCodeConfirmationRequired = "confirmation_required"
	ErrCodeDeleteFailed         = "delete_failed"

	// Remote webhook failures.
	ErrCodeNetwork            = "network_error"
	ErrCodeUnexpectedResponse = "unexpected_response"

	// Analytics.
	ErrCodeInvalidRange = "invalid_range"
	ErrCodeInvalidTop   = "invalid_top"

	// Contact form.
	ErrCodeInvalidContact = "invalid_contact"
)
