package handlers

// Error codes carried in ErrorResponse.Code. Clients branch on these rather
// than on messages. Middleware that rejects a request before it reaches a
// handler (bad Idempotency-Key, rate limit, panic) uses the same envelope
// with its own codes.
const (
	ErrCodeBadRequest       = "bad_request"        // malformed JSON, path id or query
	ErrCodeValidation       = "validation_failed"  // well-formed input that breaks a medication or dose rule
	ErrCodeNotFound         = "not_found"          // unknown medication or unmatched route
	ErrCodeConflict         = "conflict"           // idempotency key points at a deleted medication
	ErrCodeMethodNotAllowed = "method_not_allowed" // route exists for another method
	ErrCodeInternal         = "internal_error"
)
