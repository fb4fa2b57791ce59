package middleware

import "github.com/gin-gonic/gin"

// Error codes emitted before a request reaches a handler. They share the
// envelope of handlers.ErrorResponse.
const (
	CodeBadIdempotencyKey = "bad_idempotency_key"
	CodeTooManyRequests   = "too_many_requests"
	CodeInternal          = "internal_error"
)

type errorBody struct {
	RequestID string `json:"request_id,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// abort stops the chain with the standard error envelope.
func abort(c *gin.Context, status int, code, msg string) {
	rid, _ := c.Get(requestIDKey)
	c.AbortWithStatusJSON(status, errorBody{RequestID: asString(rid), Code: code, Message: msg})
}
