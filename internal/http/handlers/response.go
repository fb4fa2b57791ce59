package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-med-tracker/internal/http/middleware"
	"github.com/tbourn/go-med-tracker/internal/services"
)

// headerWarning carries a non-fatal problem alongside a successful response.
const headerWarning = "Warning"

// ErrorResponse is the error body of every endpoint.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	Code      string `json:"code" example:"validation_failed"`
	Message   string `json:"message" example:"times: at least one reminder time is required"`
}

// fail aborts with an ErrorResponse. 5xx responses are also logged through
// the request-scoped logger so they carry route and request_id.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Msg(msg)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail lets the router answer 404/405 with the same envelope.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) { c.JSON(status, body) }

func noContent(c *gin.Context) { c.Status(http.StatusNoContent) }

// failService maps a service error to the error envelope. It reports whether
// the request was aborted; persistence failures are not fatal here because
// the change was applied in memory, so they only add a Warning header.
func failService(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, services.ErrValidation):
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, err.Error())
	case errors.Is(err, services.ErrMedicationNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "medication not found")
	case errors.Is(err, services.ErrPersistence):
		middleware.LoggerFrom(c).Warn().Err(err).Msg("change not persisted")
		c.Header(headerWarning, `199 - "change applied but not persisted"`)
		return false
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
	return true
}
