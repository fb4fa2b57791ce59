// Dose HTTP handlers.
//
//   - POST /doses  (mark a dose slot taken; upsert by medication, date and time)
//   - GET  /doses  (list dose logs, optionally for one medication)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-med-tracker/internal/domain"
	"github.com/tbourn/go-med-tracker/internal/services"
)

// ListDosesResponse wraps dose logs.
type ListDosesResponse struct {
	Logs []domain.DoseLog `json:"logs"`
}

// MarkDoseTaken godoc
// @ID          markDoseTaken
// @Summary     Mark a dose as taken
// @Description Records the dose slot (medication, date, time) as taken. Repeating the call overwrites mood and side effects.
// @Description An empty date means today in the tracker's time zone.
// @Tags        Doses
// @Accept      json
// @Produce     json
// @Param       body  body      services.DoseInput  true  "Dose slot and report"
// @Success     200   {object}  services.DoseResult
// @Failure     400   {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404   {object}  handlers.ErrorResponse  "Medication not found"
// @Failure     422   {object}  handlers.ErrorResponse  "Validation failed"
// @Router      /doses [post]
func (h *Handlers) MarkDoseTaken(c *gin.Context) {
	var in services.DoseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	res, err := h.tracker.MarkDoseTaken(c.Request.Context(), in)
	if failService(c, err) {
		return
	}
	ok(c, http.StatusOK, res)
}

// ListDoses godoc
// @ID          listDoses
// @Summary     List dose logs
// @Tags        Doses
// @Produce     json
// @Param       medicationId  query     string  false  "Only logs of this medication"
// @Success     200           {object}  handlers.ListDosesResponse
// @Router      /doses [get]
func (h *Handlers) ListDoses(c *gin.Context) {
	medID := strings.TrimSpace(c.Query("medicationId"))
	ok(c, http.StatusOK, ListDosesResponse{Logs: h.tracker.Logs(medID)})
}
