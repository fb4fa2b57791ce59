// Medication HTTP handlers.
//
// This file exposes REST endpoints for medication resources:
//   - POST   /medications        (create, Idempotency-Key aware)
//   - GET    /medications        (list in insertion order)
//   - GET    /medications/{id}   (fetch one)
//   - PATCH  /medications/{id}   (partial update)
//   - DELETE /medications/{id}   (delete with its dose logs)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-med-tracker/internal/domain"
	"github.com/tbourn/go-med-tracker/internal/http/middleware"
	"github.com/tbourn/go-med-tracker/internal/services"
)

// headerIdempotencyReplayed marks a response served from a previous request.
const headerIdempotencyReplayed = "Idempotency-Replayed"

// ListMedicationsResponse wraps the medication collection.
type ListMedicationsResponse struct {
	Medications []domain.Medication `json:"medications"`
}

// pathMedicationID returns the :id path parameter, failing the request with
// 400 when it is not a UUID.
func pathMedicationID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "medication id must be a UUID")
		return "", false
	}
	return id, true
}

// CreateMedication godoc
// @ID          createMedication
// @Summary     Register a medication
// @Description Validates and stores a new medication. Start date defaults to today, color to the first palette entry and category to "General".
// @Description Supports idempotency via the Idempotency-Key header (same key → same medication).
// @Tags        Medications
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    services.MedicationInput  true  "Medication"
//
// @Success     201  {object}  domain.Medication
// @Header      201  {string}  Idempotency-Replayed  "true when served from a previous request"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Key was used for a medication that no longer exists"
// @Failure     422  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /medications [post]
func (h *Handlers) CreateMedication(c *gin.Context) {
	if middleware.IsReplay(c) {
		if id := middleware.ReplayResourceID(c); id != "" {
			m, err := h.tracker.Medication(id)
			if err != nil {
				fail(c, http.StatusConflict, ErrCodeConflict, "idempotency key refers to a deleted medication")
				return
			}
			c.Header(headerIdempotencyReplayed, "true")
			ok(c, http.StatusCreated, m)
			return
		}
	}

	var in services.MedicationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ctx := c.Request.Context()
	m, err := h.tracker.AddMedication(ctx, in)
	if failService(c, err) {
		return
	}

	// Best effort: a lost record only means a retry creates a second entry.
	if key, has := middleware.GetIdempotencyKey(c); has && h.idem != nil {
		if rerr := h.idem.Remember(ctx, middleware.IdempotencyScope(c), key, m.ID); rerr != nil {
			middleware.LoggerFrom(c).Warn().Err(rerr).Str("medication_id", m.ID).Msg("idempotency record failed")
		}
	}
	ok(c, http.StatusCreated, m)
}

// ListMedications godoc
// @ID          listMedications
// @Summary     List medications
// @Description Returns every medication in insertion order.
// @Tags        Medications
// @Produce     json
// @Success     200  {object}  handlers.ListMedicationsResponse
// @Router      /medications [get]
func (h *Handlers) ListMedications(c *gin.Context) {
	ok(c, http.StatusOK, ListMedicationsResponse{Medications: h.tracker.Medications()})
}

// GetMedication godoc
// @ID          getMedication
// @Summary     Fetch a medication
// @Tags        Medications
// @Produce     json
// @Param       id   path      string  true  "Medication ID (UUID)"  format(uuid)
// @Success     200  {object}  domain.Medication
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Medication not found"
// @Router      /medications/{id} [get]
func (h *Handlers) GetMedication(c *gin.Context) {
	id, valid := pathMedicationID(c)
	if !valid {
		return
	}
	m, err := h.tracker.Medication(id)
	if failService(c, err) {
		return
	}
	ok(c, http.StatusOK, m)
}

// UpdateMedication godoc
// @ID          updateMedication
// @Summary     Update a medication
// @Description Applies a partial update. Omitted fields are unchanged; an empty string clears an optional field.
// @Tags        Medications
// @Accept      json
// @Produce     json
// @Param       id    path      string                    true  "Medication ID (UUID)"  format(uuid)
// @Param       body  body      services.MedicationPatch  true  "Fields to change"
// @Success     200   {object}  domain.Medication
// @Failure     400   {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404   {object}  handlers.ErrorResponse  "Medication not found"
// @Failure     422   {object}  handlers.ErrorResponse  "Validation failed"
// @Router      /medications/{id} [patch]
func (h *Handlers) UpdateMedication(c *gin.Context) {
	id, valid := pathMedicationID(c)
	if !valid {
		return
	}
	var p services.MedicationPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	m, err := h.tracker.UpdateMedication(c.Request.Context(), id, p)
	if failService(c, err) {
		return
	}
	ok(c, http.StatusOK, m)
}

// DeleteMedication godoc
// @ID          deleteMedication
// @Summary     Delete a medication
// @Description Removes the medication and all of its dose logs. Deleting an unknown id is a no-op.
// @Tags        Medications
// @Param       id   path    string  true  "Medication ID (UUID)"  format(uuid)
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /medications/{id} [delete]
func (h *Handlers) DeleteMedication(c *gin.Context) {
	id, valid := pathMedicationID(c)
	if !valid {
		return
	}
	err := h.tracker.DeleteMedication(c.Request.Context(), id)
	if errors.Is(err, services.ErrMedicationNotFound) {
		err = nil
	}
	if failService(c, err) {
		return
	}
	noContent(c)
}
