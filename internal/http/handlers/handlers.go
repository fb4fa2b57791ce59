// Package handlers exposes the medication tracker over REST.
//
// Handlers are transport-thin: they bind input, call the tracker service, and
// translate results into HTTP responses. Service errors are mapped to the
// ErrorResponse envelope by failService.
package handlers

import (
	"context"
	"time"

	"github.com/tbourn/go-med-tracker/internal/analytics"
	"github.com/tbourn/go-med-tracker/internal/domain"
	"github.com/tbourn/go-med-tracker/internal/services"
)

//
// Service contracts (context-aware)
//

// Tracker is the medication tracker as consumed by HTTP handlers.
//
// Implementations must be safe for concurrent use. Mutations honor the
// provided context for cancellation of the persistence step.
type Tracker interface {
	AddMedication(ctx context.Context, in services.MedicationInput) (*domain.Medication, error)
	UpdateMedication(ctx context.Context, id string, p services.MedicationPatch) (*domain.Medication, error)
	DeleteMedication(ctx context.Context, id string) error
	MarkDoseTaken(ctx context.Context, in services.DoseInput) (*services.DoseResult, error)

	Medications() []domain.Medication
	Medication(id string) (*domain.Medication, error)
	Logs(medicationID string) []domain.DoseLog

	TodaySchedule(ctx context.Context) []analytics.ScheduleItem
	TodayStats(ctx context.Context) analytics.DayStats
	Analytics(ctx context.Context, days int) services.AnalyticsReport
	Insights(ctx context.Context) services.InsightsReport
	Interactions(ctx context.Context) services.InteractionsReport
	DueAt(at time.Time) []domain.Medication
	Clock() time.Time
}

// IdempotencyRecorder remembers which resource a keyed request created, so a
// retry with the same key can be answered with it.
type IdempotencyRecorder interface {
	Remember(ctx context.Context, scope, key, resourceID string) error
}

//
// Handler wiring
//

// Handlers groups the tracker endpoints.
type Handlers struct {
	tracker Tracker
	idem    IdempotencyRecorder
}

// New constructs Handlers. idem may be nil, which disables recording of
// idempotent creations.
func New(tracker Tracker, idem IdempotencyRecorder) *Handlers {
	return &Handlers{tracker: tracker, idem: idem}
}
