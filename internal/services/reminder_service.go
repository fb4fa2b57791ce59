// Package services – ReminderService
//
// ReminderService turns the once-a-minute tick into reminder notifications.
// On each tick it looks up the medications whose reminder time equals the
// current HH:MM and, the first time a given minute is seen, sends one general
// message followed by one message per due medication.
package services

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-med-tracker/internal/analytics"
	"github.com/tbourn/go-med-tracker/internal/domain"
)

// Notifier delivers a reminder to the user.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// ReminderService detects and announces due reminders.
type ReminderService struct {
	Tracker  *TrackerService
	Notifier Notifier

	mu       sync.Mutex
	lastSeen string
}

// NewReminderService wires a ReminderService to the tracker's clock and state.
func NewReminderService(t *TrackerService, n Notifier) *ReminderService {
	return &ReminderService{Tracker: t, Notifier: n}
}

// Tick checks the current minute and notifies about due medications. It
// returns the medications announced; a minute already handled yields none.
// Notification failures are logged and joined into the returned error.
func (r *ReminderService) Tick(ctx context.Context) ([]domain.Medication, error) {
	tr := otel.Tracer("services/ReminderService")
	ctx, span := tr.Start(ctx, "Tick")
	defer span.End()

	now := r.Tracker.Clock()
	minute := analytics.DateOf(now) + " " + now.Format(domain.TimeLayout)

	r.mu.Lock()
	if minute == r.lastSeen {
		r.mu.Unlock()
		return nil, nil
	}
	r.lastSeen = minute
	r.mu.Unlock()

	due := r.Tracker.DueAt(now)
	span.SetAttributes(attribute.String("minute", minute), attribute.Int("due", len(due)))
	if len(due) == 0 || r.Notifier == nil {
		return due, nil
	}

	var errs []error
	send := func(title, body string) {
		if err := r.Notifier.Notify(ctx, title, body); err != nil {
			remindersSent.WithLabelValues("failed").Inc()
			log.Warn().Err(err).Str("title", title).Msg("reminder not delivered")
			errs = append(errs, err)
			return
		}
		remindersSent.WithLabelValues("sent").Inc()
	}

	send("Medication Reminder", analytics.GeneralReminderMessage(len(due)))
	for _, m := range due {
		send(m.Name, analytics.ReminderMessage(m))
	}
	return due, errors.Join(errs...)
}
