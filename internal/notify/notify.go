// Package notify delivers reminder messages to the user. Log writes them to
// the structured log; WhatsApp sends them through Twilio; Fanout combines
// several notifiers.
package notify

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// Log writes notifications to a zerolog logger.
type Log struct {
	Logger zerolog.Logger
}

// Notify implements services.Notifier.
func (l Log) Notify(_ context.Context, title, body string) error {
	l.Logger.Info().Str("title", title).Str("body", body).Msg("reminder")
	return nil
}

// Notifier is the single-method delivery contract shared with services.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Fanout sends every notification to all of its notifiers, continuing past
// failures, and returns the joined errors.
type Fanout []Notifier

// Notify implements services.Notifier.
func (f Fanout) Notify(ctx context.Context, title, body string) error {
	var errs []error
	for _, n := range f {
		if err := n.Notify(ctx, title, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
