package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// messageCreator is the slice of the Twilio API the notifier uses.
type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// WhatsApp sends reminders as WhatsApp messages through Twilio.
type WhatsApp struct {
	api  messageCreator
	from string
	to   string
}

// NewWhatsApp creates a notifier sending from the configured WhatsApp sender
// number to the user's phone.
func NewWhatsApp(accountSID, authToken, from, to string) *WhatsApp {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{Username: accountSID, Password: authToken})
	return &WhatsApp{api: client.Api, from: from, to: to}
}

// Notify implements services.Notifier.
func (w *WhatsApp) Notify(ctx context.Context, title, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sender := whatsAppAddress(w.from)
	if sender == "" {
		return fmt.Errorf("twilio sender WhatsApp number is not configured")
	}
	recipient := whatsAppAddress(w.to)
	if recipient == "" {
		return fmt.Errorf("recipient number missing or invalid")
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(recipient)
	params.SetFrom(sender)
	params.SetBody(fmt.Sprintf("%s\n%s", title, body))

	resp, err := w.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send message: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		log.Debug().Str("sid", *resp.Sid).Msg("whatsapp reminder sent")
	}
	return nil
}

// whatsAppAddress normalizes a phone number to Twilio's "whatsapp:+N" form.
func whatsAppAddress(number string) string {
	trimmed := strings.TrimSpace(number)
	switch {
	case trimmed == "":
		return ""
	case strings.HasPrefix(trimmed, "whatsapp:"):
		return trimmed
	case strings.HasPrefix(trimmed, "+"):
		return "whatsapp:" + trimmed
	default:
		return "whatsapp:+" + trimmed
	}
}
