package notifications

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/caresync/authsvc/domain"
)

// TwilioSMSImpl implements domain.SMSSender
type TwilioSMSImpl struct {
	client     *twilio.RestClient
	fromNumber string
	logger     zerolog.Logger
}

// NewTwilioSMS creates a new Twilio SMS sender
func NewTwilioSMS(accountSID, authToken, fromNumber string, logger zerolog.Logger) domain.SMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioSMSImpl{
		client:     client,
		fromNumber: fromNumber,
		logger:     logger,
	}
}

// Send implements domain.SMSSender
func (t *TwilioSMSImpl) Send(to, message string) error {
	// If credentials are not configured, log instead of sending
	if t.fromNumber == "" {
		t.logger.Info().Str("to", to).Str("message", message).Msg("mock SMS")
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	_, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	return nil
}
