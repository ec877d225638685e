package stripecheckout

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/m04kA/SMC-PhotoBookingService/pkg/logger"
)

const testSecret = "whsec_test_secret"

func signedEvent(t *testing.T, eventType string, object map[string]interface{}) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"id":          "evt_test_1",
		"object":      "event",
		"created":     time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC).Unix(),
		"type":        eventType,
		"api_version": "2020-08-27",
		"data":        map[string]interface{}{"object": object},
	})
	require.NoError(t, err)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    testSecret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	return payload, signed.Header
}

func newWebhookClient() *Client {
	return NewClient(Settings{WebhookSecret: testSecret}, logger.NewNop())
}

func TestParseWebhook_CheckoutCompleted(t *testing.T) {
	payload, sig := signedEvent(t, EventCheckoutCompleted, map[string]interface{}{
		"id":                  "cs_test_123",
		"object":              "checkout.session",
		"client_reference_id": "ref-1",
		"payment_intent":      "pi_123",
		"metadata":            map[string]string{"bookingId": "42"},
	})

	event, err := newWebhookClient().ParseWebhook(payload, sig)
	require.NoError(t, err)

	assert.Equal(t, EventCheckoutCompleted, event.Type)
	assert.Equal(t, "cs_test_123", event.SessionID)
	assert.Equal(t, "ref-1", event.ClientReferenceID)
	assert.Equal(t, "pi_123", event.PaymentIntentID)
	assert.Equal(t, "42", event.Metadata["bookingId"])
	assert.Equal(t, time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC), event.Created)
}

func TestParseWebhook_ChargeFailed(t *testing.T) {
	payload, sig := signedEvent(t, EventChargeFailed, map[string]interface{}{
		"id":              "ch_1",
		"object":          "charge",
		"payment_intent":  "pi_999",
		"failure_message": "Your card was declined.",
	})

	event, err := newWebhookClient().ParseWebhook(payload, sig)
	require.NoError(t, err)

	assert.Equal(t, "pi_999", event.PaymentIntentID)
	assert.Equal(t, "Your card was declined.", event.FailureMessage)
}

func TestParseWebhook_UnknownTypeIsAccepted(t *testing.T) {
	payload, sig := signedEvent(t, "customer.created", map[string]interface{}{"id": "cus_1", "object": "customer"})

	event, err := newWebhookClient().ParseWebhook(payload, sig)
	require.NoError(t, err)
	assert.Equal(t, "customer.created", event.Type)
	assert.Empty(t, event.SessionID)
}

func TestParseWebhook_InvalidSignature(t *testing.T) {
	payload, _ := signedEvent(t, EventCheckoutCompleted, map[string]interface{}{"id": "cs_1", "object": "checkout.session"})

	_, err := newWebhookClient().ParseWebhook(payload, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestNotConfigured(t *testing.T) {
	c := NewClient(Settings{}, logger.NewNop())

	assert.False(t, c.IsConfigured())
	assert.False(t, c.WebhookConfigured())

	_, err := c.CreateCheckoutSession(context.Background(), CheckoutInput{Reference: "ref"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.ErrorIs(t, c.ExpireCheckoutSession(context.Background(), "cs_1"), ErrNotConfigured)

	_, err = c.ParseWebhook([]byte(`{}`), "sig")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
