package stripecheckout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// Client клиент платежного провайдера: checkout-сессии и проверка вебхуков
type Client struct {
	api      *client.API
	settings Settings
	log      Logger
}

// NewClient создает клиент; без секретного ключа клиент создается в выключенном состоянии
func NewClient(settings Settings, log Logger) *Client {
	c := &Client{settings: settings, log: log}
	if settings.SecretKey != "" {
		c.api = client.New(settings.SecretKey, stripe.NewBackends(&http.Client{
			Timeout: settings.Timeout,
		}))
	}
	return c
}

// IsConfigured сообщает, можно ли создавать checkout-сессии
func (c *Client) IsConfigured() bool {
	return c.api != nil
}

// WebhookConfigured сообщает, задан ли секрет подписи вебхука
func (c *Client) WebhookConfigured() bool {
	return c.settings.WebhookSecret != ""
}

// CreateCheckoutSession создает сессию оплаты пакета в режиме payment
func (c *Client) CreateCheckoutSession(ctx context.Context, input CheckoutInput) (*Session, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(input.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(c.settings.SuccessURL),
		CancelURL:         stripe.String(c.settings.CancelURL),
		ClientReferenceID: stripe.String(input.Reference),
		PhoneNumberCollection: &stripe.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripe.Bool(true),
		},
	}
	if input.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(input.CustomerEmail)
	}
	for k, v := range input.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx
	// повтор с тем же reference вернет ту же сессию, а не создаст вторую
	params.IdempotencyKey = stripe.String("checkout:" + input.Reference)

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create checkout session: %v", ErrInternal, err)
	}

	c.log.Info("StripeCheckout: session created id=%s reference=%s", session.ID, input.Reference)
	return &Session{ID: session.ID, URL: session.URL}, nil
}

// ExpireCheckoutSession закрывает незавершенную сессию, чтобы по ней нельзя было оплатить
func (c *Client) ExpireCheckoutSession(ctx context.Context, sessionID string) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}
	if sessionID == "" {
		return nil
	}

	params := &stripe.CheckoutSessionExpireParams{}
	params.Context = ctx

	if _, err := c.api.CheckoutSessions.Expire(sessionID, params); err != nil {
		return fmt.Errorf("%w: failed to expire checkout session %s: %v", ErrInternal, sessionID, err)
	}

	c.log.Info("StripeCheckout: session expired id=%s", sessionID)
	return nil
}

// ParseWebhook проверяет подпись и приводит событие к нейтральному виду
// Для неизвестных типов событий заполняются только ID, Type и Created.
func (c *Client) ParseWebhook(payload []byte, signature string) (*Event, error) {
	if !c.WebhookConfigured() {
		return nil, ErrNotConfigured
	}

	evt, err := webhook.ConstructEventWithOptions(payload, signature, c.settings.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	event := &Event{
		ID:      evt.ID,
		Type:    string(evt.Type),
		Created: time.Unix(evt.Created, 0).UTC(),
	}
	if evt.Data == nil {
		return event, nil
	}

	switch event.Type {
	case EventCheckoutCompleted, EventCheckoutExpired:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(evt.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("%w: checkout session: %v", ErrInvalidPayload, err)
		}
		event.SessionID = session.ID
		event.ClientReferenceID = session.ClientReferenceID
		event.Metadata = session.Metadata
		if session.PaymentIntent != nil {
			event.PaymentIntentID = session.PaymentIntent.ID
		}

	case EventChargeFailed:
		var charge stripe.Charge
		if err := json.Unmarshal(evt.Data.Raw, &charge); err != nil {
			return nil, fmt.Errorf("%w: charge: %v", ErrInvalidPayload, err)
		}
		event.FailureMessage = charge.FailureMessage
		event.Metadata = charge.Metadata
		if charge.PaymentIntent != nil {
			event.PaymentIntentID = charge.PaymentIntent.ID
		}
	}

	return event, nil
}
