package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Settings параметры каналов уведомлений
type Settings struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string
}

// Notifier отправляет email через SendGrid и SMS через Twilio
// Ненастроенный канал пропускается с ErrNotConfigured.
type Notifier struct {
	settings Settings
	email    *sendgrid.Client
	sms      *twilio.RestClient
	log      Logger
}

// NewNotifier создает отправителя уведомлений
func NewNotifier(settings Settings, log Logger) *Notifier {
	n := &Notifier{settings: settings, log: log}

	if settings.SendGridAPIKey != "" && settings.FromEmail != "" {
		n.email = sendgrid.NewSendClient(settings.SendGridAPIKey)
	}
	if settings.TwilioSID != "" && settings.TwilioToken != "" && settings.TwilioFrom != "" {
		n.sms = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username:   settings.TwilioSID,
			Password:   settings.TwilioToken,
			AccountSid: settings.TwilioSID,
		})
	}
	return n
}

// SendEmail отправляет письмо с текстовым телом
func (n *Notifier) SendEmail(ctx context.Context, msg Message) error {
	if n.email == nil {
		return ErrNotConfigured
	}
	if msg.ToEmail == "" {
		return fmt.Errorf("%w: empty recipient", ErrDelivery)
	}

	from := mail.NewEmail(n.settings.FromName, n.settings.FromEmail)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, "")

	resp, err := n.email.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("%w: sendgrid: %v", ErrDelivery, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: sendgrid returned %d: %s", ErrDelivery, resp.StatusCode, resp.Body)
	}

	n.log.Info("Notify: email sent to %s (subject=%q)", maskAddress(msg.ToEmail), msg.Subject)
	return nil
}

// SendSMS отправляет SMS; номер должен быть в формате E.164
func (n *Notifier) SendSMS(_ context.Context, to, body string) error {
	if n.sms == nil {
		return ErrNotConfigured
	}
	if !strings.HasPrefix(to, "+") {
		return fmt.Errorf("%w: phone number is not in E.164 format", ErrDelivery)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.settings.TwilioFrom)
	params.SetBody(body)

	resp, err := n.sms.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("%w: twilio: %v", ErrDelivery, err)
	}

	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	n.log.Info("Notify: sms sent to %s sid=%s", maskPhone(to), sid)
	return nil
}

// Deliver отправляет письмо и SMS (если есть телефон); ошибки каналов только логируются
func (n *Notifier) Deliver(ctx context.Context, msg Message) {
	if err := n.SendEmail(ctx, msg); err != nil && !errors.Is(err, ErrNotConfigured) {
		n.log.Warn("Notify: email to %s not delivered: %v", maskAddress(msg.ToEmail), err)
	}
	if msg.ToPhone == "" || msg.SMS == "" {
		return
	}
	if err := n.SendSMS(ctx, msg.ToPhone, msg.SMS); err != nil && !errors.Is(err, ErrNotConfigured) {
		n.log.Warn("Notify: sms to %s not delivered: %v", maskPhone(msg.ToPhone), err)
	}
}

func maskAddress(email string) string {
	at := strings.Index(email, "@")
	if at < 1 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "***"
	}
	return "***" + phone[len(phone)-4:]
}
