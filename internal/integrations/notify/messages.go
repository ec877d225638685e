package notify

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
)

// Message уведомление клиенту: письмо и, если есть телефон, короткое SMS
type Message struct {
	ToEmail string
	ToName  string
	ToPhone string
	Subject string
	Text    string
	SMS     string
}

// PaymentConfirmed квитанция об оплате бронирования
func PaymentConfirmed(b *domain.Booking) Message {
	when := sessionTime(b)
	text := fmt.Sprintf(
		"Hi %s,\n\nYour payment has been received and your %s is confirmed.\n\nBooking: %s\nPackage: %s\nWhen: %s\nWhere: %s\n%s\nSee you soon!\n",
		firstName(b.ClientName), eventType(b), b.DisplayID(), b.PackageName, when, b.Location, amountLine("Paid", b.PackageAmount, b.PackageCurrency),
	)
	return Message{
		ToEmail: b.ClientEmail,
		ToName:  b.ClientName,
		ToPhone: b.ClientPhone,
		Subject: fmt.Sprintf("Booking confirmed %s", b.DisplayID()),
		Text:    text,
		SMS:     fmt.Sprintf("Booking %s confirmed for %s. See you soon!", b.DisplayID(), when),
	}
}

// BookingCancelled уведомление об отмене с расчетом возврата
func BookingCancelled(b *domain.Booking, refundPercent int, refundAmount int64) Message {
	refund := "No refund applies to this cancellation."
	if refundPercent > 0 {
		refund = fmt.Sprintf("A refund of %d%% (%s) will be processed to your original payment method.",
			refundPercent, formatAmount(refundAmount, b.PackageCurrency))
	}
	text := fmt.Sprintf(
		"Hi %s,\n\nYour booking %s for %s has been cancelled.\n\n%s\n",
		firstName(b.ClientName), b.DisplayID(), sessionTime(b), refund,
	)
	return Message{
		ToEmail: b.ClientEmail,
		ToName:  b.ClientName,
		ToPhone: b.ClientPhone,
		Subject: fmt.Sprintf("Booking cancelled %s", b.DisplayID()),
		Text:    text,
		SMS:     fmt.Sprintf("Booking %s has been cancelled.", b.DisplayID()),
	}
}

// RescheduleRequested подтверждение получения запроса на перенос
func RescheduleRequested(b *domain.Booking, newDate, newTime string) Message {
	text := fmt.Sprintf(
		"Hi %s,\n\nWe have received your request to move booking %s from %s to %s %s.\nWe will confirm the new time shortly.\n",
		firstName(b.ClientName), b.DisplayID(), sessionTime(b), newDate, newTime,
	)
	return Message{
		ToEmail: b.ClientEmail,
		ToName:  b.ClientName,
		Subject: fmt.Sprintf("Reschedule request received %s", b.DisplayID()),
		Text:    text,
	}
}

// ContactReceived подтверждение получения сообщения из контактной формы
func ContactReceived(m *domain.Message) Message {
	text := fmt.Sprintf(
		"Hi %s,\n\nThank you for getting in touch. We have received your message and will reply within 24 hours.\n\nReference: %s\nSubject: %s\n\nYour message:\n%s\n",
		firstName(m.Name), m.DisplayID(), m.Subject, m.Body,
	)
	return Message{
		ToEmail: m.Email,
		ToName:  m.Name,
		Subject: fmt.Sprintf("We received your message: %s", m.Subject),
		Text:    text,
	}
}

func sessionTime(b *domain.Booking) string {
	return b.EventDate.Format(domain.DateFormat) + " " + b.StartTime.String()
}

func eventType(b *domain.Booking) string {
	if b.EventType == "" {
		return strings.ToLower(domain.DefaultEventType)
	}
	return strings.ToLower(b.EventType)
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}

func amountLine(label string, amount *int64, currency *string) string {
	if amount == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s\n", label, formatAmount(*amount, currency))
}

// formatAmount форматирует сумму в минимальных единицах: 12345 -> "123.45 AUD"
func formatAmount(minor int64, currency *string) string {
	code := "AUD"
	if currency != nil && *currency != "" {
		code = strings.ToUpper(*currency)
	}
	return fmt.Sprintf("%d.%02d %s", minor/100, minor%100, code)
}
