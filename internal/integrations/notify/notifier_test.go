package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/logger"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/ptr"
)

func testBooking() *domain.Booking {
	return &domain.Booking{
		Reference:       "6f1c2a9e-2b7d-4c1e-9a55-3f9a1c0de8b1",
		ClientName:      "Jane Citizen",
		ClientEmail:     "jane@example.com",
		ClientPhone:     "+61400000000",
		EventDate:       time.Date(2025, 12, 6, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:30",
		Location:        "Westfield",
		PackageName:     "Rudolph",
		PackageAmount:   ptr.Ptr(int64(12995)),
		PackageCurrency: ptr.Ptr("aud"),
	}
}

func TestPaymentConfirmed(t *testing.T) {
	msg := PaymentConfirmed(testBooking())

	assert.Equal(t, "jane@example.com", msg.ToEmail)
	assert.Equal(t, "Booking confirmed BK-0DE8B1", msg.Subject)
	assert.Contains(t, msg.Text, "Hi Jane,")
	assert.Contains(t, msg.Text, "2025-12-06 10:30")
	assert.Contains(t, msg.Text, "Paid: 129.95 AUD")
	assert.Contains(t, msg.SMS, "confirmed")
}

func TestBookingCancelled(t *testing.T) {
	t.Run("with refund", func(t *testing.T) {
		msg := BookingCancelled(testBooking(), 50, 6498)
		assert.Contains(t, msg.Text, "A refund of 50% (64.98 AUD)")
	})

	t.Run("without refund", func(t *testing.T) {
		msg := BookingCancelled(testBooking(), 0, 0)
		assert.Contains(t, msg.Text, "No refund applies")
	})
}

func TestRescheduleRequested_HasNoSMS(t *testing.T) {
	msg := RescheduleRequested(testBooking(), "2025-12-10", "11:00")

	assert.Contains(t, msg.Text, "to 2025-12-10 11:00")
	assert.Empty(t, msg.SMS)
}

func TestContactReceived(t *testing.T) {
	msg := ContactReceived(&domain.Message{
		ID:      42,
		Name:    "Jane Citizen",
		Email:   "jane@example.com",
		Phone:   "+61400000000",
		Subject: "Family portraits",
		Body:    "Do you have weekend sessions?",
	})

	assert.Equal(t, "jane@example.com", msg.ToEmail)
	assert.Equal(t, "We received your message: Family portraits", msg.Subject)
	assert.Contains(t, msg.Text, "Hi Jane,")
	assert.Contains(t, msg.Text, "Reference: MSG-000042")
	assert.Contains(t, msg.Text, "Do you have weekend sessions?")
	assert.Empty(t, msg.ToPhone)
	assert.Empty(t, msg.SMS)
}

func TestNotifier_UnconfiguredChannels(t *testing.T) {
	n := NewNotifier(Settings{}, logger.NewNop())

	assert.ErrorIs(t, n.SendEmail(context.Background(), Message{ToEmail: "a@b.c"}), ErrNotConfigured)
	assert.ErrorIs(t, n.SendSMS(context.Background(), "+61400000000", "hi"), ErrNotConfigured)

	// Deliver не паникует и не возвращает ошибок без настроенных каналов
	n.Deliver(context.Background(), PaymentConfirmed(testBooking()))
}

func TestMasking(t *testing.T) {
	assert.Equal(t, "j***@example.com", maskAddress("jane@example.com"))
	assert.Equal(t, "***", maskAddress("broken"))
	assert.Equal(t, "***0000", maskPhone("+61400000000"))
}
