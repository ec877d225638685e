package stripe_webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-PhotoBookingService/internal/api/handlers"
	confirmPayment "github.com/m04kA/SMC-PhotoBookingService/internal/usecase/confirm_payment"
)

const (
	headerSignature = "Stripe-Signature"

	// Stripe ограничивает тело события 512 КБ
	maxPayloadBytes = 512 * 1024

	msgInvalidPayload   = "Unable to read webhook payload."
	msgInvalidSignature = "Webhook signature verification failed."
	msgNotConfigured    = "Stripe webhook is not configured."
)

// ReceivedResponse подтверждение получения события
type ReceivedResponse struct {
	Received bool `json:"received"`
}

type Handler struct {
	useCase ConfirmPaymentUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/webhooks/stripe
// Тело читается без декодирования: подпись считается по сырым байтам
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		h.logger.Warn("POST /webhooks/stripe - Failed to read payload: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPayload)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmPayment.Request{
		Payload:   payload,
		Signature: r.Header.Get(headerSignature),
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmPayment.ErrNotConfigured):
			h.logger.Error("POST /webhooks/stripe - Webhook secret is not configured")
			handlers.RespondServiceUnavailable(w, msgNotConfigured)
			return

		case errors.Is(err, confirmPayment.ErrInvalidSignature):
			h.logger.Warn("POST /webhooks/stripe - Invalid signature: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSignature)
			return

		default:
			// Событие получено и подпись верна; ошибка обработки не повод для повторной доставки
			eventID, eventType := "", ""
			if result != nil {
				eventID, eventType = result.EventID, result.EventType
			}
			h.logger.Error("POST /webhooks/stripe - Failed to process event: event_id=%s, type=%s, error=%v",
				eventID, eventType, err)
			handlers.RespondJSON(w, http.StatusOK, &ReceivedResponse{Received: true})
			return
		}
	}

	h.logger.Info("POST /webhooks/stripe - Event processed: event_id=%s, type=%s, result=%s, booking_id=%d",
		result.EventID, result.EventType, result.Result, result.BookingID)
	handlers.RespondJSON(w, http.StatusOK, &ReceivedResponse{Received: true})
}
