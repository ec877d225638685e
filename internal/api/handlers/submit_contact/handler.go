package submit_contact

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-PhotoBookingService/internal/api/handlers"
	submitContact "github.com/m04kA/SMC-PhotoBookingService/internal/usecase/submit_contact"
)

const (
	msgInvalidRequestBody = "Invalid request body"
	msgMissingFields      = "Missing required fields (name, email, message)"
	msgInvalidInput       = "Please check your details and try again"
	msgSendFailed         = "Failed to send message"
)

type Handler struct {
	useCase SubmitContactUseCase
	logger  Logger
}

func NewHandler(useCase SubmitContactUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/contact-messages
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req SubmitContactRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /contact-messages - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Message) == "" {
		h.logger.Warn("POST /contact-messages - Missing required fields")
		handlers.RespondBadRequest(w, msgMissingFields)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(r))
	if err != nil {
		switch {
		case errors.Is(err, submitContact.ErrInvalidInput):
			h.logger.Warn("POST /contact-messages - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /contact-messages - Failed to store message: error=%v", err)
			handlers.RespondError(w, http.StatusInternalServerError, msgSendFailed)
		}
		return
	}

	h.logger.Info("POST /contact-messages - Message received: message_id=%d, email_sent=%t", result.MessageID, result.EmailSent)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
