package submit_contact

import (
	"net"
	"net/http"

	submitContact "github.com/m04kA/SMC-PhotoBookingService/internal/usecase/submit_contact"
)

// SubmitContactRequest HTTP request model
type SubmitContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// SubmitContactResponse HTTP response model
type SubmitContactResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	MessageID int64  `json:"messageId"`
	Reference string `json:"reference"`
	EmailSent bool   `json:"emailSent"`
}

// ToUseCaseRequest конвертирует HTTP request в запрос use case
func (r *SubmitContactRequest) ToUseCaseRequest(httpReq *http.Request) *submitContact.Request {
	return &submitContact.Request{
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Subject:   r.Subject,
		Message:   r.Message,
		IPAddress: clientIP(httpReq),
		UserAgent: httpReq.UserAgent(),
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *submitContact.Response) *SubmitContactResponse {
	return &SubmitContactResponse{
		Success:   true,
		Message:   "Message sent successfully!",
		MessageID: resp.MessageID,
		Reference: resp.DisplayID,
		EmailSent: resp.EmailSent,
	}
}

// clientIP адрес клиента; за прокси RemoteAddr уже переписан middleware ProxyHeaders
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
