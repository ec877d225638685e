package submit_contact

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
)

const (
	maxNameLen      = 100
	maxPhoneLen     = 20
	maxSubjectLen   = 200
	maxMessageLen   = 2000
	maxUserAgentLen = 512
)

// normalize валидирует запрос и собирает сообщение для сохранения
func normalize(req *Request) (*domain.Message, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	msg := &domain.Message{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Subject:   strings.TrimSpace(req.Subject),
		Body:      strings.TrimSpace(req.Message),
		Status:    domain.MessageStatusNew,
		IPAddress: req.IPAddress,
		UserAgent: truncate(req.UserAgent, maxUserAgentLen),
	}
	if msg.Subject == "" {
		msg.Subject = domain.DefaultMessageSubject
	}

	switch {
	case msg.Name == "" || msg.Email == "" || msg.Body == "":
		return nil, fmt.Errorf("%w: name, email and message are required", ErrInvalidInput)
	case utf8.RuneCountInString(msg.Name) > maxNameLen:
		return nil, fmt.Errorf("%w: name is too long", ErrInvalidInput)
	case utf8.RuneCountInString(msg.Phone) > maxPhoneLen:
		return nil, fmt.Errorf("%w: phone is too long", ErrInvalidInput)
	case utf8.RuneCountInString(msg.Subject) > maxSubjectLen:
		return nil, fmt.Errorf("%w: subject is too long", ErrInvalidInput)
	case utf8.RuneCountInString(msg.Body) > maxMessageLen:
		return nil, fmt.Errorf("%w: message is too long", ErrInvalidInput)
	}

	addr, err := mail.ParseAddress(msg.Email)
	if err != nil || addr.Address != msg.Email {
		return nil, fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}

	return msg, nil
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
