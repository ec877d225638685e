package stripecheckout

import "errors"

var (
	// ErrNotConfigured возвращается, когда не задан секретный ключ или секрет вебхука
	ErrNotConfigured = errors.New("stripecheckout client: not configured")

	// ErrInternal возвращается при ошибках обращения к платежному провайдеру
	ErrInternal = errors.New("stripecheckout client: internal error")

	// ErrInvalidSignature возвращается, когда подпись вебхука не прошла проверку
	ErrInvalidSignature = errors.New("stripecheckout client: invalid webhook signature")

	// ErrInvalidPayload возвращается, когда объект события не удалось разобрать
	ErrInvalidPayload = errors.New("stripecheckout client: invalid event payload")
)
