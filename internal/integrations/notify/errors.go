package notify

import "errors"

var (
	// ErrNotConfigured возвращается, когда канал отправки не настроен
	ErrNotConfigured = errors.New("notify: channel not configured")

	// ErrDelivery возвращается, когда провайдер отклонил сообщение
	ErrDelivery = errors.New("notify: delivery failed")
)
