package confirm_payment

import "errors"

var (
	// ErrNotConfigured возвращается, когда секрет вебхука не задан
	ErrNotConfigured = errors.New("confirm_payment: webhook secret is not configured")

	// ErrInvalidSignature возвращается, когда подпись или тело вебхука не прошли проверку
	ErrInvalidSignature = errors.New("confirm_payment: invalid webhook signature")

	// ErrSlotReleased возвращается, когда оплата пришла после освобождения слота, который уже занят другим бронированием
	ErrSlotReleased = errors.New("confirm_payment: slot was released before payment arrived")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_payment: internal error")
)
