package get_availability

import "errors"

var (
	// ErrMissingParameters возвращается, когда не указаны ни дата, ни диапазон
	ErrMissingParameters = errors.New("date or range is required")

	// ErrInvalidRange возвращается, когда начало диапазона позже конца
	ErrInvalidRange = errors.New("range start must not be after range end")

	// ErrRangeTooLarge возвращается, когда диапазон превышает допустимое число дней
	ErrRangeTooLarge = errors.New("requested range is too large")

	// ErrStoreUnavailable возвращается, когда хранилище бронирований недоступно
	// Fallback не применяется: иначе сбой БД выглядел бы как лишние свободные слоты
	ErrStoreUnavailable = errors.New("get_availability: booking store unavailable")
)
