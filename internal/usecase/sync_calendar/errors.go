package sync_calendar

import "errors"

var (
	// ErrNotConfigured возвращается, когда календарь не настроен
	ErrNotConfigured = errors.New("sync_calendar: calendar is not configured")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("sync_calendar: internal error")
)
