package zohocalendar

import "errors"

var (
	// ErrNotConfigured возвращается, когда не заданы OAuth-параметры или пользователь free/busy
	ErrNotConfigured = errors.New("zohocalendar client: not configured")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("zohocalendar client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от календаря
	ErrInvalidResponse = errors.New("zohocalendar client: invalid response")

	// ErrUnauthorized возвращается, когда не удалось получить или применить access token
	ErrUnauthorized = errors.New("zohocalendar client: unauthorized")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что календарь недоступен и доступность строится по внутренним бронированиям
	ErrServiceDegraded = errors.New("zohocalendar unavailable: graceful degradation applied")
)
