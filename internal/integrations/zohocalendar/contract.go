package zohocalendar

import (
	"context"
	"time"
)

// TokenCache хранилище access token с явным временем истечения
type TokenCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, expiresAt time.Time) error
	Invalidate(ctx context.Context, key string) error
}

// Clock источник текущего времени
type Clock interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}
