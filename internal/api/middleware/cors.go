package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// CORS разрешает браузерные запросы с сайта бронирования
// Пустой список origins разрешает любой источник
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Idempotency-Key"}),
		handlers.MaxAge(600),
	)
}

// ProxyHeaders переписывает RemoteAddr и схему из X-Forwarded-For/X-Real-IP/X-Forwarded-Proto
// Включается только за доверенным обратным прокси.
func ProxyHeaders(trusted bool) func(http.Handler) http.Handler {
	if !trusted {
		return func(next http.Handler) http.Handler { return next }
	}
	return handlers.ProxyHeaders
}

// Recovery перехватывает панику обработчика и отвечает 500
func Recovery(logger Logger) func(http.Handler) http.Handler {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger: logger}),
		handlers.PrintRecoveryStack(false),
	)
}

type recoveryLogger struct {
	logger Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error("HTTP panic recovered: %v", v)
}
