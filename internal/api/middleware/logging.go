package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// LoggingMiddleware пишет строку на каждый запрос; query не логируется, в нем бывает email клиента
func LoggingMiddleware(logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			switch {
			case rec.status >= http.StatusInternalServerError:
				logger.Error("HTTP %s %s - status=%d duration=%s", r.Method, r.URL.Path, rec.status, elapsed)
			case rec.status >= http.StatusBadRequest:
				logger.Warn("HTTP %s %s - status=%d duration=%s", r.Method, r.URL.Path, rec.status, elapsed)
			default:
				logger.Info("HTTP %s %s - status=%d duration=%s", r.Method, r.URL.Path, rec.status, elapsed)
			}
		})
	}
}
