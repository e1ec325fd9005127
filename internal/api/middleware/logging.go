package middleware

import (
	"net/http"
	"time"

	"github.com/shoplist/api/internal/auth"
	"github.com/shoplist/api/pkg/logger"
	"go.uber.org/zap"
)

// Logging logs basic request information with request ID.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		fields := []zap.Field{
			zap.String("id", GetRequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rw.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		}
		if rw.status >= http.StatusInternalServerError {
			logger.L().Warn("request", fields...)
			return
		}
		logger.L().Info("request", fields...)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) { s.status = code; s.ResponseWriter.WriteHeader(code) }

// CallerFields returns log fields identifying the request and, when known, the caller.
func CallerFields(r *http.Request) []zap.Field {
	fields := []zap.Field{zap.String("request_id", GetRequestID(r.Context()))}
	if id, ok := auth.FromContext(r.Context()); ok {
		fields = append(fields, zap.Int64("user_id", id.UserID))
	}
	return fields
}
