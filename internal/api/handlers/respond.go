package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/shoplist/api/internal/api/middleware"
	"github.com/shoplist/api/internal/api/types"
	appErr "github.com/shoplist/api/pkg/errors"
	"github.com/shoplist/api/pkg/logger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status and body. Server-side failures are logged
// with their detail and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := types.StatusFor(appErr.CodeOf(err))
	if status >= http.StatusInternalServerError {
		fields := append(middleware.CallerFields(r),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		logger.L().Error("request failed", fields...)
	}
	writeJSON(w, status, types.FromAppError(err))
}

func writeErrorStr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.APIError{Code: string(appErr.CodeInvalid), Message: msg})
}
