package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/shoplist/api/internal/api/types"
	"github.com/shoplist/api/pkg/logger"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler { return &HealthHandler{db: db} }

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.StatusResponse{Status: "ok"})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			logger.L().Warn("readiness check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, types.StatusResponse{Status: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, types.StatusResponse{Status: "ready"})
}
