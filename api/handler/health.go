package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/internal/infrastructure/monitor"
	"github.com/fastygo/taskflow/pkg/httpcontext"
)

// StatusReporter is satisfied by monitor.Monitor.
type StatusReporter interface {
	GetStatus() monitor.Status
}

type HealthHandler struct {
	baseHandler
	monitor StatusReporter
	appName string
}

func NewHealthHandler(mon StatusReporter, appName string, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
		appName:     appName,
	}
}

// @Summary Service banner
// @Tags health
// @Router / [get]
func (h *HealthHandler) Root(ctx *fasthttp.RequestCtx) {
	h.respondJSON(ctx, http.StatusOK, transport.Envelope{
		Success: true,
		Message: h.appName + " API is running",
	})
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	if status.Healthy {
		h.respondSuccess(ctx, http.StatusOK, status)
		return
	}

	envelope := transport.NewError("DEGRADED", "dependencies unhealthy")
	envelope.Data = status
	h.respondJSON(ctx, http.StatusServiceUnavailable, envelope)
}
