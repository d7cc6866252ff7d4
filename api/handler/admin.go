package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	adminUC "github.com/fastygo/taskflow/usecase/admin"
)

type AdminHandler struct {
	baseHandler
	uc *adminUC.UseCase
}

func NewAdminHandler(uc *adminUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List every task with its owner
// @Tags admin
// @Router /admin/tasks [get]
func (h *AdminHandler) GetAllTasks(ctx *fasthttp.RequestCtx) {
	identity, ok := h.identity(ctx)
	if !ok {
		return
	}
	query, err := transport.ParseTaskQuery(ctx.QueryArgs())
	if err != nil {
		h.respondError(ctx, nil, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	page, err := h.uc.ListTasks(stdCtx, identity, query)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewPage(page))
}

// @Summary List one user's tasks
// @Tags admin
// @Router /admin/users/{id}/tasks [get]
func (h *AdminHandler) GetUserTasks(ctx *fasthttp.RequestCtx) {
	identity, ok := h.identity(ctx)
	if !ok {
		return
	}
	query, err := transport.ParseTaskQuery(ctx.QueryArgs())
	if err != nil {
		h.respondError(ctx, nil, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.ListUserTasks(stdCtx, identity, pathID(ctx), query)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	envelope := transport.NewPage(result.Tasks)
	envelope.User = &result.User
	h.respondJSON(ctx, http.StatusOK, envelope)
}
