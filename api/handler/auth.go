package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	authUC "github.com/fastygo/taskflow/usecase/auth"
	profileUC "github.com/fastygo/taskflow/usecase/profile"
)

type AuthHandler struct {
	baseHandler
	uc      *authUC.UseCase
	profile *profileUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, profile *profileUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		profile:     profile,
	}
}

// @Summary Register a new user
// @Tags auth
// @Router /auth/register [post]
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if !h.decode(ctx, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		h.respondError(ctx, nil, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Register(stdCtx, req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.Envelope{
		Success: true,
		Message: "User registered successfully",
		Data:    user,
	})
}

// @Summary Exchange credentials for a bearer token
// @Tags auth
// @Router /auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if !h.decode(ctx, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		h.respondError(ctx, nil, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Login(stdCtx, req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.Envelope{
		Success: true,
		Token:   result.Token,
		Data:    result.User,
	})
}

// @Summary Current user
// @Tags auth
// @Router /auth/me [get]
func (h *AuthHandler) Me(ctx *fasthttp.RequestCtx) {
	identity, ok := h.identity(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.profile.GetProfile(stdCtx, identity)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user)
}
