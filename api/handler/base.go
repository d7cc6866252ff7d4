package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	appLogger "github.com/fastygo/taskflow/pkg/logger"
)

const internalErrorMessage = "internal server error"

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	return h.adapter.Attach(ctx)
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	httpcontext.RequestID(ctx)
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		body, _ = json.Marshal(transport.NewError(string(domain.ErrCodeInternal), internalErrorMessage))
	}
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data))
}

// respondError is the single place domain errors become HTTP responses.
// Anything unclassified is logged and hidden behind a generic 500.
func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	var dErr *domain.Error
	if !errors.As(err, &dErr) || dErr.Code == domain.ErrCodeInternal {
		logger := h.logger
		if stdCtx != nil {
			logger = appLogger.WithRequestID(stdCtx, logger)
		} else {
			logger = logger.With(zap.String("request_id", httpcontext.RequestID(ctx)))
		}
		logger.Error("request failed",
			zap.String("method", string(ctx.Method())),
			zap.String("path", string(ctx.Path())),
			zap.Error(err),
		)
		h.respondJSON(ctx, http.StatusInternalServerError, transport.NewError(string(domain.ErrCodeInternal), internalErrorMessage))
		return
	}

	if len(dErr.Fields) > 0 {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewValidationError(dErr.Fields))
		return
	}
	h.respondJSON(ctx, StatusFor(dErr.Code), transport.NewError(string(dErr.Code), dErr.Message))
}

// decode reads a JSON body into dst, answering 400 itself when the body is not JSON.
func (h baseHandler) decode(ctx *fasthttp.RequestCtx, dst interface{}) bool {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		h.respondError(ctx, nil, domain.ErrInvalidPayload)
		return false
	}
	return true
}

// identity returns the authenticated caller, answering 401 itself when there is none.
func (h baseHandler) identity(ctx *fasthttp.RequestCtx) (domain.Identity, bool) {
	identity, ok := httpcontext.IdentityFrom(ctx)
	if !ok {
		h.respondError(ctx, nil, domain.ErrUnauthorized)
	}
	return identity, ok
}

// StatusFor maps a domain error code to its HTTP status.
func StatusFor(code domain.ErrorCode) int {
	switch code {
	case domain.ErrCodeInvalid:
		return http.StatusBadRequest
	case domain.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrCodeForbidden:
		return http.StatusForbidden
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	case domain.ErrCodeConflict:
		return http.StatusConflict
	case domain.ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
