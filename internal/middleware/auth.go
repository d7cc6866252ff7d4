package middleware

import (
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/pkg/httpcontext"
)

// Middleware wraps a handler.
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// TokenVerifier is satisfied by security.TokenService.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

const bearerScheme = "bearer"

// Authenticate requires a valid bearer token and attaches the identity it
// carries to the request. The store is never consulted.
func Authenticate(verifier TokenVerifier, logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				writeError(ctx, fasthttp.StatusUnauthorized, domain.ErrCodeUnauthorized, "not authorized, no token")
				return
			}

			identity, err := verifier.Verify(tokenString)
			if err != nil {
				logger.Warn("rejected bearer token",
					zap.String("request_id", httpcontext.RequestID(ctx)),
					zap.Error(err),
				)
				writeError(ctx, fasthttp.StatusUnauthorized, domain.ErrCodeUnauthorized, err.Error())
				return
			}

			httpcontext.SetIdentity(ctx, identity)
			next(ctx)
		}
	}
}

// RequireRole admits identities whose role is in roles. It must run after Authenticate.
func RequireRole(roles ...domain.Role) Middleware {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			identity, ok := httpcontext.IdentityFrom(ctx)
			if !ok {
				writeError(ctx, fasthttp.StatusUnauthorized, domain.ErrCodeUnauthorized, "not authorized")
				return
			}
			if !identity.HasRole(roles...) {
				writeError(ctx, fasthttp.StatusForbidden, domain.ErrCodeForbidden,
					"role "+string(identity.Role)+" is not authorized to access this route")
				return
			}
			next(ctx)
		}
	}
}

// Chain applies middlewares so that the first one listed runs first.
func Chain(handler fasthttp.RequestHandler, middlewares ...Middleware) fasthttp.RequestHandler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization)))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}
