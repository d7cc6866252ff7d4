package router

import (
	"fmt"
	"net/http"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskflow/api/handler"
	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/internal/middleware"
	"github.com/fastygo/taskflow/pkg/httpcontext"
)

// APIPrefix is the second mount point of the route table.
const APIPrefix = "/api"

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Task   *apiHandler.TaskHandler
	Admin  *apiHandler.AdminHandler
	Health *apiHandler.HealthHandler
}

// registrar is implemented by both *router.Router and *router.Group.
type registrar interface {
	GET(path string, handler fasthttp.RequestHandler)
	POST(path string, handler fasthttp.RequestHandler)
	PUT(path string, handler fasthttp.RequestHandler)
	DELETE(path string, handler fasthttp.RequestHandler)
}

// New builds the route table. authenticate guards every non-public route.
func New(handlers Handlers, authenticate middleware.Middleware, logger *zap.Logger) *router.Router {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := router.New()
	r.PanicHandler = func(ctx *fasthttp.RequestCtx, recovered interface{}) {
		logger.Error("panic recovered",
			zap.String("request_id", httpcontext.RequestID(ctx)),
			zap.String("path", string(ctx.Path())),
			zap.String("panic", fmt.Sprint(recovered)),
			zap.Stack("stack"),
		)
		writeEnvelope(ctx, http.StatusInternalServerError, transport.NewError(string(domain.ErrCodeInternal), "internal server error"))
	}
	r.NotFound = func(ctx *fasthttp.RequestCtx) {
		writeEnvelope(ctx, http.StatusNotFound, transport.NewError(string(domain.ErrCodeNotFound), "route not found"))
	}
	r.MethodNotAllowed = func(ctx *fasthttp.RequestCtx) {
		writeEnvelope(ctx, http.StatusMethodNotAllowed, transport.NewError("METHOD_NOT_ALLOWED", "method not allowed"))
	}

	r.GET("/", handlers.Health.Root)

	mount(r, handlers, authenticate)
	mount(r.Group(APIPrefix), handlers, authenticate)

	return r
}

func mount(r registrar, handlers Handlers, authenticate middleware.Middleware) {
	private := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return middleware.Chain(h, authenticate)
	}
	adminOnly := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return middleware.Chain(h, authenticate, middleware.RequireRole(domain.RoleAdmin))
	}

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/auth/register", handlers.Auth.Register)
	r.POST("/auth/login", handlers.Auth.Login)
	r.GET("/auth/me", private(handlers.Auth.Me))

	// Task routes, scoped to the caller
	r.GET("/tasks", private(handlers.Task.GetTasks))
	r.POST("/tasks", private(handlers.Task.CreateTask))
	r.GET("/tasks/{id}", private(handlers.Task.GetTask))
	r.PUT("/tasks/{id}", private(handlers.Task.UpdateTask))
	r.DELETE("/tasks/{id}", private(handlers.Task.DeleteTask))

	// Admin routes
	r.GET("/admin/tasks", adminOnly(handlers.Admin.GetAllTasks))
	r.GET("/admin/users/{id}/tasks", adminOnly(handlers.Admin.GetUserTasks))
}

// Handler wraps the router with the access log.
func Handler(r *router.Router, logger *zap.Logger) fasthttp.RequestHandler {
	return middleware.AccessLog(logger)(r.Handler)
}

func writeEnvelope(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	httpcontext.RequestID(ctx)
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBodyString(payload.String())
}
