package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskflow/api/handler"
	"github.com/fastygo/taskflow/internal/bootstrap"
	"github.com/fastygo/taskflow/internal/config"
	"github.com/fastygo/taskflow/internal/infrastructure/monitor"
	redisInfra "github.com/fastygo/taskflow/internal/infrastructure/redis"
	"github.com/fastygo/taskflow/internal/middleware"
	"github.com/fastygo/taskflow/internal/router"
	"github.com/fastygo/taskflow/internal/security"
	"github.com/fastygo/taskflow/internal/services/lifecycle"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	"github.com/fastygo/taskflow/pkg/logger"
	redisRepo "github.com/fastygo/taskflow/repository/redis"
	adminUC "github.com/fastygo/taskflow/usecase/admin"
	authUC "github.com/fastygo/taskflow/usecase/auth"
	profileUC "github.com/fastygo/taskflow/usecase/profile"
	taskUC "github.com/fastygo/taskflow/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	storage, err := bootstrap.OpenStorage(appCtx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("storage unavailable", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	manager.Register(storage.Driver, func(ctx context.Context) error {
		return storage.Close()
	})

	mon := monitor.New(cfg.Monitor.Interval, zapLogger)
	mon.AddCheck(storage.Driver, 3*time.Second, storage.Check)

	hasher, err := security.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		zapLogger.Fatal("password hasher init failed", zap.Error(err))
	}
	tokens := security.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if cfg.Auth.TokenTTL <= 0 {
		zapLogger.Warn("JWT_EXPIRE is not positive, every issued token is already expired")
	}

	authUseCase := authUC.New(storage.Users, hasher, tokens, zapLogger)

	if cfg.Redis.Enabled {
		redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
		mon.AddCheck("redis", 2*time.Second, monitor.RedisCheck(redisClient))

		attempts := redisRepo.NewAttemptRepository(redisClient, cfg.Redis.KeyPrefix)
		authUseCase.WithThrottle(attempts, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginAttemptWindow)
	} else {
		zapLogger.Info("redis disabled, login throttling off")
	}

	if err := mon.Start(); err != nil {
		zapLogger.Fatal("health monitor failed to start", zap.Error(err))
	}
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop(ctx)
		return nil
	})

	if cfg.Admin.SeedAdmin() {
		created, err := authUseCase.SeedAdmin(appCtx, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			zapLogger.Fatal("admin seeding failed", zap.Error(err))
		}
		zapLogger.Info("admin account ensured", zap.Bool("created", created))
	}

	profileUseCase := profileUC.New(storage.Users, zapLogger)
	taskUseCase := taskUC.New(storage.Tasks, zapLogger)
	adminUseCase := adminUC.New(storage.Users, storage.Tasks, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, profileUseCase, ctxAdapter, zapLogger),
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Admin:  apiHandler.NewAdminHandler(adminUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, cfg.AppName, ctxAdapter, zapLogger),
	}

	r := router.New(handlers, middleware.Authenticate(tokens, zapLogger), zapLogger)

	server := &fasthttp.Server{
		Handler:            router.Handler(r, zapLogger),
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		Concurrency:        cfg.HTTP.MaxConn,
		MaxRequestBodySize: cfg.HTTP.MaxRequestBodySize,
		Name:               cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", storage.Driver),
			zap.String("env", cfg.Environment),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
