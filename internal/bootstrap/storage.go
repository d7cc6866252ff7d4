package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/internal/config"
	boltInfra "github.com/fastygo/taskflow/internal/infrastructure/bolt"
	"github.com/fastygo/taskflow/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/taskflow/internal/infrastructure/postgres"
	"github.com/fastygo/taskflow/repository"
	boltRepo "github.com/fastygo/taskflow/repository/bolt"
	pgRepo "github.com/fastygo/taskflow/repository/postgres"
)

// Storage is the selected persistence backend.
type Storage struct {
	Driver string
	Users  repository.UserRepository
	Tasks  repository.TaskRepository
	Check  monitor.Check
	Close  func() error
}

// OpenStorage connects the driver named by cfg.Storage.Driver. Postgres
// migrations run first when enabled.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Storage.Driver {
	case config.DriverBolt:
		db, err := boltInfra.Open(cfg.Storage.BoltPath, logger)
		if err != nil {
			return nil, fmt.Errorf("open bolt store: %w", err)
		}
		return &Storage{
			Driver: config.DriverBolt,
			Users:  boltRepo.NewUserRepository(db),
			Tasks:  boltRepo.NewTaskRepository(db),
			Check:  monitor.BoltCheck(db),
			Close:  db.Close,
		}, nil

	default:
		if err := pgInfra.RunMigrations(cfg, logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &Storage{
			Driver: config.DriverPostgres,
			Users:  pgRepo.NewUserRepository(pool),
			Tasks:  pgRepo.NewTaskRepository(pool),
			Check:  monitor.PostgresCheck(pool),
			Close: func() error {
				pool.Close()
				return nil
			},
		}, nil
	}
}
