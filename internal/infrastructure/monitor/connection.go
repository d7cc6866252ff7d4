package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	boltInfra "github.com/fastygo/taskflow/internal/infrastructure/bolt"
)

// Check probes one dependency; a nil error means online.
type Check func(ctx context.Context) error

type namedCheck struct {
	name    string
	check   Check
	timeout time.Duration
}

// Monitor probes registered dependencies on a cron schedule and caches the result.
type Monitor struct {
	checks []namedCheck

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

func New(interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		interval: interval,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger,
	}
}

// AddCheck registers a probe. It must be called before Start.
func (m *Monitor) AddCheck(name string, timeout time.Duration, check Check) {
	if check == nil {
		return
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	m.checks = append(m.checks, namedCheck{name: name, check: check, timeout: timeout})
}

// Start runs one probe round synchronously and schedules the rest.
func (m *Monitor) Start() error {
	m.Refresh()
	if _, err := m.cron.AddFunc("@every "+m.interval.String(), m.Refresh); err != nil {
		return err
	}
	m.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running probe round, bounded by ctx.
func (m *Monitor) Stop(ctx context.Context) {
	done := m.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Healthy
}

// GetStatus returns a copy of the latest probe results.
func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := m.status
	status.Components = make(map[string]ComponentStatus, len(m.status.Components))
	for name, component := range m.status.Components {
		status.Components[name] = component
	}
	return status
}

// Refresh probes every dependency once.
func (m *Monitor) Refresh() {
	status := Status{
		Healthy:    true,
		Components: make(map[string]ComponentStatus, len(m.checks)),
		LastCheck:  time.Now().UTC(),
	}

	for _, c := range m.checks {
		component := m.probe(c)
		if !component.Online {
			status.Healthy = false
		}
		status.Components[c.name] = component
	}

	m.mu.Lock()
	previous := m.status
	m.status = status
	m.mu.Unlock()

	for name, component := range status.Components {
		if was, ok := previous.Components[name]; ok && was.Online && !component.Online {
			m.logger.Warn("dependency went offline", zap.String("component", name), zap.String("error", component.Error))
		}
	}
}

func (m *Monitor) probe(c namedCheck) ComponentStatus {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	start := time.Now()
	err := c.check(ctx)
	component := ComponentStatus{Online: err == nil, Latency: time.Since(start)}
	if err != nil {
		component.Error = err.Error()
	}
	return component
}

func PostgresCheck(pool *pgxpool.Pool) Check {
	return func(ctx context.Context) error {
		return pool.Ping(ctx)
	}
}

func RedisCheck(client *redislib.Client) Check {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

func BoltCheck(db *bbolt.DB) Check {
	return func(context.Context) error {
		return boltInfra.Ping(db)
	}
}
