package monitor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	boltInfra "github.com/fastygo/taskflow/internal/infrastructure/bolt"
)

func TestRefreshAggregatesChecks(t *testing.T) {
	m := New(time.Minute, nil)
	m.AddCheck("ok", 0, func(context.Context) error { return nil })
	m.AddCheck("broken", 0, func(context.Context) error { return errors.New("boom") })

	m.Refresh()
	status := m.GetStatus()

	assert.False(t, status.Healthy)
	assert.False(t, m.IsOnline())
	assert.True(t, status.Components["ok"].Online)
	assert.False(t, status.Components["broken"].Online)
	assert.Equal(t, "boom", status.Components["broken"].Error)
	assert.False(t, status.LastCheck.IsZero())
}

func TestCheckTimeoutIsApplied(t *testing.T) {
	m := New(time.Minute, nil)
	m.AddCheck("slow", 10*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	m.Refresh()
	assert.Equal(t, context.DeadlineExceeded.Error(), m.GetStatus().Components["slow"].Error)
}

func TestDependencyChecks(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	db, err := boltInfra.Open(filepath.Join(t.TempDir(), "health.db"), nil)
	require.NoError(t, err)

	m := New(time.Minute, nil)
	m.AddCheck("redis", time.Second, RedisCheck(client))
	m.AddCheck("bolt", time.Second, BoltCheck(db))

	require.NoError(t, m.Start())
	t.Cleanup(func() { m.Stop(context.Background()) })
	assert.True(t, m.IsOnline())

	require.NoError(t, db.Close())
	m.Refresh()
	status := m.GetStatus()
	assert.False(t, status.Healthy)
	assert.True(t, status.Components["redis"].Online)
	assert.False(t, status.Components["bolt"].Online)
}

func TestGetStatusReturnsCopy(t *testing.T) {
	m := New(time.Minute, nil)
	m.AddCheck("ok", 0, func(context.Context) error { return nil })
	m.Refresh()

	status := m.GetStatus()
	status.Components["ok"] = ComponentStatus{}
	assert.True(t, m.GetStatus().Components["ok"].Online)
}
