package database

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akeren/choosepure-waitlist/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(context.Context) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
}

func fastOptions() Options {
	return Options{
		ConnectTimeout:  time.Second,
		RetryAttempts:   5,
		RetryDelay:      10 * time.Millisecond,
		PollInterval:    10 * time.Millisecond,
		MaxPendingPolls: 50,
	}
}

func TestConnect_Success(t *testing.T) {
	conn := NewConnection(openSQLite, log.NewDiscardLogger(), fastOptions())
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.Connect(context.Background()))
	assert.True(t, conn.Ready())
	assert.NoError(t, conn.Ping(context.Background()))

	db, err := conn.DB(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, db)
}

func TestConnect_FailureRetriesInBackground(t *testing.T) {
	var calls atomic.Int32
	opener := func(ctx context.Context) (*gorm.DB, error) {
		if calls.Add(1) < 3 {
			return nil, errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
		}
		return openSQLite(ctx)
	}

	conn := NewConnection(opener, log.NewDiscardLogger(), fastOptions())
	t.Cleanup(func() { _ = conn.Close() })

	err := conn.Connect(context.Background())
	require.Error(t, err)
	assert.False(t, conn.Ready())

	// DB waits for the pending attempt instead of failing outright.
	db, err := conn.DB(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, db)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDB_GivesUpAfterBoundedPolls(t *testing.T) {
	opener := func(context.Context) (*gorm.DB, error) {
		return nil, errors.New("connection refused")
	}

	opts := fastOptions()
	opts.RetryDelay = time.Hour
	opts.MaxPendingPolls = 3

	conn := NewConnection(opener, log.NewDiscardLogger(), opts)
	t.Cleanup(func() { _ = conn.Close() })

	_ = conn.Connect(context.Background())
	assert.True(t, conn.Pending())

	start := time.Now()
	_, err := conn.DB(context.Background())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDB_FailsImmediatelyWhenNothingPending(t *testing.T) {
	opener := func(context.Context) (*gorm.DB, error) {
		return nil, errors.New("password authentication failed")
	}

	opts := fastOptions()
	opts.RetryAttempts = 1
	opts.RetryDelay = time.Millisecond

	conn := NewConnection(opener, log.NewDiscardLogger(), opts)
	_ = conn.Connect(context.Background())

	require.Eventually(t, func() bool { return !conn.Pending() }, time.Second, 5*time.Millisecond)

	_, err := conn.DB(context.Background())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, conn.Ping(context.Background()), ErrStoreUnavailable)
	assert.Error(t, conn.LastError())
	assert.NoError(t, conn.Close())
}

func TestNewConnectionFromDB_IsReady(t *testing.T) {
	db, err := openSQLite(context.Background())
	require.NoError(t, err)

	conn := NewConnectionFromDB(db, log.NewDiscardLogger())
	assert.True(t, conn.Ready())
	assert.NoError(t, conn.Close())
	assert.False(t, conn.Ready())
}
