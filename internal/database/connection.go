// Package database owns the process-wide store connection and its readiness.
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/akeren/choosepure-waitlist/internal/log"
	"github.com/akeren/choosepure-waitlist/pkg/retry"
	"gorm.io/gorm"
)

var ErrStoreUnavailable = errors.New("database connection is not available")

// Opener dials the database. It must honour ctx for the connect timeout.
type Opener func(ctx context.Context) (*gorm.DB, error)

type Options struct {
	ConnectTimeout  time.Duration
	RetryAttempts   int
	RetryDelay      time.Duration
	PollInterval    time.Duration
	MaxPendingPolls int
}

func DefaultOptions() Options {
	return Options{
		ConnectTimeout:  10 * time.Second,
		RetryAttempts:   5,
		RetryDelay:      5 * time.Second,
		PollInterval:    200 * time.Millisecond,
		MaxPendingPolls: 10,
	}
}

// Connection connects once at startup. A failed start schedules one background
// fixed-delay retry loop; callers of DB wait a bounded time while it is pending.
type Connection struct {
	open   Opener
	logger *log.Logger
	opts   Options

	mu      sync.RWMutex
	db      *gorm.DB
	pending bool
	lastErr error

	stop context.CancelFunc
	wg   sync.WaitGroup
}

func NewConnection(open Opener, logger *log.Logger, opts Options) *Connection {
	def := DefaultOptions()
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = def.ConnectTimeout
	}
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = def.RetryAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = def.RetryDelay
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = def.PollInterval
	}
	if opts.MaxPendingPolls <= 0 {
		opts.MaxPendingPolls = def.MaxPendingPolls
	}

	return &Connection{open: open, logger: logger, opts: opts}
}

// NewConnectionFromDB wraps an already open handle, e.g. in-memory sqlite in tests.
func NewConnectionFromDB(db *gorm.DB, logger *log.Logger) *Connection {
	c := NewConnection(func(context.Context) (*gorm.DB, error) { return db, nil }, logger, Options{})
	c.db = db
	return c
}

// Connect makes the startup attempt. On failure the error is returned and a
// background retry loop is started; the process is expected to keep running.
func (c *Connection) Connect(ctx context.Context) error {
	err := c.attempt(ctx)
	if err == nil {
		c.logger.Info("Database connection established successfully")
		return nil
	}

	c.logger.Error("Initial database connection failed; retrying in background",
		"error", err,
		"attempts", c.opts.RetryAttempts,
		"delay", c.opts.RetryDelay.String(),
	)
	c.scheduleRetry()
	return err
}

func (c *Connection) attempt(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ConnectTimeout)
	defer cancel()

	db, err := c.open(ctx)
	if err != nil {
		c.setError(err)
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		c.setError(err)
		return fmt.Errorf("get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		c.setError(err)
		return fmt.Errorf("database ping failed: %w", err)
	}

	c.mu.Lock()
	c.db = db
	c.lastErr = nil
	c.mu.Unlock()
	return nil
}

func (c *Connection) setError(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

func (c *Connection) scheduleRetry() {
	c.mu.Lock()
	if c.pending || c.db != nil {
		c.mu.Unlock()
		return
	}
	c.pending = true
	ctx, cancel := context.WithCancel(context.Background())
	c.stop = cancel
	c.mu.Unlock()

	var policy retry.RetryPolicy = retry.NewFixedDelay(&retry.Config{
		MaxAttempts: c.opts.RetryAttempts,
		BaseDelay:   c.opts.RetryDelay,
		Retryable:   retry.Always,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			c.logger.Warn("Database reconnect attempt failed", "attempt", attempt, "next_in", delay.String(), "error", err)
		},
	})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			c.mu.Lock()
			c.pending = false
			c.mu.Unlock()
		}()

		timer := time.NewTimer(c.opts.RetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := policy.Execute(ctx, c.attempt); err != nil {
			if !retry.IsMaxRetriesExceeded(err) {
				c.logger.Debug("Database reconnect stopped", "error", err)
				return
			}
			c.logger.Error("Database reconnect gave up; store stays unavailable", "error", err)
			return
		}
		c.logger.Info("Database connection established after retry")
	}()
}

// DB returns the handle, waiting at most MaxPendingPolls*PollInterval while a
// connection attempt is in flight. Without a pending attempt it fails at once.
func (c *Connection) DB(ctx context.Context) (*gorm.DB, error) {
	for polls := 0; ; polls++ {
		c.mu.RLock()
		db, pending := c.db, c.pending
		c.mu.RUnlock()

		if db != nil {
			return db, nil
		}
		if !pending || polls >= c.opts.MaxPendingPolls {
			return nil, ErrStoreUnavailable
		}

		timer := time.NewTimer(c.opts.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ErrStoreUnavailable
		case <-timer.C:
		}
	}
}

func (c *Connection) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db != nil
}

func (c *Connection) Pending() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pending
}

func (c *Connection) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

func (c *Connection) Ping(ctx context.Context) error {
	c.mu.RLock()
	db := c.db
	c.mu.RUnlock()

	if db == nil {
		return ErrStoreUnavailable
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close stops any retry loop and releases the pool.
func (c *Connection) Close() error {
	c.mu.Lock()
	stop := c.stop
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
	c.wg.Wait()

	c.mu.Lock()
	db := c.db
	c.db = nil
	c.mu.Unlock()

	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return err
	}

	c.logger.Info("Database closed successfully")
	return nil
}
