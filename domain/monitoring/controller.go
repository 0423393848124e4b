package monitoring

import (
	"context"
	"time"

	"github.com/akeren/choosepure-waitlist/config/router"
	"github.com/akeren/choosepure-waitlist/internal/log"
	"github.com/akeren/choosepure-waitlist/pkg/constants"
	"github.com/akeren/choosepure-waitlist/pkg/ratelimit"
)

const (
	statusConnected     = "connected"
	statusDisconnected  = "disconnected"
	statusNotConfigured = "not_configured"

	healthCheckTimeout          = 2 * time.Second
	monitoringRequestsPerMinute = 60
)

type Cache interface {
	Ping(ctx context.Context) error
}

// Database is satisfied by *database.Connection.
type Database interface {
	Ping(ctx context.Context) error
}

type HealthStatus struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Cache     string `json:"cache"`
	Uptime    int64  `json:"uptime"` // seconds
	Timestamp string `json:"timestamp"`
}

type MonitoringController struct {
	db        Database
	logger    *log.Logger
	cache     Cache
	appName   string
	startTime time.Time
	now       func() time.Time
}

func NewMonitoringController(db Database, logger *log.Logger, cache Cache, appName string) *router.RESTController {
	ctrl := &MonitoringController{
		db:        db,
		logger:    logger,
		cache:     cache,
		appName:   appName,
		startTime: time.Now(),
		now:       time.Now,
	}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {
			monitoringRateLimiter := createMonitoringRateLimiter(routerService)

			routerService.AddGetHandler(controller, monitoringRateLimiter, "", ctrl.monitor)
			routerService.AddGetHandler(controller, monitoringRateLimiter, "api/health", ctrl.healthCheck)
		},
	)
}

func createMonitoringRateLimiter(routerService *router.RouterService) ratelimit.RateLimiter {
	return routerService.NewRateLimiter("monitoring", monitoringRequestsPerMinute, time.Minute)
}

// healthCheck always answers 200; a disconnected store is reported, not failed.
func (ctrl *MonitoringController) healthCheck(c *router.RequestContext) *router.ServiceResult {
	logger := log.GetLoggerInstanceFromContext(c.Request.Context(), ctrl.logger)

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := ctrl.performHealthChecks(ctx, logger)

	return router.OKResult(ctrl.appName+" health check completed", router.Fields{
		"status":    status.Status,
		"database":  status.Database,
		"cache":     status.Cache,
		"uptime":    status.Uptime,
		"timestamp": status.Timestamp,
	})
}

func (ctrl *MonitoringController) monitor(c *router.RequestContext) *router.ServiceResult {
	return router.OKResult("Monitoring endpoint is operational.", nil)
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	now := ctrl.now()

	status := HealthStatus{
		Status:    "ok",
		Database:  checkDatabaseConnectivity(ctx, ctrl.db, logger),
		Cache:     checkCacheConnectivity(ctx, ctrl.cache, logger),
		Uptime:    int64(now.Sub(ctrl.startTime).Seconds()),
		Timestamp: now.UTC().Format(constants.RFC3339DateTimeFormat),
	}

	return status
}

func checkDatabaseConnectivity(ctx context.Context, db Database, logger *log.Logger) string {
	if db == nil {
		return statusDisconnected
	}

	if err := db.Ping(ctx); err != nil {
		logger.Warn("Database health check failed", "error", err)
		return statusDisconnected
	}

	logger.Debug("Database health check passed")
	return statusConnected
}

func checkCacheConnectivity(ctx context.Context, cache Cache, logger *log.Logger) string {
	if cache == nil {
		return statusNotConfigured
	}

	if err := cache.Ping(ctx); err != nil {
		logger.Warn("Cache health check failed", "error", err)
		return statusDisconnected
	}

	logger.Debug("Cache health check passed")
	return statusConnected
}
