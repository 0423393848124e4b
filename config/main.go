package config

import (
	"context"
	"time"

	"github.com/akeren/choosepure-waitlist/config/router"
	"github.com/akeren/choosepure-waitlist/internal/database"
	"github.com/akeren/choosepure-waitlist/internal/log"
	"github.com/akeren/choosepure-waitlist/internal/models"
	"github.com/akeren/choosepure-waitlist/pkg/constants"
	"github.com/akeren/choosepure-waitlist/pkg/mailer"
	"github.com/akeren/choosepure-waitlist/pkg/utils"
	"github.com/robfig/cron"
)

// ApplicationConfig holds the process-scoped handles. Everything here is built
// once at startup and passed by reference to the controllers.
type ApplicationConfig struct {
	Connection      *database.Connection
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Mailer          mailer.Mailer
	Scheduler       *cron.Cron
	Config          *AppConfig
	Auth            *AuthConfig
	TracingShutdown func(context.Context) error
}

type AppConfig struct {
	AppName           string
	BaseURL           string
	IsProduction      bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration

	// CommunityLink is returned to registrants and embedded in the welcome email.
	CommunityLink string
	// AdminEmail receives signup alerts; empty disables them.
	AdminEmail  string
	PhoneRegion string
}

func warnOnMissingNotificationSettings(logger *log.Logger, appConfig *AppConfig) {
	if appConfig.CommunityLink == "" {
		logger.Warn("WHATSAPP_GROUP_LINK not set; signups will receive an empty community link")
	}
	if appConfig.AdminEmail == "" {
		logger.Warn("ADMIN_EMAIL not set; new signup alerts will not be sent")
	}
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		AppName:           utils.GetEnvTrimmedOrDefault("APP_NAME", "ChoosePure"),
		BaseURL:           utils.GetEnvTrimmedOrDefault("APP_BASE_URL", "http://localhost:8080"),
		IsProduction:      utils.IsProductionEnv(GetAppEnv()),
		RateLimitRequests: utils.GetEnvPositiveInt("RATE_LIMIT_REQUESTS", constants.DefaultRateLimitRequests),
		RateLimitWindow:   utils.GetEnvDuration("RATE_LIMIT_WINDOW", constants.DefaultRateLimitWindow()),
		RequestTimeout:    utils.GetEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		CommunityLink:     utils.GetEnvTrimmed("WHATSAPP_GROUP_LINK"),
		AdminEmail:        utils.GetEnvTrimmed("ADMIN_EMAIL"),
		PhoneRegion:       utils.GetEnvTrimmedOrDefault("PHONE_REGION", "IN"),
	}
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.Scheduler != nil {
		ac.Scheduler.Stop()
	}

	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.Connection != nil {
		if err := ac.Connection.Close(); err != nil {
			ac.Logger.Error("Failed to close database", "error", err)
		}
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.Cache != nil {
		_ = CloseCache(ac.Cache, ac.Logger)
	}

	ac.Logger.Info("Application cleanup completed")
}

// LoadApplicationConfiguration wires every shared handle. A database that is
// down at startup is not fatal: the connection retries in the background and
// requests fail with a 500 until it is up.
func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	appEnv := GetAppEnv()
	if autoMigrate {
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	appConfig := NewAppConfig()

	authConfig, err := LoadAuthConfig(logger, appConfig.IsProduction)
	if err != nil {
		return nil, err
	}

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	conn, err := NewDatabaseConnection(logger, NewDBConfigFromEnv())
	if err != nil {
		return nil, err
	}

	if connectErr := conn.Connect(context.Background()); connectErr == nil && autoMigrate {
		db, _ := conn.DB(context.Background())
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			return nil, err
		}
	} else if connectErr != nil && autoMigrate {
		logger.Warn("Skipping --auto-migrate; database is not reachable yet")
	}

	mail, err := NewMailer(logger, NewMailConfigFromEnv())
	if err != nil {
		return nil, err
	}

	warnOnMissingNotificationSettings(logger, appConfig)

	cache := NewCacheConfig().NewCacheOrNil(logger)

	routerService := router.CreateRouterService(logger, cache, &router.RouterConfig{
		RateLimitRequests: appConfig.RateLimitRequests,
		RateLimitWindow:   appConfig.RateLimitWindow,
		RequestTimeout:    appConfig.RequestTimeout,
	})

	logger.Info("Application configuration loaded successfully", "production", appConfig.IsProduction)

	return &ApplicationConfig{
		Connection:      conn,
		RouterService:   routerService,
		Logger:          logger,
		Cache:           cache,
		Mailer:          mail,
		Scheduler:       NewScheduler(),
		Config:          appConfig,
		Auth:            authConfig,
		TracingShutdown: tracingShutdown,
	}, nil
}
