package domain

import (
	"github.com/akeren/choosepure-waitlist/config"
	"github.com/akeren/choosepure-waitlist/domain/admin"
	"github.com/akeren/choosepure-waitlist/domain/monitoring"
	"github.com/akeren/choosepure-waitlist/domain/notification"
	"github.com/akeren/choosepure-waitlist/domain/waitlist"
)

// SetupCoreDomain mounts every controller and registers background jobs. The
// scheduler is started by the caller.
func SetupCoreDomain(appConfig *config.ApplicationConfig) error {
	registry := appConfig.RouterService.MetricsRegisterer()

	notifier := notification.NewNotifier(appConfig.Logger, appConfig.Mailer, notification.Config{
		AppName:     appConfig.Config.AppName,
		AdminEmail:  appConfig.Config.AdminEmail,
		PhoneRegion: appConfig.Config.PhoneRegion,
	}, registry)

	var revoked admin.RevocationStore
	if appConfig.Cache != nil {
		revoked = appConfig.Cache
	}

	adminFactory := admin.NewAdminServiceFactory(
		appConfig.Connection,
		appConfig.Logger,
		notifier,
		revoked,
		admin.Config{
			SessionSecret: appConfig.Auth.SessionSecret,
			BaseURL:       appConfig.Config.BaseURL,
		},
		admin.CookieConfig{
			Domain: appConfig.Auth.CookieDomain,
			Secure: appConfig.Auth.SecureCookies,
		},
	)

	waitlistFactory := waitlist.NewWaitlistServiceFactory(
		appConfig.Connection,
		appConfig.Logger,
		notifier,
		waitlist.Config{CommunityLink: appConfig.Config.CommunityLink},
		registry,
	)

	var monitoringCache monitoring.Cache
	if appConfig.Cache != nil {
		monitoringCache = appConfig.Cache
	}

	appConfig.RouterService.MountController(
		monitoring.NewMonitoringControllerFactory(appConfig.Connection, appConfig.Logger, monitoringCache, appConfig.Config.AppName).CreateController(),
	)
	appConfig.RouterService.MountController(adminFactory.CreateController())
	for _, controller := range waitlistFactory.CreateControllers(adminFactory.CreateMiddleware()) {
		appConfig.RouterService.MountController(controller)
	}

	return config.ScheduleJob(
		appConfig.Scheduler,
		appConfig.Logger,
		"purge_reset_tokens",
		appConfig.Auth.PurgeSchedule,
		admin.NewPurgeResetTokensJob(adminFactory.CreateService(), appConfig.Logger),
	)
}
