package monitoring

import (
	"github.com/akeren/choosepure-waitlist/config/router"
	"github.com/akeren/choosepure-waitlist/internal/log"
)

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	db      Database
	logger  *log.Logger
	cache   Cache
	appName string
}

func NewMonitoringControllerFactory(db Database, logger *log.Logger, cache Cache, appName string) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{
		db:      db,
		logger:  logger,
		cache:   cache,
		appName: appName,
	}
}

func (f *DefaultMonitoringControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.db, f.logger, f.cache, f.appName)
}
