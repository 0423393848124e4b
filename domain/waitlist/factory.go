package waitlist

import (
	"github.com/akeren/choosepure-waitlist/config/router"
	"github.com/akeren/choosepure-waitlist/domain/notification"
	"github.com/akeren/choosepure-waitlist/internal/database"
	"github.com/akeren/choosepure-waitlist/internal/log"
	"github.com/prometheus/client_golang/prometheus"
)

type WaitlistServiceFactory interface {
	CreateService() WaitlistService
	CreateControllers(requireAdmin router.MiddlewareFunc) []*router.RESTController
}

type DefaultWaitlistServiceFactory struct {
	conn     *database.Connection
	logger   *log.Logger
	notifier notification.Notifier
	config   Config
	registry prometheus.Registerer

	service WaitlistService
}

func NewWaitlistServiceFactory(
	conn *database.Connection,
	logger *log.Logger,
	notifier notification.Notifier,
	config Config,
	registry prometheus.Registerer,
) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{
		conn:     conn,
		logger:   logger,
		notifier: notifier,
		config:   config,
		registry: registry,
	}
}

// CreateService builds the service once; both controllers share it so the
// signup counters are registered a single time.
func (f *DefaultWaitlistServiceFactory) CreateService() WaitlistService {
	if f.service == nil {
		repository := NewWaitlistRepository(f.conn)
		f.service = NewWaitlistService(f.logger, repository, f.notifier, f.config, f.registry)
	}
	return f.service
}

func (f *DefaultWaitlistServiceFactory) CreateControllers(requireAdmin router.MiddlewareFunc) []*router.RESTController {
	service := f.CreateService()
	return []*router.RESTController{
		NewWaitlistController(service),
		NewWaitlistAdminController(service, requireAdmin),
	}
}
