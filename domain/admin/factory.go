package admin

import (
	"github.com/akeren/choosepure-waitlist/config/router"
	"github.com/akeren/choosepure-waitlist/domain/notification"
	"github.com/akeren/choosepure-waitlist/internal/database"
	"github.com/akeren/choosepure-waitlist/internal/log"
)

type AdminServiceFactory interface {
	CreateService() AdminService
	CreateController() *router.RESTController
	// CreateMiddleware guards routes owned by other domains.
	CreateMiddleware() router.MiddlewareFunc
}

type DefaultAdminServiceFactory struct {
	conn     *database.Connection
	logger   *log.Logger
	notifier notification.Notifier
	revoked  RevocationStore
	config   Config
	cookies  CookieConfig

	service AdminService
}

func NewAdminServiceFactory(
	conn *database.Connection,
	logger *log.Logger,
	notifier notification.Notifier,
	revoked RevocationStore,
	config Config,
	cookies CookieConfig,
) AdminServiceFactory {
	return &DefaultAdminServiceFactory{
		conn:     conn,
		logger:   logger,
		notifier: notifier,
		revoked:  revoked,
		config:   config,
		cookies:  cookies,
	}
}

func (f *DefaultAdminServiceFactory) CreateService() AdminService {
	if f.service == nil {
		repository := NewAdminRepository(f.conn)
		f.service = NewAdminService(f.logger, repository, f.notifier, f.revoked, f.config)
	}
	return f.service
}

func (f *DefaultAdminServiceFactory) CreateController() *router.RESTController {
	return NewAdminController(f.CreateService(), f.cookies)
}

func (f *DefaultAdminServiceFactory) CreateMiddleware() router.MiddlewareFunc {
	return RequireAdmin(f.CreateService())
}
