package admin

import (
	"github.com/kivahq/kiva-waitlist/config/router"
	"github.com/kivahq/kiva-waitlist/domain/waitlist"
	"github.com/kivahq/kiva-waitlist/internal/log"
	"gorm.io/gorm"
)

type AdminServiceFactory interface {
	CreateService() AdminService
	CreateController() *router.RESTController
}

type DefaultAdminServiceFactory struct {
	db     *gorm.DB
	logger *log.Logger
}

func NewAdminServiceFactory(db *gorm.DB, logger *log.Logger) AdminServiceFactory {
	return &DefaultAdminServiceFactory{
		db:     db,
		logger: logger,
	}
}

func (f *DefaultAdminServiceFactory) CreateService() AdminService {
	repository := waitlist.NewWaitlistRepository(f.db)
	return NewAdminService(f.logger, repository)
}

func (f *DefaultAdminServiceFactory) CreateController() *router.RESTController {
	return NewAdminController(f.db, f.logger)
}
