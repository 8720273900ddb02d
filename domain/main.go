package domain

import (
	"github.com/kivahq/kiva-waitlist/config"
	"github.com/kivahq/kiva-waitlist/domain/admin"
	"github.com/kivahq/kiva-waitlist/domain/monitoring"
	"github.com/kivahq/kiva-waitlist/domain/waitlist"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	appConfig.RouterService.MountController(monitoring.NewMonitoringController(appConfig.DB, appConfig.Logger, appConfig.Cache))
	appConfig.RouterService.MountController(waitlist.NewWaitlistController(appConfig.DB, appConfig.Logger))
	appConfig.RouterService.MountController(admin.NewAdminController(appConfig.DB, appConfig.Logger))
}
