package availability

import (
	"meetsync/core/middleware"
	"meetsync/core/sync"
	"meetsync/modules/availability/controller"
	"meetsync/modules/availability/router"
	"meetsync/modules/availability/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the availability module and registers routes. Returns the
// service so other modules can read records.
func Init(e *echo.Echo, coordinator *sync.Coordinator, refresh service.RefreshEnqueuer, mw *middleware.Middleware) service.AvailabilityServiceInterface {
	svc := service.NewAvailabilityService(coordinator, refresh)
	ctrl := controller.NewAvailabilityController(svc)
	rtr := router.NewAvailabilityRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
