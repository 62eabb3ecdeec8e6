package team

import (
	"meetsync/core/middleware"
	"meetsync/core/sync"
	"meetsync/modules/team/controller"
	"meetsync/modules/team/router"
	"meetsync/modules/team/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the team module and registers routes. Returns the service
// so the aggregation module can count participants.
func Init(e *echo.Echo, coordinator *sync.Coordinator, local sync.LocalStore, mw *middleware.Middleware) service.TeamServiceInterface {
	svc := service.NewTeamService(coordinator, local)
	ctrl := controller.NewTeamController(svc)
	rtr := router.NewTeamRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
