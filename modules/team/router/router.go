package router

import (
	"meetsync/core/middleware"
	"meetsync/modules/team/controller"

	"github.com/labstack/echo/v4"
)

// TeamRouter handles team and settings routes
type TeamRouter struct {
	TeamController *controller.TeamController
}

// NewTeamRouter creates a new router
func NewTeamRouter(teamController *controller.TeamController) *TeamRouter {
	return &TeamRouter{
		TeamController: teamController,
	}
}

// Setup registers team routes
func (r *TeamRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	teams := v1.Group("/teams")
	teams.POST("", r.TeamController.CreateTeam)
	teams.GET("", r.TeamController.ListTeams)
	teams.GET("/:id", r.TeamController.GetTeam)
	teams.POST("/:id/members", r.TeamController.AddMember)

	settings := v1.Group("/settings")
	settings.PUT("/:key", r.TeamController.SetSetting)
	settings.GET("/:key", r.TeamController.GetSetting)
}
