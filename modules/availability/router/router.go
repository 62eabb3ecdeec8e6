package router

import (
	"meetsync/core/middleware"
	"meetsync/modules/availability/controller"

	"github.com/labstack/echo/v4"
)

// AvailabilityRouter handles availability routes
type AvailabilityRouter struct {
	AvailabilityController *controller.AvailabilityController
}

// NewAvailabilityRouter creates a new router
func NewAvailabilityRouter(availabilityController *controller.AvailabilityController) *AvailabilityRouter {
	return &AvailabilityRouter{
		AvailabilityController: availabilityController,
	}
}

// Setup registers availability routes
func (r *AvailabilityRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	routes := v1.Group("/scopes/:scopeId/periods/:period/availability")
	routes.GET("/:ownerId", r.AvailabilityController.GetRecord)
	routes.PUT("/:ownerId/slots", r.AvailabilityController.SetSlot)
	routes.PUT("/:ownerId/slots/batch", r.AvailabilityController.SetRange)
	routes.DELETE("/:ownerId", r.AvailabilityController.ResetPeriod)
	routes.GET("/:ownerId/dates", r.AvailabilityController.GetAvailableDates)

	v1.GET("/scopes/:scopeId/availability/watch", r.AvailabilityController.Watch)
}
