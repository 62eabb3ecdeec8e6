package aggregation

import (
	"meetsync/core/middleware"
	"meetsync/modules/aggregation/controller"
	"meetsync/modules/aggregation/router"
	"meetsync/modules/aggregation/service"
	availservice "meetsync/modules/availability/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the aggregation module and registers routes
func Init(e *echo.Echo, availability availservice.AvailabilityServiceInterface, participants service.ParticipantCounter, mw *middleware.Middleware) {
	svc := service.NewAggregationService(availability, participants)
	ctrl := controller.NewAggregationController(svc)
	rtr := router.NewAggregationRouter(ctrl)

	rtr.Setup(e, mw)
}
