package router

import (
	"meetsync/core/middleware"
	"meetsync/modules/aggregation/controller"

	"github.com/labstack/echo/v4"
)

// AggregationRouter handles optimal-slot routes
type AggregationRouter struct {
	AggregationController *controller.AggregationController
}

// NewAggregationRouter creates a new router
func NewAggregationRouter(aggregationController *controller.AggregationController) *AggregationRouter {
	return &AggregationRouter{
		AggregationController: aggregationController,
	}
}

// Setup registers aggregation routes
func (r *AggregationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	v1.GET("/scopes/:scopeId/periods/:period/optimal-slots", r.AggregationController.GetOptimalSlots)
}
