package controller

import (
	"strconv"

	"meetsync/core/controller"
	"meetsync/modules/aggregation/service"

	"github.com/labstack/echo/v4"
)

// AggregationController handles optimal-slot HTTP requests
type AggregationController struct {
	controller.BaseController
	AggregationService service.AggregationServiceInterface
}

// NewAggregationController creates a new controller
func NewAggregationController(svc service.AggregationServiceInterface) *AggregationController {
	return &AggregationController{
		BaseController:     controller.NewBaseController(),
		AggregationService: svc,
	}
}

// GetOptimalSlots handles GET /scopes/:scopeId/periods/:period/optimal-slots
// @Summary Tìm khung giờ tối ưu
// @Description Xếp hạng các khung giờ theo số thành viên rảnh
// @Tags Aggregation
// @Produce json
// @Param scopeId path string true "Scope ID"
// @Param period path string true "Period (YYYY-MM or event id)"
// @Param limit query int false "Max slots to return (default 10)"
// @Success 200 {object} dto.OptimalSlotsResponse
// @Failure 400 {object} errors.AppError
// @Router /scopes/{scopeId}/periods/{period}/optimal-slots [get]
func (c *AggregationController) GetOptimalSlots(ctx echo.Context) error {
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))

	result, appErr := c.AggregationService.GetOptimalSlots(ctx.Request().Context(),
		ctx.Param("scopeId"), ctx.Param("period"), limit)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}
