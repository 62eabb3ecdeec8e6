package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"meetsync/core/controller"
	"meetsync/core/errors"
	"meetsync/modules/availability/dto"
	"meetsync/modules/availability/entity"
	"meetsync/modules/availability/service"

	"github.com/labstack/echo/v4"
)

// AvailabilityController handles availability HTTP requests
type AvailabilityController struct {
	controller.BaseController
	AvailabilityService service.AvailabilityServiceInterface
}

// NewAvailabilityController creates a new controller
func NewAvailabilityController(svc service.AvailabilityServiceInterface) *AvailabilityController {
	return &AvailabilityController{
		BaseController:      controller.NewBaseController(),
		AvailabilityService: svc,
	}
}

// GetRecord handles GET /scopes/:scopeId/periods/:period/availability/:ownerId
// @Summary Lấy lịch rảnh của thành viên
// @Description Lấy bản ghi khung giờ rảnh của một thành viên theo scope và kỳ
// @Tags Availability
// @Produce json
// @Param scopeId path string true "Scope ID"
// @Param period path string true "Period (YYYY-MM or event id)"
// @Param ownerId path string true "Owner ID"
// @Success 200 {object} dto.AvailabilityResponse
// @Failure 404 {object} errors.AppError
// @Router /scopes/{scopeId}/periods/{period}/availability/{ownerId} [get]
func (c *AvailabilityController) GetRecord(ctx echo.Context) error {
	result, appErr := c.AvailabilityService.GetRecord(ctx.Request().Context(),
		ctx.Param("scopeId"), ctx.Param("ownerId"), ctx.Param("period"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// SetSlot handles PUT .../availability/:ownerId/slots
// @Summary Cập nhật một khung giờ
// @Description Đánh dấu một khung giờ rảnh hoặc bận
// @Tags Availability
// @Accept json
// @Produce json
// @Param request body dto.SetSlotRequest true "Khung giờ"
// @Success 200 {object} dto.AvailabilityResponse
// @Failure 400 {object} errors.AppError
// @Router /scopes/{scopeId}/periods/{period}/availability/{ownerId}/slots [put]
func (c *AvailabilityController) SetSlot(ctx echo.Context) error {
	var req dto.SetSlotRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AvailabilityService.SetSlot(ctx.Request().Context(),
		ctx.Param("scopeId"), ctx.Param("ownerId"), ctx.Param("period"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Slot updated successfully")
}

// SetRange handles PUT .../availability/:ownerId/slots/batch
// @Summary Cập nhật nhiều khung giờ
// @Description Đánh dấu nhiều khung giờ trong một ngày cùng lúc
// @Tags Availability
// @Accept json
// @Produce json
// @Param request body dto.SetRangeRequest true "Danh sách khung giờ"
// @Success 200 {object} dto.AvailabilityResponse
// @Failure 400 {object} errors.AppError
// @Router /scopes/{scopeId}/periods/{period}/availability/{ownerId}/slots/batch [put]
func (c *AvailabilityController) SetRange(ctx echo.Context) error {
	var req dto.SetRangeRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AvailabilityService.SetRange(ctx.Request().Context(),
		ctx.Param("scopeId"), ctx.Param("ownerId"), ctx.Param("period"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Slots updated successfully")
}

// ResetPeriod handles DELETE .../availability/:ownerId
// @Summary Xóa lịch rảnh của kỳ
// @Description Xóa toàn bộ khung giờ đã chọn trong kỳ
// @Tags Availability
// @Produce json
// @Success 200 {object} controller.SuccessResponse
// @Failure 404 {object} errors.AppError
// @Router /scopes/{scopeId}/periods/{period}/availability/{ownerId} [delete]
func (c *AvailabilityController) ResetPeriod(ctx echo.Context) error {
	appErr := c.AvailabilityService.ResetPeriod(ctx.Request().Context(),
		ctx.Param("scopeId"), ctx.Param("ownerId"), ctx.Param("period"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Availability cleared successfully")
}

// GetAvailableDates handles GET .../availability/:ownerId/dates
// @Summary Lấy các ngày có giờ rảnh
// @Description Lấy danh sách ngày có ít nhất một khung giờ rảnh
// @Tags Availability
// @Produce json
// @Success 200 {object} dto.AvailableDatesResponse
// @Router /scopes/{scopeId}/periods/{period}/availability/{ownerId}/dates [get]
func (c *AvailabilityController) GetAvailableDates(ctx echo.Context) error {
	result, appErr := c.AvailabilityService.AvailableDates(ctx.Request().Context(),
		ctx.Param("scopeId"), ctx.Param("ownerId"), ctx.Param("period"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// Watch handles GET /scopes/:scopeId/availability/watch
// @Summary Theo dõi thay đổi lịch rảnh
// @Description Stream (SSE) toàn bộ bản ghi của scope mỗi khi có thay đổi
// @Tags Availability
// @Produce text/event-stream
// @Param scopeId path string true "Scope ID"
// @Success 200
// @Failure 503 {object} errors.AppError
// @Router /scopes/{scopeId}/availability/watch [get]
func (c *AvailabilityController) Watch(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	events := make(chan []entity.AvailabilityRecord, 1)
	unsubscribe, appErr := c.AvailabilityService.Subscribe(reqCtx, ctx.Param("scopeId"),
		func(records []entity.AvailabilityRecord) {
			// a slow consumer only ever misses intermediate snapshots
			select {
			case events <- records:
			default:
			}
		})
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	defer unsubscribe()

	w := ctx.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	for {
		select {
		case <-reqCtx.Done():
			return nil
		case records := <-events:
			payload, err := json.Marshal(records)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			w.Flush()
		}
	}
}
