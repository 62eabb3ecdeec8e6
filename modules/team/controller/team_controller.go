package controller

import (
	"meetsync/core/controller"
	"meetsync/core/errors"
	"meetsync/core/params"
	"meetsync/modules/team/dto"
	"meetsync/modules/team/service"

	"github.com/labstack/echo/v4"
)

// TeamController handles team HTTP requests
type TeamController struct {
	controller.BaseController
	TeamService service.TeamServiceInterface
}

// NewTeamController creates a new controller
func NewTeamController(svc service.TeamServiceInterface) *TeamController {
	return &TeamController{
		BaseController: controller.NewBaseController(),
		TeamService:    svc,
	}
}

// CreateTeam handles POST /teams
// @Summary Tạo nhóm
// @Description Tạo một nhóm mới với danh sách thành viên
// @Tags Team
// @Accept json
// @Produce json
// @Param request body dto.CreateTeamRequest true "Thông tin nhóm"
// @Success 200 {object} dto.TeamResponse
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /teams [post]
func (c *TeamController) CreateTeam(ctx echo.Context) error {
	var req dto.CreateTeamRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.TeamService.CreateTeam(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Team created successfully")
}

// GetTeam handles GET /teams/:id
// @Summary Lấy thông tin nhóm
// @Description Lấy chi tiết một nhóm theo ID
// @Tags Team
// @Produce json
// @Param id path string true "Team ID"
// @Success 200 {object} dto.TeamResponse
// @Failure 404 {object} errors.AppError
// @Router /teams/{id} [get]
func (c *TeamController) GetTeam(ctx echo.Context) error {
	result, appErr := c.TeamService.GetTeam(ctx.Request().Context(), ctx.Param("id"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// ListTeams handles GET /teams
// @Summary Lấy danh sách nhóm
// @Description Lấy danh sách nhóm có phân trang và tìm kiếm
// @Tags Team
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Filter by name"
// @Success 200 {object} dto.PaginatedTeamResponse
// @Router /teams [get]
func (c *TeamController) ListTeams(ctx echo.Context) error {
	result, appErr := c.TeamService.ListTeams(ctx.Request().Context(), params.FromEchoContext(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// AddMember handles POST /teams/:id/members
// @Summary Thêm thành viên
// @Description Thêm một thành viên vào nhóm
// @Tags Team
// @Accept json
// @Produce json
// @Param id path string true "Team ID"
// @Param request body dto.AddMemberRequest true "Thành viên"
// @Success 200 {object} dto.TeamResponse
// @Failure 404 {object} errors.AppError
// @Router /teams/{id}/members [post]
func (c *TeamController) AddMember(ctx echo.Context) error {
	var req dto.AddMemberRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.TeamService.AddMember(ctx.Request().Context(), ctx.Param("id"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Member added successfully")
}

// SetSetting handles PUT /settings/:key
// @Summary Lưu cài đặt thiết bị
// @Description Lưu giá trị cài đặt (currentTeamId, currentUserId, language)
// @Tags Settings
// @Accept json
// @Produce json
// @Param key path string true "Setting key"
// @Param request body dto.SettingRequest true "Giá trị"
// @Success 200 {object} controller.SuccessResponse
// @Failure 400 {object} errors.AppError
// @Router /settings/{key} [put]
func (c *TeamController) SetSetting(ctx echo.Context) error {
	var req dto.SettingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	if appErr := c.TeamService.SetSetting(ctx.Request().Context(), ctx.Param("key"), req.Value); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Setting stored successfully")
}

// GetSetting handles GET /settings/:key
// @Summary Lấy cài đặt thiết bị
// @Tags Settings
// @Produce json
// @Param key path string true "Setting key"
// @Success 200 {object} dto.SettingResponse
// @Failure 404 {object} errors.AppError
// @Router /settings/{key} [get]
func (c *TeamController) GetSetting(ctx echo.Context) error {
	value, appErr := c.TeamService.GetSetting(ctx.Request().Context(), ctx.Param("key"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, &dto.SettingResponse{Value: value}, "Success")
}
