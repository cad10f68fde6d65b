package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/coursestore/internal/app/models/dto"
	"github.com/yigit/coursestore/internal/middleware"
)

// MeController serves the student's own pages
type MeController struct {
	dashboard DashboardService
	roles     RoleService
	logger    zerolog.Logger
}

// NewMeController creates a new MeController
func NewMeController(dashboard DashboardService, roles RoleService, logger zerolog.Logger) *MeController {
	return &MeController{
		dashboard: dashboard,
		roles:     roles,
		logger:    logger,
	}
}

// Dashboard returns the profile and purchases of the session user
// @Summary Student dashboard
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse} "Dashboard"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /me/dashboard [get]
func (c *MeController) Dashboard(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}

	dash, err := c.dashboard.Dashboard(ctx.Request.Context(), sess)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.DashboardResponse{Orders: dto.NewOrderListResponse(dash.Orders)}
	if dash.Profile != nil {
		profile := dto.NewProfileResponse(dash.Profile)
		resp.Profile = &profile
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// UpdateProfile edits the session user's profile
// @Summary Update profile
// @Tags me
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /me/profile [put]
func (c *MeController) UpdateProfile(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(ctx, &req) {
		return
	}

	profile, err := c.dashboard.UpdateProfile(ctx.Request.Context(), sess, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewProfileResponse(profile), "Profile updated"))
}

// Roles tells the UI whether to show admin pages
// @Summary Current roles
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.RolesResponse} "Roles"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /me/roles [get]
func (c *MeController) Roles(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}

	isAdmin, err := c.roles.IsAdmin(ctx.Request.Context(), sess.UserID)
	if err != nil {
		// same rule as AdminRequired: a failed lookup means no admin access
		c.logger.Error().Err(err).Str("userID", sess.UserID.String()).Msg("Role lookup failed")
		isAdmin = false
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.RolesResponse{IsAdmin: isAdmin}, ""))
}
