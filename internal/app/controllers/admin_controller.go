package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/coursestore/internal/app/models/dto"
	"github.com/yigit/coursestore/internal/middleware"
	"github.com/yigit/coursestore/internal/pkg/csvexport"
)

// AdminController serves the admin dashboard. Every route sits behind
// JWTAuth and AdminRequired.
type AdminController struct {
	admin  AdminService
	logger zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(admin AdminService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		admin:  admin,
		logger: logger,
	}
}

// Stats returns the dashboard counters
// @Summary Sales statistics
// @Description totalRevenue counts refunded orders too; netRevenue excludes them
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AdminStatsResponse} "Statistics"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Access Denied"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/stats [get]
func (c *AdminController) Stats(ctx *gin.Context) {
	stats, err := c.admin.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewAdminStatsResponse(stats), ""))
}

// Orders lists every order with its course and buyer
// @Summary List all orders
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.OrderResponse} "Orders, newest first"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Access Denied"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/orders [get]
func (c *AdminController) Orders(ctx *gin.Context) {
	orders, err := c.admin.Orders(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewOrderListResponse(orders), ""))
}

// Students lists every profile
// @Summary List all students
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ProfileResponse} "Students, newest first"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Access Denied"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/students [get]
func (c *AdminController) Students(ctx *gin.Context) {
	profiles, err := c.admin.Students(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewProfileListResponse(profiles), ""))
}

// Refund flips a completed order to refunded
// @Summary Refund an order
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID (UUID)"
// @Success 200 {object} dto.APIResponse{data=dto.RefundResponse} "Order refunded"
// @Failure 400 {object} dto.ErrorResponse "Invalid order ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Access Denied"
// @Failure 404 {object} dto.ErrorResponse "Order not found"
// @Failure 409 {object} dto.ErrorResponse "Order is not refundable"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/orders/{id}/refund [post]
func (c *AdminController) Refund(ctx *gin.Context) {
	orderID, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	order, err := c.admin.Refund(ctx.Request.Context(), orderID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.RefundResponse{Order: dto.NewOrderResponse(order)}, "Order refunded"))
}

// ExportOrders downloads orders.csv
// @Summary Export orders as CSV
// @Description Values are wrapped in double quotes without escaping unless quoting=rfc4180
// @Tags admin
// @Produce text/csv
// @Security BearerAuth
// @Param quoting query string false "naive (default) or rfc4180"
// @Success 200 {file} file "orders.csv"
// @Success 204 "No orders to export"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Access Denied"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/orders/export [get]
func (c *AdminController) ExportOrders(ctx *gin.Context) {
	c.export(ctx, "orders.csv", c.admin.ExportOrders)
}

// ExportStudents downloads students.csv
// @Summary Export students as CSV
// @Description Values are wrapped in double quotes without escaping unless quoting=rfc4180
// @Tags admin
// @Produce text/csv
// @Security BearerAuth
// @Param quoting query string false "naive (default) or rfc4180"
// @Success 200 {file} file "students.csv"
// @Success 204 "No students to export"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Access Denied"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/students/export [get]
func (c *AdminController) ExportStudents(ctx *gin.Context) {
	c.export(ctx, "students.csv", c.admin.ExportStudents)
}

func (c *AdminController) export(ctx *gin.Context, filename string, build func(context.Context, csvexport.Quoting) ([]byte, error)) {
	quoting := csvexport.ParseQuoting(ctx.Query("quoting"))

	data, err := build(ctx.Request.Context(), quoting)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if len(data) == 0 {
		ctx.Status(http.StatusNoContent)
		return
	}

	c.logger.Info().Str("file", filename).Str("quoting", string(quoting)).Int("bytes", len(data)).Msg("CSV exported")
	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
