package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/coursestore/internal/app/models"
	"github.com/yigit/coursestore/internal/app/models/dto"
	"github.com/yigit/coursestore/internal/middleware"
)

// CartController handles the session user's cart
type CartController struct {
	cart   CartService
	logger zerolog.Logger
}

// NewCartController creates a new CartController
func NewCartController(cart CartService, logger zerolog.Logger) *CartController {
	return &CartController{
		cart:   cart,
		logger: logger,
	}
}

// GetCart returns the cart lines and their total
// @Summary Get cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CartResponse} "Cart"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /cart [get]
func (c *CartController) GetCart(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}

	items, err := c.cart.List(ctx.Request.Context(), sess)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCartResponse(items), ""))
}

// CountItems feeds the navbar badge
// @Summary Count cart items
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CartCountResponse} "Item count"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /cart/count [get]
func (c *CartController) CountItems(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}

	count, err := c.cart.Count(ctx.Request.Context(), sess)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CartCountResponse{Count: count}, ""))
}

// AddItem puts a course in the cart
// @Summary Add course to cart
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddToCartRequest true "Course to add"
// @Success 201 {object} dto.APIResponse{data=dto.CartItemResponse} "Course added to cart!"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course already in cart"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /cart [post]
func (c *CartController) AddItem(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}

	var req dto.AddToCartRequest
	if !bindJSON(ctx, &req) {
		return
	}

	item, err := c.cart.Add(ctx.Request.Context(), sess, req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	lines := dto.NewCartItemResponses([]models.CartItem{*item})
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(lines[0], "Course added to cart!"))
}

// RemoveItem deletes one cart line
// @Summary Remove cart item
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param itemId path string true "Cart item ID (UUID)"
// @Success 200 {object} dto.APIResponse "Item removed"
// @Failure 400 {object} dto.ErrorResponse "Invalid item ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Cart item not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /cart/{itemId} [delete]
func (c *CartController) RemoveItem(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}

	itemID, ok := uuidParam(ctx, "itemId")
	if !ok {
		return
	}

	if err := c.cart.Remove(ctx.Request.Context(), sess, itemID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Item removed from cart"))
}
