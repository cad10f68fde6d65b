package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/coursestore/internal/app/models/dto"
	"github.com/yigit/coursestore/internal/middleware"
)

// CheckoutController handles the payment page
type CheckoutController struct {
	checkout CheckoutService
	logger   zerolog.Logger
}

// NewCheckoutController creates a new CheckoutController
func NewCheckoutController(checkout CheckoutService, logger zerolog.Logger) *CheckoutController {
	return &CheckoutController{
		checkout: checkout,
		logger:   logger,
	}
}

// Summary returns what will be charged
// @Summary Checkout summary
// @Description Cart lines, total and the buyer's profile. An empty cart answers 409 with a redirect to /cart.
// @Tags checkout
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CheckoutSummaryResponse} "Summary"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Cart is empty"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /checkout [get]
func (c *CheckoutController) Summary(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}

	summary, err := c.checkout.Summary(ctx.Request.Context(), sess)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.CheckoutSummaryResponse{
		Items:     dto.NewCartItemResponses(summary.Items),
		ItemCount: len(summary.Items),
		Total:     summary.Total.StringFixed(2),
	}
	if summary.Profile != nil {
		profile := dto.NewProfileResponse(summary.Profile)
		resp.Profile = &profile
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// Checkout pays for the cart
// @Summary Pay for the cart
// @Description Charges the cart total once and enrolls the student in every course of the cart.
// @Description Resending the same Idempotency-Key after success returns the original orders with replayed=true.
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Client generated key for safe retries"
// @Param request body dto.CheckoutRequest true "Card details (validated, never stored)"
// @Success 201 {object} dto.APIResponse{data=dto.CheckoutResponse} "Payment successful"
// @Success 200 {object} dto.APIResponse{data=dto.CheckoutResponse} "Replayed checkout"
// @Failure 400 {object} dto.ErrorResponse "Invalid card details"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Cart is empty or checkout in progress"
// @Failure 500 {object} dto.ErrorResponse "Payment Failed"
// @Router /checkout [post]
func (c *CheckoutController) Checkout(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}

	var req dto.CheckoutRequest
	if !bindJSON(ctx, &req) {
		return
	}

	result, err := c.checkout.Checkout(ctx.Request.Context(), sess, ctx.GetHeader(dto.IdempotencyKeyHeader))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.CheckoutResponse{
		CheckoutID: result.AttemptID,
		PaymentID:  result.PaymentID,
		Total:      result.Total.StringFixed(2),
		Orders:     dto.NewOrderListResponse(result.Orders),
		Replayed:   result.Replayed,
	}
	if result.Replayed {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Payment already processed"))
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Payment successful! You are now enrolled."))
}
