package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/coursestore/internal/app/models/dto"
	"github.com/yigit/coursestore/internal/app/services"
	"github.com/yigit/coursestore/internal/middleware"
)

// ContactController handles the public contact form
type ContactController struct {
	contact ContactService
	logger  zerolog.Logger
}

// NewContactController creates a new ContactController
func NewContactController(contact ContactService, logger zerolog.Logger) *ContactController {
	return &ContactController{
		contact: contact,
		logger:  logger,
	}
}

// Submit accepts a contact message
// @Summary Send a contact message
// @Description Fields are trimmed, then checked in order; the first violated rule is reported.
// @Tags contact
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Contact form"
// @Success 200 {object} dto.APIResponse{data=dto.ContactResponse} "Message received"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /contact [post]
func (c *ContactController) Submit(ctx *gin.Context) {
	var req dto.ContactRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.contact.Submit(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.ContactResponse{Message: services.ContactAcknowledgement}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, resp.Message))
}
