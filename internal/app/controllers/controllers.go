// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/coursestore/internal/app/models"
	"github.com/yigit/coursestore/internal/app/models/dto"
	"github.com/yigit/coursestore/internal/app/services"
	"github.com/yigit/coursestore/internal/pkg/csvexport"
	"github.com/yigit/coursestore/internal/pkg/session"
)

// AuthService is implemented by services.AuthService
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

// CatalogService is implemented by services.CatalogService
type CatalogService interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

// CartService is implemented by services.CartService
type CartService interface {
	List(ctx context.Context, sess session.Session) ([]models.CartItem, error)
	Count(ctx context.Context, sess session.Session) (int64, error)
	Add(ctx context.Context, sess session.Session, courseID uuid.UUID) (*models.CartItem, error)
	Remove(ctx context.Context, sess session.Session, itemID uuid.UUID) error
}

// CheckoutService is implemented by services.CheckoutService
type CheckoutService interface {
	Summary(ctx context.Context, sess session.Session) (*services.CheckoutSummary, error)
	Checkout(ctx context.Context, sess session.Session, idempotencyKey string) (*services.CheckoutResult, error)
}

// DashboardService is implemented by services.DashboardService
type DashboardService interface {
	Dashboard(ctx context.Context, sess session.Session) (*services.Dashboard, error)
	UpdateProfile(ctx context.Context, sess session.Session, req *dto.UpdateProfileRequest) (*models.Profile, error)
}

// RoleService is implemented by services.RoleService
type RoleService interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// AdminService is implemented by services.AdminService
type AdminService interface {
	Stats(ctx context.Context) (*models.AdminStats, error)
	Orders(ctx context.Context) ([]models.Order, error)
	Students(ctx context.Context) ([]models.Profile, error)
	Refund(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ExportOrders(ctx context.Context, quoting csvexport.Quoting) ([]byte, error)
	ExportStudents(ctx context.Context, quoting csvexport.Quoting) ([]byte, error)
}

// ContactService is implemented by services.ContactService
type ContactService interface {
	Submit(ctx context.Context, req *dto.ContactRequest) error
}

func badRequest(ctx *gin.Context, detail *dto.ErrorDetail) {
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}

// bindJSON binds the request body and answers 400 on failure
func bindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		badRequest(ctx, dto.HandleValidationError(err))
		return false
	}
	return true
}

// uuidParam parses a path parameter, answering 400 when it is not a uuid
func uuidParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		badRequest(ctx, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name).
			WithField(name).
			WithDetails("must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

// currentSession returns the session set by JWTAuth. Routes without JWTAuth
// never reach a handler that calls it, so a missing session is a 401.
func currentSession(ctx *gin.Context) (session.Session, bool) {
	sess, ok := session.FromGin(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return session.Session{}, false
	}
	return sess, true
}
