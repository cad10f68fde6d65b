package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/coursestore/internal/app/controllers"
	"github.com/yigit/coursestore/internal/middleware"
)

// Controllers groups every handler the router mounts
type Controllers struct {
	Auth     *controllers.AuthController
	Course   *controllers.CourseController
	Cart     *controllers.CartController
	Checkout *controllers.CheckoutController
	Me       *controllers.MeController
	Admin    *controllers.AdminController
	Contact  *controllers.ContactController
	Health   *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	v1.GET("/health", c.Health.Health)

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/refresh", c.Auth.RefreshToken)
		auth.POST("/logout", c.Auth.Logout)
	}

	courses := v1.Group("/courses")
	{
		courses.GET("", c.Course.ListCourses)
		courses.GET("/:id", c.Course.GetCourse)
	}

	v1.POST("/contact", c.Contact.Submit)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	cart := authenticated.Group("/cart")
	{
		cart.GET("", c.Cart.GetCart)
		cart.GET("/count", c.Cart.CountItems)
		cart.POST("", c.Cart.AddItem)
		cart.DELETE("/:itemId", c.Cart.RemoveItem)
	}

	checkout := authenticated.Group("/checkout")
	{
		checkout.GET("", c.Checkout.Summary)
		checkout.POST("", c.Checkout.Checkout)
	}

	me := authenticated.Group("/me")
	{
		me.GET("/dashboard", c.Me.Dashboard)
		me.PUT("/profile", c.Me.UpdateProfile)
		me.GET("/roles", c.Me.Roles)
	}

	// --- Admin routes, role checked on every request ---
	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.AdminRequired())
	{
		admin.GET("/stats", c.Admin.Stats)
		admin.GET("/orders", c.Admin.Orders)
		admin.GET("/orders/export", c.Admin.ExportOrders)
		admin.POST("/orders/:id/refund", c.Admin.Refund)
		admin.GET("/students", c.Admin.Students)
		admin.GET("/students/export", c.Admin.ExportStudents)
	}
}
