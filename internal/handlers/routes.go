package handlers

import (
	"github.com/ashrayhostel/hostel-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Register mounts every API route on the /api/v1 group
func (h *Handlers) Register(v1 *gin.RouterGroup, jwtSecret string) {
	// Health check (public)
	v1.GET("/health", h.Health.Index)

	// Authentication (public)
	auth := v1.Group("/auth")
	{
		auth.POST("/admin/login", h.Auth.AdminLogin)
		auth.POST("/resident/login", h.Auth.ResidentLogin)
	}

	// Hostel registration (public)
	v1.GET("/hostels", h.Hostel.Index)
	v1.POST("/hostels", h.Hostel.Create)

	protected := v1.Group("")
	protected.Use(middleware.Auth(jwtSecret))

	// Admin routes, scoped to the token's hostel
	admin := protected.Group("")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/residents", h.Resident.Index)
		admin.POST("/residents", h.Resident.Create)
		admin.GET("/residents/:resident_id", h.Resident.Show)
		admin.DELETE("/residents/:resident_id", h.Resident.Delete)

		admin.GET("/payments", h.Payment.Index)
		admin.POST("/payments/:payment_id/approve", h.Payment.Approve)
		admin.POST("/payments/:payment_id/reject", h.Payment.Reject)

		admin.GET("/expenses", h.Expense.Index)
		admin.POST("/expenses", h.Expense.Create)
		admin.DELETE("/expenses/:expense_id", h.Expense.Delete)

		admin.GET("/dashboard/stats", h.Dashboard.Stats)
		admin.GET("/audit-logs", h.Audit.Index)

		admin.GET("/jobs/status", h.Job.Status)
		admin.POST("/jobs/sweep", h.Job.Sweep)
	}

	// Resident self-service
	me := protected.Group("/me")
	me.Use(middleware.RequireResident())
	{
		me.GET("", h.Portal.Show)
		me.GET("/payments", h.Portal.Payments)
		me.POST("/payments", h.Portal.Submit)
	}
}
