package handlers

import (
	"net/http"

	"github.com/ashrayhostel/hostel-api/internal/finance"
	"github.com/ashrayhostel/hostel-api/internal/middleware"
	"github.com/ashrayhostel/hostel-api/internal/services"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// @Summary Dashboard Stats
// @Description Month-to-date income, expenses, expected revenue and margin. Excluded records are left out of the totals.
// @Tags Dashboard
// @Produce json
// @Param exclude_payments query string false "Comma separated payment IDs"
// @Param exclude_expenses query string false "Comma separated expense IDs"
// @Success 200 {object} services.DashboardStats
// @Security BearerAuth
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	payments, err := parseIDList(c.Query("exclude_payments"))
	if err != nil {
		respondError(c, &services.ValidationError{Field: "exclude_payments", Reason: "must be a comma separated list of ids"})
		return
	}
	expenses, err := parseIDList(c.Query("exclude_expenses"))
	if err != nil {
		respondError(c, &services.ValidationError{Field: "exclude_expenses", Reason: "must be a comma separated list of ids"})
		return
	}

	stats, err := h.dashboardService.Stats(c.Request.Context(), middleware.GetHostelID(c), finance.NewExclusions(payments, expenses))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
