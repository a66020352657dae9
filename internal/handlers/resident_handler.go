package handlers

import (
	"net/http"
	"time"

	"github.com/ashrayhostel/hostel-api/internal/middleware"
	"github.com/ashrayhostel/hostel-api/internal/services"
	"github.com/gin-gonic/gin"
)

type ResidentHandler struct {
	residentService  *services.ResidentService
	dashboardService *services.DashboardService
}

func NewResidentHandler(residentService *services.ResidentService, dashboardService *services.DashboardService) *ResidentHandler {
	return &ResidentHandler{residentService: residentService, dashboardService: dashboardService}
}

type CreateResidentRequest struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	MobileNumber  string `json:"mobile_number"`
	DateOfBirth   string `json:"date_of_birth"`
	RoomNumber    string `json:"room_number"`
	AadhaarNumber string `json:"aadhaar_number"`
	MonthlyFee    *int64 `json:"monthly_fee"`
}

// parseDate accepts YYYY-MM-DD or RFC 3339. Blank input yields nil.
func parseDate(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, &services.ValidationError{Field: field, Reason: "must be a date (YYYY-MM-DD)"}
}

// @Summary List Residents
// @Description Residents of the admin's hostel with their billing status
// @Tags Residents
// @Produce json
// @Param search query string false "Name or room number"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /residents [get]
func (h *ResidentHandler) Index(c *gin.Context) {
	residents, err := h.dashboardService.ListResidents(c.Request.Context(), middleware.GetHostelID(c), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"residents": residents})
}

// @Summary Get Resident
// @Tags Residents
// @Produce json
// @Param resident_id path int true "Resident ID"
// @Success 200 {object} services.ResidentSummary
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /residents/{resident_id} [get]
func (h *ResidentHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "resident_id")
	if !ok {
		return
	}

	resident, err := h.dashboardService.GetResident(c.Request.Context(), middleware.GetHostelID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resident": resident})
}

// @Summary Onboard Resident
// @Tags Residents
// @Accept json
// @Produce json
// @Param request body CreateResidentRequest true "Resident"
// @Success 201 {object} models.Resident
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /residents [post]
func (h *ResidentHandler) Create(c *gin.Context) {
	var req CreateResidentRequest
	if err := bindEnvelope(c, "resident", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	dob, err := parseDate("date_of_birth", req.DateOfBirth)
	if err != nil {
		respondError(c, err)
		return
	}

	resident, err := h.residentService.Create(c.Request.Context(), services.CreateResidentInput{
		HostelID:      middleware.GetHostelID(c),
		FullName:      req.FullName,
		Email:         req.Email,
		MobileNumber:  req.MobileNumber,
		DateOfBirth:   dob,
		RoomNumber:    req.RoomNumber,
		AadhaarNumber: req.AadhaarNumber,
		MonthlyFee:    req.MonthlyFee,
	}, actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"resident": resident})
}

// @Summary Delete Resident
// @Description Permanently removes the resident, their payments and payment proofs
// @Tags Residents
// @Param resident_id path int true "Resident ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /residents/{resident_id} [delete]
func (h *ResidentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "resident_id")
	if !ok {
		return
	}

	if err := h.residentService.Delete(c.Request.Context(), middleware.GetHostelID(c), id, actorFromContext(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
