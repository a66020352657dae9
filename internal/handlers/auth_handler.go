package handlers

import (
	"net/http"
	"time"

	"github.com/ashrayhostel/hostel-api/internal/services"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// @Summary Health Check
// @Description Checks if the API is running
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "hostel-api",
		"version": "1.0.0",
	})
}

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type AdminLoginRequest struct {
	HostelID uint   `json:"hostel_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary Admin Login
// @Description Authenticates the hostel administrator
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body AdminLoginRequest true "Credentials"
// @Success 200 {object} services.LoginResult
// @Failure 401 {object} map[string]string
// @Router /auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hostel_id and password are required"})
		return
	}

	result, err := h.authService.AdminLogin(c.Request.Context(), req.HostelID, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type ResidentLoginRequest struct {
	MobileNumber string `json:"mobile_number" binding:"required"`
	DateOfBirth  string `json:"date_of_birth" binding:"required"`
}

// @Summary Resident Login
// @Description Authenticates a resident by mobile number and date of birth (YYYY-MM-DD)
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body ResidentLoginRequest true "Credentials"
// @Success 200 {object} services.LoginResult
// @Failure 401 {object} map[string]string
// @Router /auth/resident/login [post]
func (h *AuthHandler) ResidentLogin(c *gin.Context) {
	var req ResidentLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mobile_number and date_of_birth are required"})
		return
	}

	dob, err := time.Parse(time.DateOnly, req.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_of_birth must be YYYY-MM-DD"})
		return
	}

	result, err := h.authService.ResidentLogin(c.Request.Context(), req.MobileNumber, dob)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
