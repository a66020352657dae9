package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ashrayhostel/hostel-api/internal/middleware"
	"github.com/ashrayhostel/hostel-api/internal/models"
	"github.com/ashrayhostel/hostel-api/internal/services"
	"github.com/ashrayhostel/hostel-api/internal/storage"
	"github.com/gin-gonic/gin"
)

// PortalHandler serves the resident's own pages
type PortalHandler struct {
	residentService *services.ResidentService
}

func NewPortalHandler(residentService *services.ResidentService) *PortalHandler {
	return &PortalHandler{residentService: residentService}
}

// @Summary My Status
// @Description Billing status and payment details for the signed-in resident
// @Tags Portal
// @Produce json
// @Success 200 {object} services.PortalView
// @Security BearerAuth
// @Router /me [get]
func (h *PortalHandler) Show(c *gin.Context) {
	view, err := h.residentService.Portal(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary My Payments
// @Tags Portal
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /me/payments [get]
func (h *PortalHandler) Payments(c *gin.Context) {
	payments, err := h.residentService.Payments(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, payments[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"payments": responses})
}

// @Summary Submit Payment Proof
// @Description Uploads a payment screenshot and files a pending payment. Without amount the monthly fee is used.
// @Tags Portal
// @Accept multipart/form-data
// @Produce json
// @Param proof formData file true "Payment screenshot"
// @Param amount formData int false "Amount in rupees"
// @Success 201 {object} models.PaymentResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /me/payments [post]
func (h *PortalHandler) Submit(c *gin.Context) {
	header, err := c.FormFile("proof")
	if err != nil {
		respondError(c, &services.ValidationError{Field: "proof", Reason: "is required"})
		return
	}

	if header.Size > storage.MaxFileSize() {
		respondError(c, &services.ValidationError{Field: "proof", Reason: "must be at most 10MB"})
		return
	}
	if !storage.IsValidContentType(header.Header.Get("Content-Type")) {
		respondError(c, &services.ValidationError{Field: "proof", Reason: "must be an image or PDF"})
		return
	}

	var amount *int64
	if raw := strings.TrimSpace(c.PostForm("amount")); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(c, &services.ValidationError{Field: "amount", Reason: "must be a whole number"})
			return
		}
		amount = &v
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	payment, err := h.residentService.SubmitProof(c.Request.Context(), middleware.GetUserID(c), amount, file, header, actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Payment submitted for review", "payment": payment.ToResponse()})
}
