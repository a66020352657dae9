package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ashrayhostel/hostel-api/internal/middleware"
	"github.com/ashrayhostel/hostel-api/internal/models"
	"github.com/ashrayhostel/hostel-api/internal/repository"
	"github.com/ashrayhostel/hostel-api/internal/services"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	ledger *services.PaymentLedger
}

func NewPaymentHandler(ledger *services.PaymentLedger) *PaymentHandler {
	return &PaymentHandler{ledger: ledger}
}

// @Summary List Payments
// @Description Get a paginated list of the hostel's payments
// @Tags Payments
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "pending, settled, rejected (comma separated)"
// @Param search query string false "Resident name or reference token"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /payments [get]
func (h *PaymentHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")
	query.Filters["status"] = c.Query("status")
	if query.PerPage <= 0 {
		query.PerPage = 20
	}

	// Parse sort parameter (format: field-direction)
	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	payments, total, err := h.ledger.List(c.Request.Context(), middleware.GetHostelID(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, payments[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Approve Payment
// @Description Settles a pending payment and moves the resident's billing anchor to today
// @Tags Payments
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Success 200 {object} models.PaymentResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{payment_id}/approve [post]
func (h *PaymentHandler) Approve(c *gin.Context) {
	id, ok := paramID(c, "payment_id")
	if !ok {
		return
	}

	payment, err := h.ledger.Approve(c.Request.Context(), id, actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment approved", "payment": payment.ToResponse()})
}

type RejectPaymentRequest struct {
	Reason string `json:"reason"`
}

// @Summary Reject Payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Param request body RejectPaymentRequest false "Reason"
// @Success 200 {object} models.PaymentResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{payment_id}/reject [post]
func (h *PaymentHandler) Reject(c *gin.Context) {
	id, ok := paramID(c, "payment_id")
	if !ok {
		return
	}

	var req RejectPaymentRequest
	// reason is optional
	if err := bindEnvelope(c, "payment", &req); err != nil && !errors.Is(err, errEmptyBody) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	payment, err := h.ledger.Reject(c.Request.Context(), id, actorFromContext(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment rejected", "payment": payment.ToResponse()})
}
