package handlers

import (
	"net/http"

	"github.com/ashrayhostel/hostel-api/internal/middleware"
	"github.com/ashrayhostel/hostel-api/internal/services"
	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	expenseService *services.ExpenseService
}

func NewExpenseHandler(expenseService *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

type CreateExpenseRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	ExpenseDate string `json:"expense_date"`
}

// @Summary List Expenses
// @Tags Expenses
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /expenses [get]
func (h *ExpenseHandler) Index(c *gin.Context) {
	expenses, err := h.expenseService.List(c.Request.Context(), middleware.GetHostelID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// @Summary Record Expense
// @Tags Expenses
// @Accept json
// @Produce json
// @Param request body CreateExpenseRequest true "Expense"
// @Success 201 {object} models.Expense
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req CreateExpenseRequest
	if err := bindEnvelope(c, "expense", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	date, err := parseDate("expense_date", req.ExpenseDate)
	if err != nil {
		respondError(c, err)
		return
	}

	expense, err := h.expenseService.Create(c.Request.Context(), services.CreateExpenseInput{
		HostelID:    middleware.GetHostelID(c),
		Amount:      req.Amount,
		Description: req.Description,
		ExpenseDate: date,
	}, actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// @Summary Delete Expense
// @Tags Expenses
// @Param expense_id path int true "Expense ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /expenses/{expense_id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "expense_id")
	if !ok {
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), middleware.GetHostelID(c), id, actorFromContext(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
