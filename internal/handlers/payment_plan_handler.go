package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/givenly/donor-api/internal/services"
)

// PaymentPlanHandler serves payment plan reads and schedule generation.
type PaymentPlanHandler struct {
	planService *services.PaymentPlanService
}

// NewPaymentPlanHandler creates a new payment plan handler
func NewPaymentPlanHandler(planService *services.PaymentPlanService) *PaymentPlanHandler {
	return &PaymentPlanHandler{planService: planService}
}

// @Summary Get Payment Plan
// @Description Get a payment plan with its installment schedule
// @Tags PaymentPlans
// @Produce json
// @Param plan_id path int true "Payment Plan ID"
// @Success 200 {object} models.PaymentPlan
// @Failure 404 {object} map[string]string
// @Router /payment-plans/{plan_id} [get]
func (h *PaymentPlanHandler) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("plan_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}

	plan, err := h.planService.Get(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// @Summary Generate Installment Schedule
// @Description Create the installment schedule rows for a plan that has none yet
// @Tags PaymentPlans
// @Produce json
// @Param plan_id path int true "Payment Plan ID"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]string
// @Router /payment-plans/{plan_id}/schedule [post]
func (h *PaymentPlanHandler) GenerateSchedule(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("plan_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}

	installments, err := h.planService.GenerateSchedule(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"installments": installments})
}
