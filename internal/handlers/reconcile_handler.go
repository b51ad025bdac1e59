package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/givenly/donor-api/internal/services"
)

// ReconcileHandler exposes the repair endpoints. Each one re-derives an
// entity's aggregates from scratch, so operators can fix drift without
// touching rows by hand.
type ReconcileHandler struct {
	reconcileService *services.ReconcileService
}

// NewReconcileHandler creates a new reconcile handler
func NewReconcileHandler(reconcileService *services.ReconcileService) *ReconcileHandler {
	return &ReconcileHandler{reconcileService: reconcileService}
}

// @Summary Reconcile Pledge
// @Description Recompute a pledge's paid totals and balances from its payments
// @Tags Reconcile
// @Produce json
// @Param pledge_id path int true "Pledge ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reconcile/pledges/{pledge_id} [post]
func (h *ReconcileHandler) Pledge(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("pledge_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pledge id"})
		return
	}

	if err := h.reconcileService.ReconcilePledge(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reconciled"})
}

// @Summary Reconcile Payment Plan
// @Description Recompute a plan's paid totals from its payments
// @Tags Reconcile
// @Produce json
// @Param plan_id path int true "Payment Plan ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reconcile/plans/{plan_id} [post]
func (h *ReconcileHandler) PaymentPlan(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("plan_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}

	if err := h.reconcileService.ReconcilePaymentPlan(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reconciled"})
}

// ReconcileInstallmentRequest names the payment status an installment's
// state should be derived from.
type ReconcileInstallmentRequest struct {
	PaymentStatus string     `json:"payment_status" binding:"required"`
	PaidDate      *time.Time `json:"paid_date"`
}

// @Summary Reconcile Installment
// @Description Re-derive an installment's status from a payment status
// @Tags Reconcile
// @Accept json
// @Produce json
// @Param installment_id path int true "Installment Schedule ID"
// @Param request body ReconcileInstallmentRequest true "Source payment status"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reconcile/installments/{installment_id} [post]
func (h *ReconcileHandler) Installment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("installment_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid installment id"})
		return
	}

	var req ReconcileInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.reconcileService.ReconcileInstallment(c.Request.Context(), uint(id), req.PaymentStatus, req.PaidDate); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reconciled"})
}
