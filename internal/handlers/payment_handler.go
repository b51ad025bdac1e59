package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/givenly/donor-api/internal/repository"
	"github.com/givenly/donor-api/internal/services"
)

// PaymentHandler serves the payment write and read endpoints.
type PaymentHandler struct {
	paymentService *services.PaymentService
	queryService   *services.PaymentQueryService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService, queryService *services.PaymentQueryService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, queryService: queryService}
}

// @Summary Submit Payment
// @Description Record a direct or split payment and reconcile the pledges it touches
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment body services.SubmitPaymentRequest true "Payment"
// @Success 201 {object} models.Payment
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req services.SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.paymentService.Submit(c.Request.Context(), req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// @Summary Get Payment
// @Description Get a payment with its allocations and display fields
// @Tags Payments
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Success 200 {object} services.PaymentDetail
// @Failure 404 {object} map[string]string
// @Router /payments/{payment_id} [get]
func (h *PaymentHandler) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("payment_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}

	detail, err := h.queryService.GetPayment(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// @Summary List Payments
// @Description Get a paginated list of payments
// @Tags Payments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Router /payments [get]
func (h *PaymentHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["status"] = c.Query("status")
	query.Filters["contact_id"] = c.Query("contact_id")
	query.Filters["pledge_id"] = c.Query("pledge_id")
	query.Filters["payment_plan_id"] = c.Query("payment_plan_id")
	query.Filters["start_date"] = c.Query("start_date")
	query.Filters["end_date"] = c.Query("end_date")

	// Parse sort parameter (format: field-direction)
	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	payments, total, err := h.queryService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// UpdateStatusRequest carries a payment status transition.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary Update Payment Status
// @Description Transition a payment's status and re-derive affected aggregates
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Param status body UpdateStatusRequest true "Target status"
// @Success 200 {object} models.Payment
// @Failure 409 {object} map[string]string
// @Router /payments/{payment_id}/status [put]
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("payment_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.paymentService.UpdateStatus(c.Request.Context(), uint(id), req.Status, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// ReplaceAllocationsRequest carries a wholesale allocation replacement.
type ReplaceAllocationsRequest struct {
	Allocations []services.AllocationInput `json:"allocations" binding:"required"`
}

// @Summary Replace Allocations
// @Description Replace a split payment's allocation set wholesale and reconcile every pledge touched
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Param allocations body ReplaceAllocationsRequest true "New allocation set"
// @Success 200 {object} models.Payment
// @Failure 422 {object} map[string]string
// @Router /payments/{payment_id}/allocations [put]
func (h *PaymentHandler) ReplaceAllocations(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("payment_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}

	var req ReplaceAllocationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.paymentService.ReplaceAllocations(c.Request.Context(), uint(id), req.Allocations, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// RedistributeRequest asks for a recomputed allocation split without
// persisting anything.
type RedistributeRequest struct {
	Allocations []services.AllocationInput `json:"allocations" binding:"required"`
	NewTotal    float64                    `json:"new_total" binding:"required"`
	Strategy    string                     `json:"strategy" binding:"required"`
	AutoAdjust  bool                       `json:"auto_adjust"`
}

// @Summary Redistribute Allocations
// @Description Preview allocation amounts recomputed for a new payment total
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body RedistributeRequest true "Redistribution request"
// @Success 200 {object} map[string]interface{}
// @Router /payments/redistribute [post]
func (h *PaymentHandler) Redistribute(c *gin.Context) {
	var req RedistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	allocations, adjusted := services.PreviewRedistribution(req.Allocations, req.NewTotal, req.Strategy, req.AutoAdjust)

	c.JSON(http.StatusOK, gin.H{
		"allocations": allocations,
		"adjusted":    adjusted,
	})
}
