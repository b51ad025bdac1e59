package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/givenly/donor-api/internal/services"
	"gorm.io/gorm"
)

// Handlers holds all handler instances
type Handlers struct {
	Health      *HealthHandler
	Payment     *PaymentHandler
	Pledge      *PledgeHandler
	PaymentPlan *PaymentPlanHandler
	Reconcile   *ReconcileHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(),
		Payment:     NewPaymentHandler(svcs.Payment, svcs.PaymentQuery),
		Pledge:      NewPledgeHandler(svcs.PaymentQuery),
		PaymentPlan: NewPaymentPlanHandler(svcs.PaymentPlan),
		Reconcile:   NewReconcileHandler(svcs.Reconcile),
	}
}

// respondError maps engine errors onto HTTP status codes. Validator
// failures are unprocessable input, missing references are 404, and
// anything else is a server-side failure.
func respondError(c *gin.Context, err error) {
	var shapeErr *services.ShapeError
	var notFoundErr *services.NotFoundError
	var amountErr *services.AmountMismatchError
	var currencyErr *services.CurrencyMismatchError

	switch {
	case errors.As(err, &notFoundErr), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &shapeErr), errors.As(err, &currencyErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &amountErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":           err.Error(),
			"total_allocated": amountErr.TotalAllocated,
			"payment_amount":  amountErr.PaymentAmount,
			"difference":      amountErr.Difference,
		})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
