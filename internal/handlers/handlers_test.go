package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/givenly/donor-api/internal/services"
)

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"not found error", &services.NotFoundError{Entity: "pledge", IDs: []uint{9}}, http.StatusNotFound},
		{"gorm record not found", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"shape error", &services.ShapeError{Reason: "missing target"}, http.StatusUnprocessableEntity},
		{"currency mismatch", &services.CurrencyMismatchError{PaymentCurrency: "USD", AllocationCurrency: "EUR"}, http.StatusUnprocessableEntity},
		{"amount mismatch", &services.AmountMismatchError{TotalAllocated: 250, PaymentAmount: 300, Difference: 50}, http.StatusUnprocessableEntity},
		{"invalid state", fmt.Errorf("%w: cannot refund pending payment", services.ErrInvalidState), http.StatusConflict},
		{"anything else", fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestRespondError_AmountMismatchCarriesDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, &services.AmountMismatchError{
		TotalAllocated: 250,
		PaymentAmount:  300,
		Difference:     50,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 250.0, body["total_allocated"])
	assert.Equal(t, 300.0, body["payment_amount"])
	assert.Equal(t, 50.0, body["difference"])
}
