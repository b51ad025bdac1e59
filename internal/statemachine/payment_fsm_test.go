package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/givenly/donor-api/internal/models"
)

func TestPaymentFSM_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{"expected to pending", models.PaymentStatusExpected, models.PaymentStatusPending, false},
		{"expected to completed", models.PaymentStatusExpected, models.PaymentStatusCompleted, false},
		{"expected to cancelled", models.PaymentStatusExpected, models.PaymentStatusCancelled, false},
		{"pending to processing", models.PaymentStatusPending, models.PaymentStatusProcessing, false},
		{"pending to completed", models.PaymentStatusPending, models.PaymentStatusCompleted, false},
		{"pending to failed", models.PaymentStatusPending, models.PaymentStatusFailed, false},
		{"pending to cancelled", models.PaymentStatusPending, models.PaymentStatusCancelled, false},
		{"processing to completed", models.PaymentStatusProcessing, models.PaymentStatusCompleted, false},
		{"processing to failed", models.PaymentStatusProcessing, models.PaymentStatusFailed, false},
		{"completed to refunded", models.PaymentStatusCompleted, models.PaymentStatusRefunded, false},

		{"completed to pending", models.PaymentStatusCompleted, models.PaymentStatusPending, true},
		{"completed to cancelled", models.PaymentStatusCompleted, models.PaymentStatusCancelled, true},
		{"refunded to completed", models.PaymentStatusRefunded, models.PaymentStatusCompleted, true},
		{"failed to completed", models.PaymentStatusFailed, models.PaymentStatusCompleted, true},
		{"cancelled to pending", models.PaymentStatusCancelled, models.PaymentStatusPending, true},
		{"expected to refunded", models.PaymentStatusExpected, models.PaymentStatusRefunded, true},
		{"pending to refunded", models.PaymentStatusPending, models.PaymentStatusRefunded, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment := &models.Payment{PaymentStatus: tt.from}
			fsm := NewPaymentFSM(payment)

			err := fsm.TransitionTo(context.Background(), tt.to)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.from, payment.PaymentStatus)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.to, payment.PaymentStatus)
				assert.Equal(t, tt.to, fsm.Current())
			}
		})
	}
}

func TestPaymentFSM_UnknownStatus(t *testing.T) {
	payment := &models.Payment{PaymentStatus: models.PaymentStatusPending}
	fsm := NewPaymentFSM(payment)

	err := fsm.TransitionTo(context.Background(), "archived")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown payment status")
}

func TestPaymentFSM_CanTransitionTo(t *testing.T) {
	payment := &models.Payment{PaymentStatus: models.PaymentStatusPending}
	fsm := NewPaymentFSM(payment)

	assert.True(t, fsm.CanTransitionTo(models.PaymentStatusProcessing))
	assert.True(t, fsm.CanTransitionTo(models.PaymentStatusCompleted))
	assert.False(t, fsm.CanTransitionTo(models.PaymentStatusRefunded))
	assert.False(t, fsm.CanTransitionTo("archived"))
}
