package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/givenly/donor-api/internal/models"
	"github.com/givenly/donor-api/pkg/money"
)

func TestGenerateSchedule(t *testing.T) {
	repos, _, _, _, plans, installments := newTestRepos()
	svc := NewPaymentPlanService(repos, NewReconcileService(repos))

	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	plans.plans[5] = &models.PaymentPlan{
		ID:                   5,
		Currency:             "USD",
		TotalPlannedAmount:   1000,
		NumberOfInstallments: 3,
		Frequency:            models.FrequencyMonthly,
		StartDate:            start,
	}

	schedule, err := svc.GenerateSchedule(context.Background(), 5)

	require.NoError(t, err)
	require.Len(t, schedule, 3)

	// Whole-unit base with the remainder on the first installment, so
	// the schedule sums exactly to the planned total.
	assert.Equal(t, 334.0, schedule[0].Amount)
	assert.Equal(t, 333.0, schedule[1].Amount)
	assert.Equal(t, 333.0, schedule[2].Amount)
	amounts := []float64{schedule[0].Amount, schedule[1].Amount, schedule[2].Amount}
	assert.Equal(t, 1000.0, money.Sum(amounts))

	// Monthly cadence from the start date.
	assert.Equal(t, start, schedule[0].DueDate)
	assert.Equal(t, start.AddDate(0, 1, 0), schedule[1].DueDate)
	assert.Equal(t, start.AddDate(0, 2, 0), schedule[2].DueDate)

	for _, s := range schedule {
		assert.Equal(t, uint(5), s.PaymentPlanID)
		assert.Equal(t, "USD", s.Currency)
		assert.Equal(t, models.InstallmentStatusPending, s.Status)
	}
	assert.Len(t, installments.created, 3)

	// Reconciliation reset the plan's derived totals.
	require.NotEmpty(t, plans.updated)
	assert.Equal(t, 1000.0, plans.updated[0].RemainingAmount)
}

func TestGenerateSchedule_Guards(t *testing.T) {
	tests := []struct {
		name string
		plan models.PaymentPlan
	}{
		{"non-positive total", models.PaymentPlan{ID: 5, TotalPlannedAmount: 0, NumberOfInstallments: 3}},
		{"zero installments", models.PaymentPlan{ID: 5, TotalPlannedAmount: 1000, NumberOfInstallments: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos, _, _, _, plans, _ := newTestRepos()
			svc := NewPaymentPlanService(repos, NewReconcileService(repos))
			plan := tt.plan
			plans.plans[5] = &plan

			_, err := svc.GenerateSchedule(context.Background(), 5)

			var shapeErr *ShapeError
			require.ErrorAs(t, err, &shapeErr)
		})
	}
}

func TestGenerateSchedule_RejectsExistingSchedule(t *testing.T) {
	repos, _, _, _, plans, installments := newTestRepos()
	svc := NewPaymentPlanService(repos, NewReconcileService(repos))

	plans.plans[5] = &models.PaymentPlan{
		ID: 5, TotalPlannedAmount: 1000, NumberOfInstallments: 3, Currency: "USD",
	}
	installments.byPlan[5] = []models.InstallmentSchedule{{ID: 1, PaymentPlanID: 5}}

	_, err := svc.GenerateSchedule(context.Background(), 5)

	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Contains(t, shapeErr.Reason, "already has")
}

func TestGenerateSchedule_PlanNotFound(t *testing.T) {
	repos, _, _, _, _, _ := newTestRepos()
	svc := NewPaymentPlanService(repos, NewReconcileService(repos))

	_, err := svc.GenerateSchedule(context.Background(), 99)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestSweepOverdueInstallments(t *testing.T) {
	repos, _, _, _, _, installments := newTestRepos()
	svc := NewMaintenanceService(repos)

	past := time.Now().AddDate(0, 0, -3)
	future := time.Now().AddDate(0, 0, 3)

	installments.installments[1] = &models.InstallmentSchedule{ID: 1, DueDate: past, Status: models.InstallmentStatusPending}
	installments.installments[2] = &models.InstallmentSchedule{ID: 2, DueDate: future, Status: models.InstallmentStatusPending}
	installments.installments[3] = &models.InstallmentSchedule{ID: 3, DueDate: past, Status: models.InstallmentStatusPaid}

	err := svc.SweepOverdueInstallments(context.Background())

	require.NoError(t, err)
	require.Len(t, installments.updated, 1)
	assert.Equal(t, uint(1), installments.updated[0].ID)
	assert.Equal(t, models.InstallmentStatusOverdue, installments.updated[0].Status)
}
