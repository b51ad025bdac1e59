package services

import (
	"context"
	"errors"
	"math"

	"gorm.io/gorm"

	"github.com/givenly/donor-api/internal/models"
	"github.com/givenly/donor-api/internal/repository"
	"github.com/givenly/donor-api/pkg/money"
)

// PaymentPlanService handles payment plan reads and installment schedule
// generation.
type PaymentPlanService struct {
	repos      *repository.Repositories
	reconciler *ReconcileService
}

// NewPaymentPlanService creates a new payment plan service
func NewPaymentPlanService(repos *repository.Repositories, reconciler *ReconcileService) *PaymentPlanService {
	return &PaymentPlanService{repos: repos, reconciler: reconciler}
}

// Get returns a plan with its installments, ordered by due date.
func (s *PaymentPlanService) Get(ctx context.Context, id uint) (*models.PaymentPlan, error) {
	plan, err := s.repos.PaymentPlan.FindByIDWithInstallments(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "payment plan", IDs: []uint{id}}
		}
		return nil, err
	}
	return plan, nil
}

// GenerateSchedule creates the installment schedule rows for a plan.
// Installments get a whole-unit base amount and the first one picks up
// the remainder, so the schedule sums exactly to the planned total.
func (s *PaymentPlanService) GenerateSchedule(ctx context.Context, planID uint) ([]models.InstallmentSchedule, error) {
	plan, err := s.repos.PaymentPlan.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "payment plan", IDs: []uint{planID}}
		}
		return nil, err
	}

	if plan.TotalPlannedAmount <= 0 {
		return nil, &ShapeError{Reason: "plan total must be positive"}
	}
	if plan.NumberOfInstallments < 1 {
		return nil, &ShapeError{Reason: "plan needs at least one installment"}
	}

	existing, err := s.repos.Installment.FindByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, &ShapeError{Reason: "plan already has an installment schedule"}
	}

	n := plan.NumberOfInstallments
	base := math.Floor(plan.TotalPlannedAmount / float64(n))
	first := money.Round2(plan.TotalPlannedAmount - base*float64(n-1))

	installments := make([]models.InstallmentSchedule, 0, n)
	for i := 0; i < n; i++ {
		amount := base
		if i == 0 {
			amount = first
		}
		installments = append(installments, models.InstallmentSchedule{
			PaymentPlanID: plan.ID,
			DueDate:       plan.NextDueDate(i),
			Amount:        amount,
			Currency:      plan.Currency,
			Status:        models.InstallmentStatusPending,
		})
	}

	if err := s.repos.Installment.CreateBatch(ctx, installments); err != nil {
		return nil, &PersistenceError{Op: "generate installment schedule", Err: err}
	}

	// A fresh schedule resets the plan's derived totals.
	if err := s.reconciler.ReconcilePaymentPlan(ctx, plan.ID); err != nil {
		return nil, err
	}

	return installments, nil
}
