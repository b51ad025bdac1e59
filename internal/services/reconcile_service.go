package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/givenly/donor-api/internal/models"
	"github.com/givenly/donor-api/internal/repository"
	"github.com/givenly/donor-api/pkg/money"
)

// ReconcileService recomputes the derived aggregates on pledges, payment
// plans and installment schedules. Every pass reads the full current set
// of contributing rows and overwrites the derived fields, so the
// operations are idempotent and order-independent: running any of them
// twice, or in any order, converges to the same stored values.
type ReconcileService struct {
	repos *repository.Repositories
}

// NewReconcileService creates a new reconcile service
func NewReconcileService(repos *repository.Repositories) *ReconcileService {
	return &ReconcileService{repos: repos}
}

// ReconcilePledge recomputes a pledge's totalPaid/balance fields from
// its direct payments and its share of split payments. The read and the
// write run inside one transaction with the pledge row locked, so two
// concurrent payments against the same pledge cannot interleave and drop
// one side's contribution.
func (s *ReconcileService) ReconcilePledge(ctx context.Context, pledgeID uint) error {
	return s.repos.Atomic(ctx, func(r *repository.Repositories) error {
		pledge, err := r.Pledge.FindByIDForUpdate(ctx, pledgeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "pledge", IDs: []uint{pledgeID}}
			}
			return err
		}

		direct, err := r.Payment.FindDirectByPledge(ctx, pledgeID, models.CountableStatuses)
		if err != nil {
			return err
		}
		allocations, err := r.Allocation.FindByPledgeWithPaymentStatus(ctx, pledgeID, models.CountableStatuses)
		if err != nil {
			return err
		}

		totalPaid := decimal.Zero
		totalPaidUSD := decimal.Zero

		for _, p := range direct {
			totalPaid = totalPaid.Add(decimal.NewFromFloat(p.Amount))
			totalPaidUSD = totalPaidUSD.Add(decimal.NewFromFloat(paymentUSD(&p, pledge)))
		}
		for _, a := range allocations {
			totalPaid = totalPaid.Add(decimal.NewFromFloat(a.AllocatedAmount))
			totalPaidUSD = totalPaidUSD.Add(decimal.NewFromFloat(allocationUSD(&a, pledge)))
		}

		paid, _ := totalPaid.Round(2).Float64()
		paidUSD, _ := totalPaidUSD.Round(2).Float64()

		pledge.TotalPaid = paid
		pledge.TotalPaidUSD = paidUSD
		pledge.Balance = money.NonNegative(money.Round2(pledge.OriginalAmount - paid))
		if pledge.OriginalAmountUSD != nil {
			balanceUSD := money.NonNegative(money.Round2(*pledge.OriginalAmountUSD - paidUSD))
			pledge.BalanceUSD = &balanceUSD
		} else {
			pledge.BalanceUSD = nil
		}

		return r.Pledge.Update(ctx, pledge)
	})
}

// paymentUSD resolves a direct payment's USD contribution with the
// three-tier fallback: stored USD amount, then the raw amount when the
// payment is already in USD, then conversion via the pledge's own rate.
// The last tier applies the pledge's rate rather than the payment-time
// rate; a known precision trade-off when no USD amount was stored.
func paymentUSD(p *models.Payment, pledge *models.Pledge) float64 {
	if p.AmountUSD != 0 {
		return p.AmountUSD
	}
	if p.Currency == "USD" {
		return p.Amount
	}
	return money.ToUSD(p.Amount, pledge.ExchangeRate)
}

// allocationUSD applies the same fallback chain to an allocation.
func allocationUSD(a *models.PaymentAllocation, pledge *models.Pledge) float64 {
	if a.AllocatedAmountUSD != nil {
		return *a.AllocatedAmountUSD
	}
	if a.Currency == "USD" {
		return a.AllocatedAmount
	}
	return money.ToUSD(a.AllocatedAmount, pledge.ExchangeRate)
}

// ReconcilePaymentPlan recomputes a plan's totals from the completed and
// processing payments that reference it.
func (s *ReconcileService) ReconcilePaymentPlan(ctx context.Context, planID uint) error {
	return s.repos.Atomic(ctx, func(r *repository.Repositories) error {
		plan, err := r.PaymentPlan.FindByIDForUpdate(ctx, planID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "payment plan", IDs: []uint{planID}}
			}
			return err
		}

		payments, err := r.Payment.FindByPlan(ctx, planID, models.CountableStatuses)
		if err != nil {
			return err
		}

		amounts := make([]float64, len(payments))
		for i, p := range payments {
			amounts[i] = p.Amount
		}

		totalPaid := money.Round2(money.Sum(amounts))
		plan.TotalPaid = totalPaid
		plan.InstallmentsPaid = len(payments)
		plan.RemainingAmount = money.NonNegative(money.Round2(plan.TotalPlannedAmount - totalPaid))

		return r.PaymentPlan.Update(ctx, plan)
	})
}

// ReconcileInstallment derives an installment's status from the linked
// payment's status. Completed and processing payments mark it paid with
// the supplied paid date; cancelled and failed payments cancel it; every
// other payment status (including refunded) reverts it to pending.
func (s *ReconcileService) ReconcileInstallment(ctx context.Context, installmentID uint, paymentStatus string, paidDate *time.Time) error {
	return s.repos.Atomic(ctx, func(r *repository.Repositories) error {
		installment, err := r.Installment.FindByIDForUpdate(ctx, installmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "installment schedule", IDs: []uint{installmentID}}
			}
			return err
		}

		installment.Status = models.InstallmentStatusForPayment(paymentStatus)
		if installment.Status == models.InstallmentStatusPaid {
			installment.PaidDate = paidDate
		} else {
			installment.PaidDate = nil
		}

		return r.Installment.Update(ctx, installment)
	})
}

// FanOut reconciles every entity a payment touches: each distinct pledge
// (the one pledge for direct payments, all allocation pledges for split
// ones), any linked installment schedules, and the payment plan.
// Reconciliations for distinct entities are independent; failures are
// collected rather than aborting the remainder, and a retry of the same
// fan-out is safe.
func (s *ReconcileService) FanOut(ctx context.Context, payment *models.Payment, allocations []models.PaymentAllocation) error {
	var errs []error

	pledgeIDs := make([]uint, 0, len(allocations)+1)
	seen := make(map[uint]bool)
	if payment.PledgeID != nil && *payment.PledgeID > 0 {
		seen[*payment.PledgeID] = true
		pledgeIDs = append(pledgeIDs, *payment.PledgeID)
	}
	for _, a := range allocations {
		if !seen[a.PledgeID] {
			seen[a.PledgeID] = true
			pledgeIDs = append(pledgeIDs, a.PledgeID)
		}
	}

	for _, id := range pledgeIDs {
		if err := s.ReconcilePledge(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("pledge %d: %w", id, err))
		}
	}

	paidDate := payment.PaymentDate
	if payment.InstallmentScheduleID != nil {
		if err := s.ReconcileInstallment(ctx, *payment.InstallmentScheduleID, payment.PaymentStatus, &paidDate); err != nil {
			errs = append(errs, fmt.Errorf("installment %d: %w", *payment.InstallmentScheduleID, err))
		}
	}
	for _, a := range allocations {
		if a.InstallmentScheduleID == nil {
			continue
		}
		if err := s.ReconcileInstallment(ctx, *a.InstallmentScheduleID, payment.PaymentStatus, &paidDate); err != nil {
			errs = append(errs, fmt.Errorf("installment %d: %w", *a.InstallmentScheduleID, err))
		}
	}

	if payment.PaymentPlanID != nil {
		if err := s.ReconcilePaymentPlan(ctx, *payment.PaymentPlanID); err != nil {
			errs = append(errs, fmt.Errorf("payment plan %d: %w", *payment.PaymentPlanID, err))
		}
	}

	return errors.Join(errs...)
}
