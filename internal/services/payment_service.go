package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/givenly/donor-api/internal/forex"
	"github.com/givenly/donor-api/internal/jobs"
	"github.com/givenly/donor-api/internal/models"
	"github.com/givenly/donor-api/internal/repository"
	"github.com/givenly/donor-api/internal/statemachine"
	"github.com/givenly/donor-api/pkg/money"
)

// PaymentService records payments and drives their lifecycle. Recording
// is atomic: a payment and its allocations are inserted in one
// transaction, and the reconciliation fan-out runs on the background
// worker only after the commit succeeded.
type PaymentService struct {
	repos      *repository.Repositories
	validator  *AllocationValidator
	reconciler *ReconcileService
	rates      forex.Provider
	auditSvc   *AuditService
	worker     *jobs.Worker
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	repos *repository.Repositories,
	validator *AllocationValidator,
	reconciler *ReconcileService,
	rates forex.Provider,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *PaymentService {
	return &PaymentService{
		repos:      repos,
		validator:  validator,
		reconciler: reconciler,
		rates:      rates,
		auditSvc:   auditSvc,
		worker:     worker,
	}
}

// enqueueFanOut runs the reconciliation fan-out off the request path.
// Each pass is idempotent and failures stay repairable through the
// reconcile endpoints, so a fan-out error never reaches the caller who
// recorded the payment.
func (s *PaymentService) enqueueFanOut(payment *models.Payment, allocations []models.PaymentAllocation) {
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		if err := s.reconciler.FanOut(ctx, payment, allocations); err != nil {
			return fmt.Errorf("reconcile payment %d: %w", payment.ID, err)
		}
		return nil
	})
}

// Submit validates, records and reconciles one incoming payment. All
// validation failures surface before any write; a storage failure inside
// the transaction rolls back the payment and every allocation, so no
// partial allocation set can exist for a payment that claims to be
// split.
func (s *PaymentService) Submit(ctx context.Context, req SubmitPaymentRequest, ip, userAgent string) (*models.Payment, error) {
	cmd, err := s.validator.Validate(ctx, req)
	if err != nil {
		return nil, err
	}

	rate := req.ExchangeRate
	if rate <= 0 {
		rate, err = s.rates.Rate(ctx, req.Currency, req.ReceivedDate)
		if err != nil {
			return nil, err
		}
	}

	payment := s.buildPayment(cmd, rate)
	allocations := s.buildAllocations(cmd, rate)

	err = s.repos.Atomic(ctx, func(r *repository.Repositories) error {
		if err := r.Payment.Create(ctx, payment); err != nil {
			return err
		}
		if len(allocations) > 0 {
			for i := range allocations {
				allocations[i].PaymentID = payment.ID
			}
			if err := r.Allocation.CreateBatch(ctx, allocations); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, &PersistenceError{Op: "record payment", Err: err}
	}
	payment.Allocations = allocations

	s.enqueueFanOut(payment, allocations)

	s.auditSvc.Log(ctx, "CREATE", "Payment", payment.ID,
		fmt.Sprintf("%s payment of %.2f %s recorded", cmd.Kind, payment.Amount, payment.Currency), ip, userAgent)

	return payment, nil
}

func (s *PaymentService) buildPayment(cmd *PaymentCommand, rate float64) *models.Payment {
	req := cmd.Request

	status := req.PaymentStatus
	if status == "" {
		status = models.PaymentStatusCompleted
	}
	paymentDate := req.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	receipt := uuid.NewString()
	payment := &models.Payment{
		Amount:                req.Amount,
		Currency:              req.Currency,
		ExchangeRate:          rate,
		AmountUSD:             money.ToUSD(req.Amount, rate),
		PaymentStatus:         status,
		PaymentMethod:         req.PaymentMethod,
		PaymentDate:           paymentDate,
		ReceivedDate:          req.ReceivedDate,
		ReceiptNumber:         &receipt,
		ContactID:             req.ContactID,
		PayerContactID:        req.PayerContactID,
		PaymentPlanID:         req.PaymentPlanID,
		InstallmentScheduleID: req.InstallmentScheduleID,
		Notes:                 req.Notes,
	}

	if cmd.Kind == CommandDirect {
		payment.PledgeID = req.PledgeID
		payment.AmountInPledgeCurrency = amountInPledgeCurrency(payment, cmd.Pledge)
	} else {
		// Split payments carry no pledge link and no pledge-currency
		// amount at the payment level; both live on the allocations.
		payment.IsSplitPayment = true
	}

	return payment
}

// amountInPledgeCurrency expresses the payment amount in the pledge's
// currency: the raw amount when currencies match, otherwise the USD
// amount converted at the pledge's rate.
func amountInPledgeCurrency(payment *models.Payment, pledge *models.Pledge) *float64 {
	if payment.Currency == pledge.Currency {
		v := payment.Amount
		return &v
	}
	if pledge.ExchangeRate <= 0 {
		return nil
	}
	v := money.FromUSD(payment.AmountUSD, pledge.ExchangeRate)
	return &v
}

func (s *PaymentService) buildAllocations(cmd *PaymentCommand, paymentRate float64) []models.PaymentAllocation {
	if cmd.Kind != CommandSplit {
		return nil
	}

	req := cmd.Request
	allocations := make([]models.PaymentAllocation, 0, len(req.Allocations))
	for _, in := range req.Allocations {
		receipt := uuid.NewString()
		alloc := models.PaymentAllocation{
			PledgeID:              in.PledgeID,
			AllocatedAmount:       in.Amount,
			Currency:              req.Currency,
			ExchangeRate:          in.ExchangeRate,
			InstallmentScheduleID: in.InstallmentScheduleID,
			ReceiptNumber:         &receipt,
			Notes:                 in.Notes,
		}

		var usd float64
		if req.Currency == "USD" {
			usd = in.Amount
		} else {
			// The allocation's own rate wins; the payment's rate is the
			// documented fallback.
			effectiveRate := paymentRate
			if in.ExchangeRate != nil && *in.ExchangeRate > 0 {
				effectiveRate = *in.ExchangeRate
			}
			usd = money.ToUSD(in.Amount, effectiveRate)
		}
		alloc.AllocatedAmountUSD = &usd

		allocations = append(allocations, alloc)
	}

	return allocations
}

// UpdateStatus moves a payment through its state machine and re-derives
// every aggregate the payment touches.
func (s *PaymentService) UpdateStatus(ctx context.Context, id uint, newStatus string, ip, userAgent string) (*models.Payment, error) {
	payment, err := s.repos.Payment.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "payment", IDs: []uint{id}}
		}
		return nil, err
	}

	previous := payment.PaymentStatus
	fsm := statemachine.NewPaymentFSM(payment)
	if err := fsm.TransitionTo(ctx, newStatus); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.repos.Payment.Update(ctx, payment); err != nil {
		return nil, &PersistenceError{Op: "update payment status", Err: err}
	}

	allocations, err := s.repos.Allocation.FindByPayment(ctx, payment.ID)
	if err != nil {
		return nil, err
	}
	s.enqueueFanOut(payment, allocations)

	s.auditSvc.Log(ctx, "STATUS_CHANGE", "Payment", payment.ID,
		fmt.Sprintf("status %s -> %s", previous, newStatus), ip, userAgent)

	return payment, nil
}

// ReplaceAllocations swaps a split payment's allocation set wholesale.
// The new set is validated against the payment amount exactly like a new
// split submission, the swap happens in one transaction, and every
// pledge touched before or after is reconciled.
func (s *PaymentService) ReplaceAllocations(ctx context.Context, paymentID uint, newAllocations []AllocationInput, ip, userAgent string) (*models.Payment, error) {
	payment, err := s.repos.Payment.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "payment", IDs: []uint{paymentID}}
		}
		return nil, err
	}
	if payment.IsDirect() {
		return nil, &ShapeError{Reason: "direct payments have no allocations to replace"}
	}
	if len(newAllocations) == 0 {
		return nil, &ShapeError{Reason: "missing target"}
	}

	if _, err := s.validator.ValidateAllocations(ctx, payment.Currency, payment.Amount, newAllocations); err != nil {
		return nil, err
	}

	existing, err := s.repos.Allocation.FindByPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	cmd := &PaymentCommand{
		Kind: CommandSplit,
		Request: SubmitPaymentRequest{
			Currency:    payment.Currency,
			Allocations: newAllocations,
		},
	}
	replacement := s.buildAllocations(cmd, payment.ExchangeRate)

	err = s.repos.Atomic(ctx, func(r *repository.Repositories) error {
		if err := r.Allocation.DeleteByPayment(ctx, paymentID); err != nil {
			return err
		}
		for i := range replacement {
			replacement[i].PaymentID = paymentID
		}
		return r.Allocation.CreateBatch(ctx, replacement)
	})
	if err != nil {
		return nil, &PersistenceError{Op: "replace allocations", Err: err}
	}
	payment.Allocations = replacement

	// Pledges dropped from the set still need a pass so their aggregates
	// shed the old allocation.
	touched := append([]models.PaymentAllocation{}, existing...)
	touched = append(touched, replacement...)
	s.enqueueFanOut(payment, touched)

	s.auditSvc.Log(ctx, "REPLACE_ALLOCATIONS", "Payment", payment.ID,
		fmt.Sprintf("allocation set replaced: %d -> %d allocations", len(existing), len(replacement)), ip, userAgent)

	return payment, nil
}
