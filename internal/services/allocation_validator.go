package services

import (
	"context"
	"time"

	"github.com/givenly/donor-api/internal/models"
	"github.com/givenly/donor-api/internal/repository"
	"github.com/givenly/donor-api/pkg/money"
)

// AllocationInput is one proposed allocation inside a payment request.
type AllocationInput struct {
	PledgeID              uint     `json:"pledge_id" binding:"required"`
	Amount                float64  `json:"amount" binding:"required"`
	Currency              string   `json:"currency"`
	ExchangeRate          *float64 `json:"exchange_rate"`
	InstallmentScheduleID *uint    `json:"installment_schedule_id"`
	Notes                 *string  `json:"notes"`
}

// SubmitPaymentRequest is the inbound payment command before validation.
type SubmitPaymentRequest struct {
	Amount        float64    `json:"amount" binding:"required"`
	Currency      string     `json:"currency" binding:"required"`
	ExchangeRate  float64    `json:"exchange_rate"`
	PaymentMethod string     `json:"payment_method" binding:"required"`
	PaymentStatus string     `json:"payment_status"`
	PaymentDate   time.Time  `json:"payment_date"`
	ReceivedDate  *time.Time `json:"received_date"`

	ContactID             uint  `json:"contact_id" binding:"required"`
	PayerContactID        *uint `json:"payer_contact_id"`
	PledgeID              *uint `json:"pledge_id"`
	PaymentPlanID         *uint `json:"payment_plan_id"`
	InstallmentScheduleID *uint `json:"installment_schedule_id"`

	// IsSplitPayment is advisory only; populated allocations make the
	// request split even when the flag is unset.
	IsSplitPayment bool              `json:"is_split_payment"`
	Allocations    []AllocationInput `json:"allocations"`

	Notes *string `json:"notes"`
}

// Command kinds produced by validation.
const (
	CommandDirect = "direct"
	CommandSplit  = "split"
)

// PaymentCommand is a validated, variant-tagged payment ready for the
// recorder. Downstream code never sees the ambiguous both-set or
// neither-set shapes.
type PaymentCommand struct {
	Kind    string
	Request SubmitPaymentRequest

	// Pledge is set for direct commands.
	Pledge *models.Pledge
	// Pledges is set for split commands, keyed by pledge ID.
	Pledges map[uint]*models.Pledge
}

// AllocationValidator classifies a payment request into exactly one of
// the two payment variants and enforces the arithmetic invariants before
// anything touches storage. It performs no writes.
type AllocationValidator struct {
	pledgeRepo repository.PledgeRepository
}

// NewAllocationValidator creates a new allocation validator
func NewAllocationValidator(pledgeRepo repository.PledgeRepository) *AllocationValidator {
	return &AllocationValidator{pledgeRepo: pledgeRepo}
}

// Validate applies the shape rules in order and returns the tagged
// command. All failures are reported before any write occurs.
func (v *AllocationValidator) Validate(ctx context.Context, req SubmitPaymentRequest) (*PaymentCommand, error) {
	hasPledge := req.PledgeID != nil && *req.PledgeID > 0
	hasAllocations := len(req.Allocations) > 0

	if !hasPledge && !hasAllocations {
		return nil, &ShapeError{Reason: "missing target"}
	}

	// A pledge id with a populated allocations array is ambiguous. With
	// an empty array the pledge id wins and the request is direct.
	if hasPledge && hasAllocations {
		return nil, &ShapeError{Reason: "ambiguous target"}
	}

	if hasPledge {
		return v.validateDirect(ctx, req)
	}

	// Populated allocations make the request split even when the
	// advisory is_split_payment flag was left unset.
	return v.validateSplit(ctx, req)
}

func (v *AllocationValidator) validateDirect(ctx context.Context, req SubmitPaymentRequest) (*PaymentCommand, error) {
	pledges, err := v.pledgeRepo.FindByIDs(ctx, []uint{*req.PledgeID})
	if err != nil {
		return nil, err
	}
	if len(pledges) == 0 {
		return nil, &NotFoundError{Entity: "pledge", IDs: []uint{*req.PledgeID}}
	}

	return &PaymentCommand{
		Kind:    CommandDirect,
		Request: req,
		Pledge:  &pledges[0],
	}, nil
}

func (v *AllocationValidator) validateSplit(ctx context.Context, req SubmitPaymentRequest) (*PaymentCommand, error) {
	byID, err := v.ValidateAllocations(ctx, req.Currency, req.Amount, req.Allocations)
	if err != nil {
		return nil, err
	}

	return &PaymentCommand{
		Kind:    CommandSplit,
		Request: req,
		Pledges: byID,
	}, nil
}

// ValidateAllocations checks an allocation set against a payment amount
// and currency: referenced pledges must exist (fetched in one batch),
// amounts must be positive, currencies must match the payment's, and the
// total must equal the payment amount within the epsilon. Used both for
// new split payments and for wholesale allocation replacement.
func (v *AllocationValidator) ValidateAllocations(ctx context.Context, currency string, amount float64, allocations []AllocationInput) (map[uint]*models.Pledge, error) {
	ids := make([]uint, 0, len(allocations))
	seen := make(map[uint]bool, len(allocations))
	for _, a := range allocations {
		if !seen[a.PledgeID] {
			seen[a.PledgeID] = true
			ids = append(ids, a.PledgeID)
		}
	}

	pledges, err := v.pledgeRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.Pledge, len(pledges))
	for i := range pledges {
		byID[pledges[i].ID] = &pledges[i]
	}

	var missing []uint
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &NotFoundError{Entity: "pledge", IDs: missing}
	}

	amounts := make([]float64, 0, len(allocations))
	for _, a := range allocations {
		if a.Amount <= 0 {
			return nil, &ShapeError{Reason: "allocation amount must be positive"}
		}
		if a.Currency != "" && a.Currency != currency {
			return nil, &CurrencyMismatchError{
				PaymentCurrency:    currency,
				AllocationCurrency: a.Currency,
			}
		}
		amounts = append(amounts, a.Amount)
	}

	total := money.Sum(amounts)
	if !money.EqualWithin(total, amount, money.Epsilon) {
		return nil, &AmountMismatchError{
			TotalAllocated: money.Round2(total),
			PaymentAmount:  amount,
			Difference:     money.Round2(amount - total),
		}
	}

	return byID, nil
}
