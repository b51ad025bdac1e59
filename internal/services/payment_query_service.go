package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/givenly/donor-api/internal/models"
	"github.com/givenly/donor-api/internal/repository"
)

// AllocationDetail is the display projection of one allocation.
type AllocationDetail struct {
	ID                    uint       `json:"id"`
	PledgeID              uint       `json:"pledge_id"`
	PledgeDescription     *string    `json:"pledge_description,omitempty"`
	PledgeContactName     string     `json:"pledge_contact_name,omitempty"`
	AllocatedAmount       float64    `json:"allocated_amount"`
	Currency              string     `json:"currency"`
	AllocatedAmountUSD    *float64   `json:"allocated_amount_usd"`
	InstallmentScheduleID *uint      `json:"installment_schedule_id,omitempty"`
	ReceiptNumber         *string    `json:"receipt_number,omitempty"`
}

// PaymentDetail is the read-side projection of a payment with its
// allocations and the display-only derived flags. It is assembled purely
// from already-reconciled state; nothing here recomputes an aggregate.
type PaymentDetail struct {
	ID                     uint       `json:"id"`
	Amount                 float64    `json:"amount"`
	Currency               string     `json:"currency"`
	ExchangeRate           float64    `json:"exchange_rate"`
	AmountUSD              float64    `json:"amount_usd"`
	AmountInPledgeCurrency *float64   `json:"amount_in_pledge_currency"`
	PaymentStatus          string     `json:"payment_status"`
	PaymentMethod          string     `json:"payment_method"`
	PaymentDate            time.Time  `json:"payment_date"`
	ReceivedDate           *time.Time `json:"received_date"`
	ReceiptNumber          *string    `json:"receipt_number"`

	ContactID      uint    `json:"contact_id"`
	ContactName    string  `json:"contact_name,omitempty"`
	PayerContactID *uint   `json:"payer_contact_id,omitempty"`
	PayerName      string  `json:"payer_name,omitempty"`
	PledgeID       *uint   `json:"pledge_id"`
	PledgeBalance  *float64 `json:"pledge_balance,omitempty"`
	PaymentPlanID  *uint   `json:"payment_plan_id,omitempty"`

	IsSplitPayment      bool `json:"is_split_payment"`
	IsThirdPartyPayment bool `json:"is_third_party_payment"`
	AllocationCount     int  `json:"allocation_count"`

	Allocations []AllocationDetail `json:"allocations,omitempty"`
	Notes       *string            `json:"notes,omitempty"`
}

// PaymentQueryService is the read path: it reassembles payments with
// their allocations and joined display fields. It never mutates an
// aggregate.
type PaymentQueryService struct {
	repos *repository.Repositories
}

// NewPaymentQueryService creates a new payment query service
func NewPaymentQueryService(repos *repository.Repositories) *PaymentQueryService {
	return &PaymentQueryService{repos: repos}
}

// GetPayment returns one payment enriched for display.
func (s *PaymentQueryService) GetPayment(ctx context.Context, id uint) (*PaymentDetail, error) {
	payment, err := s.repos.Payment.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "payment", IDs: []uint{id}}
		}
		return nil, err
	}

	detail := toDetail(payment)
	return &detail, nil
}

// List returns a page of payments enriched for display, plus the total
// row count for pagination.
func (s *PaymentQueryService) List(ctx context.Context, query *repository.ListQuery) ([]PaymentDetail, int64, error) {
	payments, total, err := s.repos.Payment.List(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	details := make([]PaymentDetail, 0, len(payments))
	for i := range payments {
		details = append(details, toDetail(&payments[i]))
	}
	return details, total, nil
}

// GetPledge returns a pledge with its stored derived balances. The
// aggregates come straight from the last reconciliation pass; nothing is
// recomputed here.
func (s *PaymentQueryService) GetPledge(ctx context.Context, id uint) (*models.Pledge, error) {
	pledge, err := s.repos.Pledge.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "pledge", IDs: []uint{id}}
		}
		return nil, err
	}
	return pledge, nil
}

// ListPledges returns a page of pledges with stored aggregates.
func (s *PaymentQueryService) ListPledges(ctx context.Context, query *repository.ListQuery) ([]models.Pledge, int64, error) {
	return s.repos.Pledge.List(ctx, query)
}

func toDetail(p *models.Payment) PaymentDetail {
	detail := PaymentDetail{
		ID:                     p.ID,
		Amount:                 p.Amount,
		Currency:               p.Currency,
		ExchangeRate:           p.ExchangeRate,
		AmountUSD:              p.AmountUSD,
		AmountInPledgeCurrency: p.AmountInPledgeCurrency,
		PaymentStatus:          p.PaymentStatus,
		PaymentMethod:          p.PaymentMethod,
		PaymentDate:            p.PaymentDate,
		ReceivedDate:           p.ReceivedDate,
		ReceiptNumber:          p.ReceiptNumber,
		ContactID:              p.ContactID,
		PayerContactID:         p.PayerContactID,
		PledgeID:               p.PledgeID,
		PaymentPlanID:          p.PaymentPlanID,
		IsSplitPayment:         len(p.Allocations) > 0,
		IsThirdPartyPayment:    p.IsThirdParty(),
		AllocationCount:        len(p.Allocations),
		Notes:                  p.Notes,
	}

	if p.Contact.ID != 0 {
		detail.ContactName = p.Contact.FullName
	}
	if p.PayerContact != nil && p.PayerContact.ID != 0 {
		detail.PayerName = p.PayerContact.FullName
	}
	if p.Pledge != nil && p.Pledge.ID != 0 {
		balance := p.Pledge.Balance
		detail.PledgeBalance = &balance
	}

	for _, a := range p.Allocations {
		ad := AllocationDetail{
			ID:                    a.ID,
			PledgeID:              a.PledgeID,
			AllocatedAmount:       a.AllocatedAmount,
			Currency:              a.Currency,
			AllocatedAmountUSD:    a.AllocatedAmountUSD,
			InstallmentScheduleID: a.InstallmentScheduleID,
			ReceiptNumber:         a.ReceiptNumber,
		}
		if a.Pledge != nil && a.Pledge.ID != 0 {
			ad.PledgeDescription = a.Pledge.Description
			if a.Pledge.Contact.ID != 0 {
				ad.PledgeContactName = a.Pledge.Contact.FullName
			}
		}
		detail.Allocations = append(detail.Allocations, ad)
	}

	return detail
}
