package models

import (
	"time"
)

// Pledge represents a donor's promise to give a total amount, tracked
// against cumulative payments. The TotalPaid/Balance fields are derived
// aggregates: they are recomputed from the contributing payments and
// allocations by the reconciler and must never be patched incrementally.
type Pledge struct {
	ID                uint     `gorm:"primaryKey" json:"id"`
	ContactID         uint     `gorm:"not null;index" json:"contact_id"`
	Currency          string   `gorm:"size:3;not null;default:USD" json:"currency"`
	OriginalAmount    float64  `gorm:"type:decimal(15,2);not null" json:"original_amount"`
	ExchangeRate      float64  `gorm:"type:decimal(20,8);not null;default:1" json:"exchange_rate"`
	OriginalAmountUSD *float64 `gorm:"type:decimal(15,2)" json:"original_amount_usd"`
	Description       *string  `gorm:"type:text" json:"description,omitempty"`

	// Derived fields, written only by the reconciler.
	TotalPaid    float64  `gorm:"type:decimal(15,2);not null;default:0" json:"total_paid"`
	TotalPaidUSD float64  `gorm:"type:decimal(15,2);not null;default:0" json:"total_paid_usd"`
	Balance      float64  `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	BalanceUSD   *float64 `gorm:"type:decimal(15,2)" json:"balance_usd"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Contact Contact `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
}

// TableName specifies the table name for Pledge
func (Pledge) TableName() string {
	return "pledges"
}

// IsFullyPaid returns true when the reconciled balance has reached zero.
func (p *Pledge) IsFullyPaid() bool {
	return p.Balance <= 0
}

// PledgeResponse is the JSON response format for pledges
type PledgeResponse struct {
	ID                uint     `json:"id"`
	ContactID         uint     `json:"contact_id"`
	ContactName       string   `json:"contact_name,omitempty"`
	Currency          string   `json:"currency"`
	OriginalAmount    float64  `json:"original_amount"`
	ExchangeRate      float64  `json:"exchange_rate"`
	OriginalAmountUSD *float64 `json:"original_amount_usd"`
	TotalPaid         float64  `json:"total_paid"`
	TotalPaidUSD      float64  `json:"total_paid_usd"`
	Balance           float64  `json:"balance"`
	BalanceUSD        *float64 `json:"balance_usd"`
	FullyPaid         bool     `json:"fully_paid"`
	Description       *string  `json:"description,omitempty"`
}

// ToResponse converts Pledge to PledgeResponse
func (p *Pledge) ToResponse() PledgeResponse {
	resp := PledgeResponse{
		ID:                p.ID,
		ContactID:         p.ContactID,
		Currency:          p.Currency,
		OriginalAmount:    p.OriginalAmount,
		ExchangeRate:      p.ExchangeRate,
		OriginalAmountUSD: p.OriginalAmountUSD,
		TotalPaid:         p.TotalPaid,
		TotalPaidUSD:      p.TotalPaidUSD,
		Balance:           p.Balance,
		BalanceUSD:        p.BalanceUSD,
		FullyPaid:         p.IsFullyPaid(),
		Description:       p.Description,
	}

	if p.Contact.ID != 0 {
		resp.ContactName = p.Contact.FullName
	}

	return resp
}
