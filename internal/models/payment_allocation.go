package models

import (
	"time"
)

// PaymentAllocation attributes a portion of a split payment to one
// specific pledge. Allocation rows are created once per transaction;
// the set may only be replaced wholesale through the undo-split /
// redistribute path, never edited row by row.
type PaymentAllocation struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	PaymentID uint `gorm:"not null;index" json:"payment_id"`
	PledgeID  uint `gorm:"not null;index" json:"pledge_id"`

	AllocatedAmount float64 `gorm:"type:decimal(15,2);not null" json:"allocated_amount"`
	// Currency always equals the parent payment's currency; conversion
	// to each pledge's currency happens at aggregation time.
	Currency           string   `gorm:"size:3;not null" json:"currency"`
	AllocatedAmountUSD *float64 `gorm:"type:decimal(15,2)" json:"allocated_amount_usd"`
	// ExchangeRate is the allocation's own rate when supplied; the
	// parent payment's rate is the fallback.
	ExchangeRate *float64 `gorm:"type:decimal(20,8)" json:"exchange_rate"`

	InstallmentScheduleID *uint   `gorm:"index" json:"installment_schedule_id"`
	ReceiptNumber         *string `gorm:"size:64" json:"receipt_number"`
	Notes                 *string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Payment *Payment `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`
	Pledge  *Pledge  `gorm:"foreignKey:PledgeID" json:"pledge,omitempty"`
}

// TableName specifies the table name for PaymentAllocation
func (PaymentAllocation) TableName() string {
	return "payment_allocations"
}
