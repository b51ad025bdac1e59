package models

import (
	"time"
)

// Payment represents one received transaction. A payment is either a
// direct payment (PledgeID set, no allocations) or a split payment
// (PledgeID null, one or more allocations). The validator enforces the
// two-variant shape before anything is persisted.
type Payment struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Amount       float64 `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency     string  `gorm:"size:3;not null;default:USD" json:"currency"`
	ExchangeRate float64 `gorm:"type:decimal(20,8);not null;default:1" json:"exchange_rate"`
	AmountUSD    float64 `gorm:"type:decimal(15,2);not null" json:"amount_usd"`

	// AmountInPledgeCurrency is populated for direct payments only; for
	// split payments the per-pledge amount lives on each allocation.
	AmountInPledgeCurrency *float64 `gorm:"type:decimal(15,2)" json:"amount_in_pledge_currency"`

	PaymentStatus string     `gorm:"default:pending;not null;index" json:"payment_status"`
	PaymentMethod string     `gorm:"size:50;not null" json:"payment_method"`
	PaymentDate   time.Time  `gorm:"type:date;not null;index" json:"payment_date"`
	ReceivedDate  *time.Time `gorm:"type:date" json:"received_date"`
	ReceiptNumber *string    `gorm:"size:64;index" json:"receipt_number"`

	ContactID             uint  `gorm:"not null;index" json:"contact_id"`
	PayerContactID        *uint `gorm:"index" json:"payer_contact_id"`
	PledgeID              *uint `gorm:"index" json:"pledge_id"`
	PaymentPlanID         *uint `gorm:"index" json:"payment_plan_id"`
	InstallmentScheduleID *uint `gorm:"index" json:"installment_schedule_id"`

	// IsSplitPayment is advisory: the data shape (allocations present,
	// PledgeID absent) is authoritative during validation.
	IsSplitPayment bool `gorm:"not null;default:false" json:"is_split_payment"`

	Notes     *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Contact      Contact             `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	PayerContact *Contact            `gorm:"foreignKey:PayerContactID" json:"payer_contact,omitempty"`
	Pledge       *Pledge             `gorm:"foreignKey:PledgeID" json:"pledge,omitempty"`
	Allocations  []PaymentAllocation `gorm:"foreignKey:PaymentID" json:"allocations,omitempty"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// Payment status constants
const (
	PaymentStatusPending    = "pending"
	PaymentStatusCompleted  = "completed"
	PaymentStatusProcessing = "processing"
	PaymentStatusFailed     = "failed"
	PaymentStatusCancelled  = "cancelled"
	PaymentStatusRefunded   = "refunded"
	PaymentStatusExpected   = "expected"
)

// CountableStatuses are the payment statuses that contribute to derived
// pledge and payment-plan aggregates.
var CountableStatuses = []string{PaymentStatusCompleted, PaymentStatusProcessing}

// CountsTowardBalance returns true if the payment contributes to pledge
// and plan aggregates.
func (p *Payment) CountsTowardBalance() bool {
	return p.PaymentStatus == PaymentStatusCompleted || p.PaymentStatus == PaymentStatusProcessing
}

// IsDirect returns true for payments recorded against a single pledge.
func (p *Payment) IsDirect() bool {
	return p.PledgeID != nil && *p.PledgeID > 0
}

// IsThirdParty returns true when someone other than the pledge's contact
// made the payment.
func (p *Payment) IsThirdParty() bool {
	return p.PayerContactID != nil && *p.PayerContactID != p.ContactID
}
