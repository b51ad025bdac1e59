package models

import (
	"time"
)

// InstallmentSchedule is one expected installment under a payment plan.
// Status is a pure function of the linked payment's status and is
// recomputed on every relevant payment mutation; it is never set
// independently of that mapping (the overdue sweep only touches
// installments with no qualifying payment).
type InstallmentSchedule struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	PaymentPlanID uint       `gorm:"not null;index" json:"payment_plan_id"`
	DueDate       time.Time  `gorm:"type:date;not null;index" json:"due_date"`
	Amount        float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency      string     `gorm:"size:3;not null;default:USD" json:"currency"`
	Status        string     `gorm:"size:20;not null;default:pending;index" json:"status"`
	PaidDate      *time.Time `gorm:"type:date" json:"paid_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	PaymentPlan *PaymentPlan `gorm:"foreignKey:PaymentPlanID" json:"payment_plan,omitempty"`
}

// TableName specifies the table name for InstallmentSchedule
func (InstallmentSchedule) TableName() string {
	return "installment_schedules"
}

// Installment status constants
const (
	InstallmentStatusPending   = "pending"
	InstallmentStatusPaid      = "paid"
	InstallmentStatusOverdue   = "overdue"
	InstallmentStatusCancelled = "cancelled"
)

// IsOverdue returns true if the installment is still pending past its
// due date.
func (i *InstallmentSchedule) IsOverdue() bool {
	return i.Status == InstallmentStatusPending && time.Now().After(i.DueDate)
}

// InstallmentStatusForPayment maps a payment status onto the derived
// installment status. Refunded, pending and expected payments all map
// back to pending; there is no terminal refunded installment state.
func InstallmentStatusForPayment(paymentStatus string) string {
	switch paymentStatus {
	case PaymentStatusCompleted, PaymentStatusProcessing:
		return InstallmentStatusPaid
	case PaymentStatusCancelled, PaymentStatusFailed:
		return InstallmentStatusCancelled
	default:
		return InstallmentStatusPending
	}
}
