package models

import (
	"time"
)

// PaymentPlan groups expected installment payments against a pledge.
// TotalPaid, InstallmentsPaid and RemainingAmount are derived from the
// set of completed/processing payments referencing the plan and are
// recomputed in full by the reconciler.
type PaymentPlan struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	ContactID            uint      `gorm:"not null;index" json:"contact_id"`
	PledgeID             *uint     `gorm:"index" json:"pledge_id"`
	Currency             string    `gorm:"size:3;not null;default:USD" json:"currency"`
	TotalPlannedAmount   float64   `gorm:"type:decimal(15,2);not null" json:"total_planned_amount"`
	Frequency            string    `gorm:"size:20;not null;default:monthly" json:"frequency"`
	NumberOfInstallments int       `gorm:"not null;default:1" json:"number_of_installments"`
	StartDate            time.Time `gorm:"type:date;not null" json:"start_date"`
	Status               string    `gorm:"size:20;not null;default:active" json:"status"`

	// Derived fields, written only by the reconciler.
	TotalPaid        float64 `gorm:"type:decimal(15,2);not null;default:0" json:"total_paid"`
	InstallmentsPaid int     `gorm:"not null;default:0" json:"installments_paid"`
	RemainingAmount  float64 `gorm:"type:decimal(15,2);not null;default:0" json:"remaining_amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Contact      Contact               `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	Pledge       *Pledge               `gorm:"foreignKey:PledgeID" json:"pledge,omitempty"`
	Installments []InstallmentSchedule `gorm:"foreignKey:PaymentPlanID" json:"installments,omitempty"`
}

// TableName specifies the table name for PaymentPlan
func (PaymentPlan) TableName() string {
	return "payment_plans"
}

// Payment plan frequency constants
const (
	FrequencyWeekly    = "weekly"
	FrequencyBiweekly  = "biweekly"
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyAnnual    = "annual"
)

// Payment plan status constants
const (
	PlanStatusActive    = "active"
	PlanStatusCompleted = "completed"
	PlanStatusCancelled = "cancelled"
)

// NextDueDate returns the due date of installment i (zero-based) from
// the plan's start date.
func (p *PaymentPlan) NextDueDate(i int) time.Time {
	switch p.Frequency {
	case FrequencyWeekly:
		return p.StartDate.AddDate(0, 0, 7*i)
	case FrequencyBiweekly:
		return p.StartDate.AddDate(0, 0, 14*i)
	case FrequencyQuarterly:
		return p.StartDate.AddDate(0, 3*i, 0)
	case FrequencyAnnual:
		return p.StartDate.AddDate(i, 0, 0)
	default:
		return p.StartDate.AddDate(0, i, 0)
	}
}
