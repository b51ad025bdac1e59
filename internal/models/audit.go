package models

import (
	"time"
)

// AuditLog records every payment mutation (create, status transition,
// allocation replacement) so derived-balance changes stay traceable to
// the operation that caused them.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Action    string    `gorm:"size:50;not null" json:"action"` // CREATE, STATUS_CHANGE, REPLACE_ALLOCATIONS, RECONCILE
	Entity    string    `gorm:"size:50;not null" json:"entity"` // Payment, Pledge, PaymentPlan, InstallmentSchedule
	EntityID  uint      `json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
