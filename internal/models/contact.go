package models

import (
	"time"
)

// Contact carries the donor display fields the query layer joins onto
// payments and pledges. Contact management itself lives outside the
// engine.
type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"not null" json:"full_name"`
	Email     *string   `gorm:"index" json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Contact
func (Contact) TableName() string {
	return "contacts"
}
