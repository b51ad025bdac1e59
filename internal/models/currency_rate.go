package models

import (
	"time"
)

// CurrencyRate stores the rate-to-USD for a currency code on a given
// date. The forex provider resolves lookups against this table.
type CurrencyRate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:3;not null;index:idx_currency_rates_code_date" json:"code"`
	RateToUSD float64   `gorm:"type:decimal(20,8);not null" json:"rate_to_usd"`
	RateDate  time.Time `gorm:"type:date;not null;index:idx_currency_rates_code_date" json:"rate_date"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for CurrencyRate
func (CurrencyRate) TableName() string {
	return "currency_rates"
}
