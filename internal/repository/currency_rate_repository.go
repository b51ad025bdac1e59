package repository

import (
	"context"
	"time"

	"github.com/givenly/donor-api/internal/models"
	"gorm.io/gorm"
)

// CurrencyRateRepository defines the interface for currency rate data access
type CurrencyRateRepository interface {
	// FindOnOrBefore returns the most recent rate for a code dated at or
	// before the given date.
	FindOnOrBefore(ctx context.Context, code string, date time.Time) (*models.CurrencyRate, error)
	// FindLatest returns the newest rate for a code regardless of date.
	FindLatest(ctx context.Context, code string) (*models.CurrencyRate, error)
	Create(ctx context.Context, rate *models.CurrencyRate) error
}

type currencyRateRepository struct {
	db *gorm.DB
}

// NewCurrencyRateRepository creates a new currency rate repository
func NewCurrencyRateRepository(db *gorm.DB) CurrencyRateRepository {
	return &currencyRateRepository{db: db}
}

func (r *currencyRateRepository) FindOnOrBefore(ctx context.Context, code string, date time.Time) (*models.CurrencyRate, error) {
	var rate models.CurrencyRate
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		Where("rate_date <= ?", date).
		Order("rate_date DESC").
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *currencyRateRepository) FindLatest(ctx context.Context, code string) (*models.CurrencyRate, error) {
	var rate models.CurrencyRate
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		Order("rate_date DESC").
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *currencyRateRepository) Create(ctx context.Context, rate *models.CurrencyRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}
