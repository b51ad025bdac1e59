// Package forex resolves currency exchange rates for the payment
// engine. Rates are stored per code and date; the provider applies the
// documented fallback chain rather than failing on an inexact date.
package forex

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/givenly/donor-api/internal/repository"
	"gorm.io/gorm"
)

// Provider returns the rate-to-USD for a currency code. USD is always
// 1.0. A nil date means "today's rate", which resolves to the latest
// stored rate; an exact-date miss falls back to the most recent rate on
// or before that date, then to the latest overall.
type Provider interface {
	Rate(ctx context.Context, code string, on *time.Time) (float64, error)
}

type rateProvider struct {
	rates repository.CurrencyRateRepository
}

// NewProvider creates a rate provider backed by the currency rate store.
func NewProvider(rates repository.CurrencyRateRepository) Provider {
	return &rateProvider{rates: rates}
}

func (p *rateProvider) Rate(ctx context.Context, code string, on *time.Time) (float64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || code == "USD" {
		return 1.0, nil
	}

	if on != nil {
		rate, err := p.rates.FindOnOrBefore(ctx, code, *on)
		if err == nil {
			return rate.RateToUSD, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
	}

	rate, err := p.rates.FindLatest(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("no exchange rate stored for %s: %w", code, err)
		}
		return 0, err
	}
	return rate.RateToUSD, nil
}
