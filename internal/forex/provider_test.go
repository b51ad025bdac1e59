package forex

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/givenly/donor-api/internal/models"
	"github.com/givenly/donor-api/internal/repository"
)

type mockRateRepository struct {
	repository.CurrencyRateRepository
	dated  map[string]*models.CurrencyRate
	latest map[string]*models.CurrencyRate
}

func (m *mockRateRepository) FindOnOrBefore(ctx context.Context, code string, date time.Time) (*models.CurrencyRate, error) {
	if r, ok := m.dated[code]; ok && !r.RateDate.After(date) {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRateRepository) FindLatest(ctx context.Context, code string) (*models.CurrencyRate, error) {
	if r, ok := m.latest[code]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestRate_USDAlwaysOne(t *testing.T) {
	provider := NewProvider(&mockRateRepository{})

	for _, code := range []string{"USD", "usd", "", "  usd  "} {
		rate, err := provider.Rate(context.Background(), code, nil)
		require.NoError(t, err)
		assert.Equal(t, 1.0, rate)
	}
}

func TestRate_DatedLookup(t *testing.T) {
	rateDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockRateRepository{
		dated: map[string]*models.CurrencyRate{
			"EUR": {Code: "EUR", RateToUSD: 1.08, RateDate: rateDate},
		},
	}
	provider := NewProvider(repo)

	on := rateDate.AddDate(0, 0, 5)
	rate, err := provider.Rate(context.Background(), "eur", &on)

	require.NoError(t, err)
	assert.Equal(t, 1.08, rate)
}

func TestRate_DateMissFallsBackToLatest(t *testing.T) {
	repo := &mockRateRepository{
		latest: map[string]*models.CurrencyRate{
			"EUR": {Code: "EUR", RateToUSD: 1.1},
		},
	}
	provider := NewProvider(repo)

	on := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rate, err := provider.Rate(context.Background(), "EUR", &on)

	require.NoError(t, err)
	assert.Equal(t, 1.1, rate)
}

func TestRate_NilDateUsesLatest(t *testing.T) {
	repo := &mockRateRepository{
		latest: map[string]*models.CurrencyRate{
			"GBP": {Code: "GBP", RateToUSD: 1.27},
		},
	}
	provider := NewProvider(repo)

	rate, err := provider.Rate(context.Background(), "GBP", nil)

	require.NoError(t, err)
	assert.Equal(t, 1.27, rate)
}

func TestRate_NoRateStored(t *testing.T) {
	provider := NewProvider(&mockRateRepository{})

	_, err := provider.Rate(context.Background(), "CHF", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Contains(t, err.Error(), "CHF")
}
