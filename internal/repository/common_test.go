package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderClause(t *testing.T) {
	columns := map[string]string{
		"payment_date": "payments.payment_date",
		"amount":       "payments.amount",
	}
	fallback := "payments.payment_date DESC, payments.id DESC"

	tests := []struct {
		name     string
		sortBy   string
		sortDir  string
		expected string
	}{
		{
			name:     "whitelisted column ascending",
			sortBy:   "amount",
			sortDir:  "asc",
			expected: "payments.amount ASC",
		},
		{
			name:     "whitelisted column descending",
			sortBy:   "payment_date",
			sortDir:  "desc",
			expected: "payments.payment_date DESC",
		},
		{
			name:     "empty sort uses fallback",
			sortBy:   "",
			expected: fallback,
		},
		{
			name:     "unknown column uses fallback",
			sortBy:   "receipt_number",
			sortDir:  "asc",
			expected: fallback,
		},
		{
			name:     "injection attempt uses fallback",
			sortBy:   "amount; DROP TABLE payments; --",
			sortDir:  "asc",
			expected: fallback,
		},
		{
			name:     "unknown direction defaults to ascending",
			sortBy:   "amount",
			sortDir:  "sideways",
			expected: "payments.amount ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewListQuery()
			q.SortBy = tt.sortBy
			q.SortDir = tt.sortDir

			assert.Equal(t, tt.expected, q.OrderClause(columns, fallback))
		})
	}
}

func TestOffset(t *testing.T) {
	q := NewListQuery()
	q.Page = 3
	q.PerPage = 20
	assert.Equal(t, 40, q.Offset())

	q = NewListQuery()
	q.Page = 0
	q.PerPage = 0
	assert.Equal(t, 0, q.Offset())
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.PerPage)
}
