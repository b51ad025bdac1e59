package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Pledge       PledgeRepository
	Payment      PaymentRepository
	Allocation   AllocationRepository
	PaymentPlan  PaymentPlanRepository
	Installment  InstallmentRepository
	CurrencyRate CurrencyRateRepository

	db *gorm.DB
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Pledge:       NewPledgeRepository(db),
		Payment:      NewPaymentRepository(db),
		Allocation:   NewAllocationRepository(db),
		PaymentPlan:  NewPaymentPlanRepository(db),
		Installment:  NewInstallmentRepository(db),
		CurrencyRate: NewCurrencyRateRepository(db),
		db:           db,
	}
}

// Atomic runs fn against transaction-scoped repositories. A failure
// anywhere inside fn rolls back every write made through them, which is
// what keeps "insert payment + insert N allocations" all-or-nothing and
// guards the read-then-write window of each reconciliation pass.
//
// Repositories assembled without a database handle (service tests with
// mock repositories) run fn directly.
func (r *Repositories) Atomic(ctx context.Context, fn func(tx *Repositories) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx.WithContext(ctx)))
	})
}
