package repository

import (
	"context"

	"github.com/givenly/donor-api/internal/models"
	"gorm.io/gorm"
)

// AllocationRepository defines the interface for payment allocation data access
type AllocationRepository interface {
	CreateBatch(ctx context.Context, allocations []models.PaymentAllocation) error
	FindByPayment(ctx context.Context, paymentID uint) ([]models.PaymentAllocation, error)
	// FindByPledgeWithPaymentStatus returns allocations against a pledge
	// whose parent payment's status is in statuses.
	FindByPledgeWithPaymentStatus(ctx context.Context, pledgeID uint, statuses []string) ([]models.PaymentAllocation, error)
	DeleteByPayment(ctx context.Context, paymentID uint) error
	CountByPayment(ctx context.Context, paymentID uint) (int64, error)
}

type allocationRepository struct {
	db *gorm.DB
}

// NewAllocationRepository creates a new allocation repository
func NewAllocationRepository(db *gorm.DB) AllocationRepository {
	return &allocationRepository{db: db}
}

func (r *allocationRepository) CreateBatch(ctx context.Context, allocations []models.PaymentAllocation) error {
	if len(allocations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&allocations).Error
}

func (r *allocationRepository) FindByPayment(ctx context.Context, paymentID uint) ([]models.PaymentAllocation, error) {
	var allocations []models.PaymentAllocation
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("id ASC").
		Find(&allocations).Error
	return allocations, err
}

func (r *allocationRepository) FindByPledgeWithPaymentStatus(ctx context.Context, pledgeID uint, statuses []string) ([]models.PaymentAllocation, error) {
	var allocations []models.PaymentAllocation
	err := r.db.WithContext(ctx).
		Joins("JOIN payments ON payments.id = payment_allocations.payment_id").
		Where("payment_allocations.pledge_id = ?", pledgeID).
		Where("payments.payment_status IN ?", statuses).
		Order("payment_allocations.id ASC").
		Find(&allocations).Error
	return allocations, err
}

func (r *allocationRepository) DeleteByPayment(ctx context.Context, paymentID uint) error {
	return r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Delete(&models.PaymentAllocation{}).Error
}

func (r *allocationRepository) CountByPayment(ctx context.Context, paymentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PaymentAllocation{}).
		Where("payment_id = ?", paymentID).
		Count(&count).Error
	return count, err
}
