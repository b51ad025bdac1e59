package repository

import (
	"context"

	"github.com/givenly/donor-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentPlanRepository defines the interface for payment plan data access
type PaymentPlanRepository interface {
	FindByID(ctx context.Context, id uint) (*models.PaymentPlan, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.PaymentPlan, error)
	FindByIDWithInstallments(ctx context.Context, id uint) (*models.PaymentPlan, error)
	Create(ctx context.Context, plan *models.PaymentPlan) error
	Update(ctx context.Context, plan *models.PaymentPlan) error
}

type paymentPlanRepository struct {
	db *gorm.DB
}

// NewPaymentPlanRepository creates a new payment plan repository
func NewPaymentPlanRepository(db *gorm.DB) PaymentPlanRepository {
	return &paymentPlanRepository{db: db}
}

func (r *paymentPlanRepository) FindByID(ctx context.Context, id uint) (*models.PaymentPlan, error) {
	var plan models.PaymentPlan
	err := r.db.WithContext(ctx).First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *paymentPlanRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.PaymentPlan, error) {
	var plan models.PaymentPlan
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *paymentPlanRepository) FindByIDWithInstallments(ctx context.Context, id uint) (*models.PaymentPlan, error) {
	var plan models.PaymentPlan
	err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("due_date ASC")
		}).
		First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *paymentPlanRepository) Create(ctx context.Context, plan *models.PaymentPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *paymentPlanRepository) Update(ctx context.Context, plan *models.PaymentPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}
