package repository

import (
	"context"
	"time"

	"github.com/givenly/donor-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InstallmentRepository defines the interface for installment schedule data access
type InstallmentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.InstallmentSchedule, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.InstallmentSchedule, error)
	FindByPlan(ctx context.Context, planID uint) ([]models.InstallmentSchedule, error)
	CreateBatch(ctx context.Context, installments []models.InstallmentSchedule) error
	Update(ctx context.Context, installment *models.InstallmentSchedule) error
	// FindPendingDueBefore returns pending installments past their due
	// date, for the overdue sweep.
	FindPendingDueBefore(ctx context.Context, cutoff time.Time) ([]models.InstallmentSchedule, error)
}

type installmentRepository struct {
	db *gorm.DB
}

// NewInstallmentRepository creates a new installment repository
func NewInstallmentRepository(db *gorm.DB) InstallmentRepository {
	return &installmentRepository{db: db}
}

func (r *installmentRepository) FindByID(ctx context.Context, id uint) (*models.InstallmentSchedule, error) {
	var installment models.InstallmentSchedule
	err := r.db.WithContext(ctx).First(&installment, id).Error
	if err != nil {
		return nil, err
	}
	return &installment, nil
}

func (r *installmentRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.InstallmentSchedule, error) {
	var installment models.InstallmentSchedule
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&installment, id).Error
	if err != nil {
		return nil, err
	}
	return &installment, nil
}

func (r *installmentRepository) FindByPlan(ctx context.Context, planID uint) ([]models.InstallmentSchedule, error) {
	var installments []models.InstallmentSchedule
	err := r.db.WithContext(ctx).
		Where("payment_plan_id = ?", planID).
		Order("due_date ASC").
		Find(&installments).Error
	return installments, err
}

func (r *installmentRepository) CreateBatch(ctx context.Context, installments []models.InstallmentSchedule) error {
	if len(installments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&installments).Error
}

func (r *installmentRepository) Update(ctx context.Context, installment *models.InstallmentSchedule) error {
	return r.db.WithContext(ctx).Save(installment).Error
}

func (r *installmentRepository) FindPendingDueBefore(ctx context.Context, cutoff time.Time) ([]models.InstallmentSchedule, error) {
	var installments []models.InstallmentSchedule
	err := r.db.WithContext(ctx).
		Where("status = ?", models.InstallmentStatusPending).
		Where("due_date < ?", cutoff).
		Find(&installments).Error
	return installments, err
}
