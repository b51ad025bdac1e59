package repository

import (
	"context"

	"github.com/givenly/donor-api/internal/models"
	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	// FindByIDWithDetails loads the payment with its allocations and the
	// pledge/contact display fields the query layer projects.
	FindByIDWithDetails(ctx context.Context, id uint) (*models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	// FindDirectByPledge returns direct payments on a pledge whose status
	// is in statuses. Split payments never match: their pledge linkage
	// lives on the allocations.
	FindDirectByPledge(ctx context.Context, pledgeID uint, statuses []string) ([]models.Payment, error)
	FindByPlan(ctx context.Context, planID uint, statuses []string) ([]models.Payment, error)
	List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error)
}

// paymentSortColumns whitelists the sortable columns for payment lists.
var paymentSortColumns = map[string]string{
	"payment_date":  "payments.payment_date",
	"amount":        "payments.amount",
	"amount_usd":    "payments.amount_usd",
	"status":        "payments.payment_status",
	"created_at":    "payments.created_at",
	"received_date": "payments.received_date",
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Contact").
		Preload("PayerContact").
		Preload("Pledge.Contact").
		Preload("Allocations.Pledge.Contact").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *paymentRepository) FindDirectByPledge(ctx context.Context, pledgeID uint, statuses []string) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("pledge_id = ?", pledgeID).
		Where("payment_status IN ?", statuses).
		Order("payment_date ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) FindByPlan(ctx context.Context, planID uint, statuses []string) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("payment_plan_id = ?", planID).
		Where("payment_status IN ?", statuses).
		Order("payment_date ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Payment{})

	if status := query.Filters["status"]; status != "" {
		db = db.Where("payments.payment_status = ?", status)
	}
	if contactID := query.Filters["contact_id"]; contactID != "" {
		db = db.Where("payments.contact_id = ?", contactID)
	}
	if pledgeID := query.Filters["pledge_id"]; pledgeID != "" {
		db = db.Where("payments.pledge_id = ?", pledgeID)
	}
	if planID := query.Filters["payment_plan_id"]; planID != "" {
		db = db.Where("payments.payment_plan_id = ?", planID)
	}
	if val := query.Filters["start_date"]; val != "" {
		db = db.Where("payments.payment_date >= ?", val)
	}
	if val := query.Filters["end_date"]; val != "" {
		db = db.Where("payments.payment_date <= ?", val)
	}

	countDb := db.Session(&gorm.Session{})
	if err := countDb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := query.OrderClause(paymentSortColumns, "payments.payment_date DESC, payments.id DESC")

	err := db.Preload("Contact").
		Preload("Pledge").
		Preload("Allocations.Pledge").
		Order(order).
		Limit(query.PerPage).
		Offset(query.Offset()).
		Find(&payments).Error

	return payments, total, err
}
