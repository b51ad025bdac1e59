package repository

import (
	"context"

	"github.com/givenly/donor-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PledgeRepository defines the interface for pledge data access
type PledgeRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Pledge, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Pledge, error)
	// FindByIDForUpdate locks the pledge row for the duration of the
	// surrounding transaction so concurrent reconciliations of the same
	// pledge cannot interleave their read and write.
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Pledge, error)
	FindByContact(ctx context.Context, contactID uint) ([]models.Pledge, error)
	Create(ctx context.Context, pledge *models.Pledge) error
	Update(ctx context.Context, pledge *models.Pledge) error
	List(ctx context.Context, query *ListQuery) ([]models.Pledge, int64, error)
}

// pledgeSortColumns whitelists the sortable columns for pledge lists.
var pledgeSortColumns = map[string]string{
	"created_at":      "created_at",
	"original_amount": "original_amount",
	"total_paid":      "total_paid",
	"balance":         "balance",
}

type pledgeRepository struct {
	db *gorm.DB
}

// NewPledgeRepository creates a new pledge repository
func NewPledgeRepository(db *gorm.DB) PledgeRepository {
	return &pledgeRepository{db: db}
}

func (r *pledgeRepository) FindByID(ctx context.Context, id uint) (*models.Pledge, error) {
	var pledge models.Pledge
	err := r.db.WithContext(ctx).First(&pledge, id).Error
	if err != nil {
		return nil, err
	}
	return &pledge, nil
}

func (r *pledgeRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Pledge, error) {
	var pledges []models.Pledge
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&pledges).Error
	return pledges, err
}

func (r *pledgeRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Pledge, error) {
	var pledge models.Pledge
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&pledge, id).Error
	if err != nil {
		return nil, err
	}
	return &pledge, nil
}

func (r *pledgeRepository) FindByContact(ctx context.Context, contactID uint) ([]models.Pledge, error) {
	var pledges []models.Pledge
	err := r.db.WithContext(ctx).
		Where("contact_id = ?", contactID).
		Order("created_at ASC").
		Find(&pledges).Error
	return pledges, err
}

func (r *pledgeRepository) Create(ctx context.Context, pledge *models.Pledge) error {
	return r.db.WithContext(ctx).Create(pledge).Error
}

func (r *pledgeRepository) Update(ctx context.Context, pledge *models.Pledge) error {
	return r.db.WithContext(ctx).Save(pledge).Error
}

func (r *pledgeRepository) List(ctx context.Context, query *ListQuery) ([]models.Pledge, int64, error) {
	var pledges []models.Pledge
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Pledge{})

	if contactID := query.Filters["contact_id"]; contactID != "" {
		db = db.Where("contact_id = ?", contactID)
	}
	if currency := query.Filters["currency"]; currency != "" {
		db = db.Where("currency = ?", currency)
	}
	if query.Filters["open_only"] == "true" {
		db = db.Where("balance > 0")
	}

	countDb := db.Session(&gorm.Session{})
	if err := countDb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := query.OrderClause(pledgeSortColumns, "created_at DESC")

	err := db.Preload("Contact").
		Order(order).
		Limit(query.PerPage).
		Offset(query.Offset()).
		Find(&pledges).Error

	return pledges, total, err
}
