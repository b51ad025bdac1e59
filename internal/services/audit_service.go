package services

import (
	"context"

	"github.com/givenly/donor-api/internal/models"
	"github.com/givenly/donor-api/pkg/logger"
	"gorm.io/gorm"
)

// AuditService records payment mutations so every derived-balance change
// stays traceable to the operation that caused it.
type AuditService struct {
	db *gorm.DB
}

// NewAuditService creates a new audit service
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Log records an audit entry. Audit failures are logged, never
// propagated: an audit miss must not fail the payment operation it
// describes.
func (s *AuditService) Log(ctx context.Context, action, entity string, entityID uint, details, ip, userAgent string) {
	if s.db == nil {
		return
	}
	entry := &models.AuditLog{
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.Warn("failed to write audit entry", "action", action, "entity", entity, "entity_id", entityID, "error", err)
	}
}

// List retrieves audit entries, newest first.
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var total int64

	if err := s.db.WithContext(ctx).Model(&models.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := s.db.WithContext(ctx).Order("created_at desc").Limit(limit).Offset(offset).Find(&logs)
	return logs, total, result.Error
}
