package services

import (
	"context"
	"fmt"
	"time"

	"github.com/givenly/donor-api/internal/models"
	"github.com/givenly/donor-api/internal/repository"
	"github.com/givenly/donor-api/pkg/logger"
)

// MaintenanceService owns the scheduled sweeps that keep derived state
// honest between payment mutations.
type MaintenanceService struct {
	repos *repository.Repositories
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(repos *repository.Repositories) *MaintenanceService {
	return &MaintenanceService{repos: repos}
}

// SweepOverdueInstallments marks pending installments past their due
// date as overdue. Only installments with no qualifying payment are
// still pending, so the sweep never contradicts the payment-derived
// status mapping.
func (s *MaintenanceService) SweepOverdueInstallments(ctx context.Context) error {
	installments, err := s.repos.Installment.FindPendingDueBefore(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("find pending installments: %w", err)
	}

	swept := 0
	for i := range installments {
		installment := &installments[i]
		installment.Status = models.InstallmentStatusOverdue
		if err := s.repos.Installment.Update(ctx, installment); err != nil {
			logger.Error("failed to mark installment overdue", "installment_id", installment.ID, "error", err)
			continue
		}
		swept++
	}

	if swept > 0 {
		logger.Info("overdue installment sweep finished", "marked_overdue", swept)
	}
	return nil
}
