package services

import (
	"github.com/givenly/donor-api/internal/forex"
	"github.com/givenly/donor-api/internal/jobs"
	"github.com/givenly/donor-api/internal/repository"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Validator    *AllocationValidator
	Payment      *PaymentService
	PaymentQuery *PaymentQueryService
	Reconcile    *ReconcileService
	PaymentPlan  *PaymentPlanService
	Audit        *AuditService
	Maintenance  *MaintenanceService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, rates forex.Provider, worker *jobs.Worker, db *gorm.DB) *Services {
	auditSvc := NewAuditService(db)
	validator := NewAllocationValidator(repos.Pledge)
	reconciler := NewReconcileService(repos)

	return &Services{
		Validator:    validator,
		Payment:      NewPaymentService(repos, validator, reconciler, rates, auditSvc, worker),
		PaymentQuery: NewPaymentQueryService(repos),
		Reconcile:    reconciler,
		PaymentPlan:  NewPaymentPlanService(repos, reconciler),
		Audit:        auditSvc,
		Maintenance:  NewMaintenanceService(repos),
	}
}
