package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/givenly/donor-api/internal/models"
	"github.com/givenly/donor-api/internal/repository"
)

// Mocks shared by the service tests. Each mock embeds its interface to
// avoid implementing every method and keeps simple in-memory state so
// tests can assert on what was written.

// Mock PledgeRepository
type mockPledgeRepository struct {
	repository.PledgeRepository
	pledges map[uint]*models.Pledge
	updated map[uint]*models.Pledge
}

func newMockPledgeRepository(pledges ...*models.Pledge) *mockPledgeRepository {
	m := &mockPledgeRepository{
		pledges: make(map[uint]*models.Pledge),
		updated: make(map[uint]*models.Pledge),
	}
	for _, p := range pledges {
		m.pledges[p.ID] = p
	}
	return m
}

func (m *mockPledgeRepository) FindByID(ctx context.Context, id uint) (*models.Pledge, error) {
	if p, ok := m.pledges[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPledgeRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Pledge, error) {
	return m.FindByID(ctx, id)
}

func (m *mockPledgeRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Pledge, error) {
	var out []models.Pledge
	for _, id := range ids {
		if p, ok := m.pledges[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPledgeRepository) Update(ctx context.Context, pledge *models.Pledge) error {
	m.updated[pledge.ID] = pledge
	return nil
}

// Mock PaymentRepository
type mockPaymentRepository struct {
	repository.PaymentRepository
	payments  map[uint]*models.Payment
	created   []*models.Payment
	updated   []*models.Payment
	createErr error
	nextID    uint
}

func newMockPaymentRepository(payments ...*models.Payment) *mockPaymentRepository {
	m := &mockPaymentRepository{
		payments: make(map[uint]*models.Payment),
		nextID:   1000,
	}
	for _, p := range payments {
		m.payments[p.ID] = p
	}
	return m
}

func (m *mockPaymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	if p, ok := m.payments[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	payment.ID = m.nextID
	m.payments[payment.ID] = payment
	m.created = append(m.created, payment)
	return nil
}

func (m *mockPaymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	m.payments[payment.ID] = payment
	m.updated = append(m.updated, payment)
	return nil
}

func (m *mockPaymentRepository) FindDirectByPledge(ctx context.Context, pledgeID uint, statuses []string) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range m.payments {
		if p.PledgeID != nil && *p.PledgeID == pledgeID && statusIn(p.PaymentStatus, statuses) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPaymentRepository) FindByPlan(ctx context.Context, planID uint, statuses []string) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range m.payments {
		if p.PaymentPlanID != nil && *p.PaymentPlanID == planID && statusIn(p.PaymentStatus, statuses) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func statusIn(status string, statuses []string) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Mock AllocationRepository
type mockAllocationRepository struct {
	repository.AllocationRepository
	byPayment map[uint][]models.PaymentAllocation
	// paymentStatus lets FindByPledgeWithPaymentStatus honor the status
	// filter without a real join.
	paymentStatus map[uint]string
	createErr     error
	deleted       []uint
	createdBatch  [][]models.PaymentAllocation
}

func newMockAllocationRepository() *mockAllocationRepository {
	return &mockAllocationRepository{
		byPayment:     make(map[uint][]models.PaymentAllocation),
		paymentStatus: make(map[uint]string),
	}
}

func (m *mockAllocationRepository) add(paymentID uint, paymentStatus string, allocations ...models.PaymentAllocation) {
	for i := range allocations {
		allocations[i].PaymentID = paymentID
	}
	m.byPayment[paymentID] = append(m.byPayment[paymentID], allocations...)
	m.paymentStatus[paymentID] = paymentStatus
}

func (m *mockAllocationRepository) CreateBatch(ctx context.Context, allocations []models.PaymentAllocation) error {
	if m.createErr != nil {
		return m.createErr
	}
	if len(allocations) == 0 {
		return nil
	}
	m.createdBatch = append(m.createdBatch, allocations)
	paymentID := allocations[0].PaymentID
	m.byPayment[paymentID] = append(m.byPayment[paymentID], allocations...)
	if _, ok := m.paymentStatus[paymentID]; !ok {
		m.paymentStatus[paymentID] = models.PaymentStatusCompleted
	}
	return nil
}

func (m *mockAllocationRepository) FindByPayment(ctx context.Context, paymentID uint) ([]models.PaymentAllocation, error) {
	return m.byPayment[paymentID], nil
}

func (m *mockAllocationRepository) FindByPledgeWithPaymentStatus(ctx context.Context, pledgeID uint, statuses []string) ([]models.PaymentAllocation, error) {
	var out []models.PaymentAllocation
	for paymentID, allocations := range m.byPayment {
		if !statusIn(m.paymentStatus[paymentID], statuses) {
			continue
		}
		for _, a := range allocations {
			if a.PledgeID == pledgeID {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func (m *mockAllocationRepository) DeleteByPayment(ctx context.Context, paymentID uint) error {
	m.deleted = append(m.deleted, paymentID)
	delete(m.byPayment, paymentID)
	return nil
}

// Mock PaymentPlanRepository
type mockPaymentPlanRepository struct {
	repository.PaymentPlanRepository
	plans   map[uint]*models.PaymentPlan
	updated []*models.PaymentPlan
}

func newMockPaymentPlanRepository(plans ...*models.PaymentPlan) *mockPaymentPlanRepository {
	m := &mockPaymentPlanRepository{plans: make(map[uint]*models.PaymentPlan)}
	for _, p := range plans {
		m.plans[p.ID] = p
	}
	return m
}

func (m *mockPaymentPlanRepository) FindByID(ctx context.Context, id uint) (*models.PaymentPlan, error) {
	if p, ok := m.plans[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentPlanRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.PaymentPlan, error) {
	return m.FindByID(ctx, id)
}

func (m *mockPaymentPlanRepository) Update(ctx context.Context, plan *models.PaymentPlan) error {
	m.plans[plan.ID] = plan
	m.updated = append(m.updated, plan)
	return nil
}

// Mock InstallmentRepository
type mockInstallmentRepository struct {
	repository.InstallmentRepository
	installments map[uint]*models.InstallmentSchedule
	byPlan       map[uint][]models.InstallmentSchedule
	created      []models.InstallmentSchedule
	updated      []*models.InstallmentSchedule
}

func newMockInstallmentRepository(installments ...*models.InstallmentSchedule) *mockInstallmentRepository {
	m := &mockInstallmentRepository{
		installments: make(map[uint]*models.InstallmentSchedule),
		byPlan:       make(map[uint][]models.InstallmentSchedule),
	}
	for _, i := range installments {
		m.installments[i.ID] = i
		m.byPlan[i.PaymentPlanID] = append(m.byPlan[i.PaymentPlanID], *i)
	}
	return m
}

func (m *mockInstallmentRepository) FindByID(ctx context.Context, id uint) (*models.InstallmentSchedule, error) {
	if i, ok := m.installments[id]; ok {
		return i, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstallmentRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.InstallmentSchedule, error) {
	return m.FindByID(ctx, id)
}

func (m *mockInstallmentRepository) FindByPlan(ctx context.Context, planID uint) ([]models.InstallmentSchedule, error) {
	return m.byPlan[planID], nil
}

func (m *mockInstallmentRepository) CreateBatch(ctx context.Context, installments []models.InstallmentSchedule) error {
	m.created = append(m.created, installments...)
	if len(installments) > 0 {
		planID := installments[0].PaymentPlanID
		m.byPlan[planID] = append(m.byPlan[planID], installments...)
	}
	return nil
}

func (m *mockInstallmentRepository) Update(ctx context.Context, installment *models.InstallmentSchedule) error {
	m.installments[installment.ID] = installment
	m.updated = append(m.updated, installment)
	return nil
}

func (m *mockInstallmentRepository) FindPendingDueBefore(ctx context.Context, cutoff time.Time) ([]models.InstallmentSchedule, error) {
	var out []models.InstallmentSchedule
	for _, i := range m.installments {
		if i.Status == models.InstallmentStatusPending && i.DueDate.Before(cutoff) {
			out = append(out, *i)
		}
	}
	return out, nil
}

// Mock forex provider
type mockRateProvider struct {
	rate float64
	err  error
	// calls records the codes looked up
	calls []string
}

func (m *mockRateProvider) Rate(ctx context.Context, code string, on *time.Time) (float64, error) {
	m.calls = append(m.calls, code)
	if m.err != nil {
		return 0, m.err
	}
	if code == "" || code == "USD" {
		return 1.0, nil
	}
	return m.rate, nil
}

func ptrUint(v uint) *uint           { return &v }
func ptrFloat(v float64) *float64    { return &v }
func ptrTime(v time.Time) *time.Time { return &v }
