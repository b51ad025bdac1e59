package statemachine

import (
	"context"
	"fmt"

	"github.com/givenly/donor-api/internal/models"
	"github.com/looplab/fsm"
)

// PaymentFSM wraps a payment with its status state machine. Every status
// change funnels through here so the set of legal transitions lives in
// one place.
type PaymentFSM struct {
	payment *models.Payment
	fsm     *fsm.FSM
}

// statusEvents maps a target payment status to the FSM event that
// reaches it.
var statusEvents = map[string]string{
	models.PaymentStatusPending:    "activate",
	models.PaymentStatusProcessing: "process",
	models.PaymentStatusCompleted:  "complete",
	models.PaymentStatusFailed:     "fail",
	models.PaymentStatusCancelled:  "cancel",
	models.PaymentStatusRefunded:   "refund",
}

// NewPaymentFSM creates a new payment state machine
func NewPaymentFSM(payment *models.Payment) *PaymentFSM {
	pfsm := &PaymentFSM{
		payment: payment,
	}

	pfsm.fsm = fsm.NewFSM(
		payment.PaymentStatus,
		fsm.Events{
			// expected → pending once the installment window opens
			{Name: "activate", Src: []string{models.PaymentStatusExpected}, Dst: models.PaymentStatusPending},

			// pending → processing
			{Name: "process", Src: []string{models.PaymentStatusPending}, Dst: models.PaymentStatusProcessing},

			// pending/processing/expected → completed
			{Name: "complete", Src: []string{models.PaymentStatusPending, models.PaymentStatusProcessing, models.PaymentStatusExpected}, Dst: models.PaymentStatusCompleted},

			// pending/processing → failed
			{Name: "fail", Src: []string{models.PaymentStatusPending, models.PaymentStatusProcessing}, Dst: models.PaymentStatusFailed},

			// pending/processing/expected → cancelled
			{Name: "cancel", Src: []string{models.PaymentStatusPending, models.PaymentStatusProcessing, models.PaymentStatusExpected}, Dst: models.PaymentStatusCancelled},

			// completed → refunded
			{Name: "refund", Src: []string{models.PaymentStatusCompleted}, Dst: models.PaymentStatusRefunded},
		},
		fsm.Callbacks{},
	)

	return pfsm
}

// TransitionTo moves the payment to the target status if the transition
// is legal, updating the payment's status in place.
func (p *PaymentFSM) TransitionTo(ctx context.Context, targetStatus string) error {
	event, ok := statusEvents[targetStatus]
	if !ok {
		return fmt.Errorf("unknown payment status: %s", targetStatus)
	}

	if err := p.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("cannot move payment from %s to %s: %w", p.payment.PaymentStatus, targetStatus, err)
	}

	p.payment.PaymentStatus = p.fsm.Current()
	return nil
}

// CanTransitionTo checks whether the target status is reachable from the
// current one.
func (p *PaymentFSM) CanTransitionTo(targetStatus string) bool {
	event, ok := statusEvents[targetStatus]
	if !ok {
		return false
	}
	return p.fsm.Can(event)
}

// Current returns the current state
func (p *PaymentFSM) Current() string {
	return p.fsm.Current()
}
