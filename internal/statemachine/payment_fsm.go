package statemachine

import (
	"context"
	"errors"
	"fmt"

	"github.com/ashrayhostel/hostel-api/internal/models"
	"github.com/looplab/fsm"
)

// ErrTransitionNotAllowed is returned when the payment's current status forbids the event.
var ErrTransitionNotAllowed = errors.New("transition not allowed")

// Payment events
const (
	EventApprove = "approve"
	EventReject  = "reject"
)

// PaymentFSM wraps a payment with its state machine
type PaymentFSM struct {
	payment *models.Payment
	fsm     *fsm.FSM
}

// NewPaymentFSM creates a new payment state machine.
// settled and rejected have no outgoing events.
func NewPaymentFSM(payment *models.Payment) *PaymentFSM {
	pfsm := &PaymentFSM{
		payment: payment,
	}

	pfsm.fsm = fsm.NewFSM(
		payment.Status,
		fsm.Events{
			// pending → settled
			{Name: EventApprove, Src: []string{models.PaymentStatusPending}, Dst: models.PaymentStatusSettled},

			// pending → rejected
			{Name: EventReject, Src: []string{models.PaymentStatusPending}, Dst: models.PaymentStatusRejected},
		},
		fsm.Callbacks{},
	)

	return pfsm
}

// Approve transitions payment to settled state
func (p *PaymentFSM) Approve(ctx context.Context) error {
	if !p.payment.MayApprove() {
		return fmt.Errorf("%w: payment cannot be approved in current state: %s", ErrTransitionNotAllowed, p.payment.Status)
	}

	if err := p.fsm.Event(ctx, EventApprove); err != nil {
		return fmt.Errorf("%w: failed to approve payment: %v", ErrTransitionNotAllowed, err)
	}

	p.payment.Status = p.fsm.Current()
	return nil
}

// Reject transitions payment to rejected state
func (p *PaymentFSM) Reject(ctx context.Context) error {
	if !p.payment.MayReject() {
		return fmt.Errorf("%w: payment cannot be rejected in current state: %s", ErrTransitionNotAllowed, p.payment.Status)
	}

	if err := p.fsm.Event(ctx, EventReject); err != nil {
		return fmt.Errorf("%w: failed to reject payment: %v", ErrTransitionNotAllowed, err)
	}

	p.payment.Status = p.fsm.Current()
	return nil
}

// Current returns the current state
func (p *PaymentFSM) Current() string {
	return p.fsm.Current()
}

// Can checks if a transition is possible
func (p *PaymentFSM) Can(event string) bool {
	return p.fsm.Can(event)
}
