package checkout

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"arc-storefront/internal/domain/order"
	"arc-storefront/internal/pkg/clock"
	"arc-storefront/internal/pkg/errs"
)

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Status is a point-in-time copy of the orchestrator.
type Status struct {
	State         State
	CheckoutOpen  bool
	Customer      order.CustomerInfo
	Reference     int
	MessageID     string
	FailureKind   errs.Kind
	FailureReason string
}

type Options struct {
	ResetDelay      time.Duration
	TestSendEnabled bool
}

// Orchestrator drives one session's checkout: Idle -> Submitting -> Succeeded | Failed.
// At most one submission is in flight; the cart is cleared only after a confirmed delivery.
type Orchestrator struct {
	mu        sync.Mutex
	cart      CartSource
	assembler *order.Assembler
	deliverer Deliverer
	clock     clock.Clock
	logger    *slog.Logger
	opts      Options

	state          State
	open           bool
	customer       order.CustomerInfo
	reference      int
	messageID      string
	failure        error
	resetTimer     clock.Timer
	generation     uint64
	observers      map[int]func(Status)
	nextObserverID int
}

func NewOrchestrator(
	cartSource CartSource,
	assembler *order.Assembler,
	deliverer Deliverer,
	clk clock.Clock,
	logger *slog.Logger,
	opts Options,
) *Orchestrator {
	return &Orchestrator{
		cart:      cartSource,
		assembler: assembler,
		deliverer: deliverer,
		clock:     clk,
		logger:    logger,
		opts:      opts,
		state:     StateIdle,
		observers: make(map[int]func(Status)),
	}
}

// Open shows the checkout view. An empty cart cannot be checked out.
func (o *Orchestrator) Open() error {
	o.mu.Lock()
	if err := o.guardLocked(); err != nil {
		o.mu.Unlock()
		return err
	}
	if o.cart.IsEmpty() {
		o.mu.Unlock()
		return errs.ErrEmptyCart
	}
	o.open = true
	o.mu.Unlock()

	o.notify()
	return nil
}

func (o *Orchestrator) UpdateCustomer(info order.CustomerInfo) {
	o.mu.Lock()
	o.customer = info
	o.mu.Unlock()
}

// Submit validates info and delivers the receipt for the current cart.
// Validation failures are returned without any state change or delivery attempt.
func (o *Orchestrator) Submit(ctx context.Context, info order.CustomerInfo) (Status, error) {
	o.mu.Lock()
	if err := o.guardLocked(); err != nil {
		o.mu.Unlock()
		return o.Status(), err
	}
	if o.cart.IsEmpty() {
		o.mu.Unlock()
		return o.Status(), errs.ErrEmptyCart
	}
	snap, err := o.assembler.Assemble(info, o.cart)
	if err != nil {
		o.mu.Unlock()
		return o.Status(), err
	}
	o.customer = info
	o.beginLocked()
	o.mu.Unlock()

	return o.run(ctx, snap)
}

// TestSend delivers the current cart with the held customer info and no form validation.
func (o *Orchestrator) TestSend(ctx context.Context) (Status, error) {
	if !o.opts.TestSendEnabled {
		return o.Status(), errs.ErrTestSendDisabled
	}

	o.mu.Lock()
	if err := o.guardLocked(); err != nil {
		o.mu.Unlock()
		return o.Status(), err
	}
	snap := o.assembler.Unchecked(o.customer, o.cart)
	o.beginLocked()
	o.mu.Unlock()

	return o.run(ctx, snap)
}

// Cancel closes the checkout view. It is refused while a submission or confirmation is pending.
func (o *Orchestrator) Cancel() error {
	o.mu.Lock()
	if err := o.guardLocked(); err != nil {
		o.mu.Unlock()
		return err
	}
	o.state = StateIdle
	o.open = false
	o.failure = nil
	o.mu.Unlock()

	o.notify()
	return nil
}

func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.statusLocked()
}

// Subscribe registers fn for every state change and returns a func that removes it.
func (o *Orchestrator) Subscribe(fn func(Status)) func() {
	o.mu.Lock()
	id := o.nextObserverID
	o.nextObserverID++
	o.observers[id] = fn
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.observers, id)
		o.mu.Unlock()
	}
}

// InFlight reports whether a delivery is currently running.
func (o *Orchestrator) InFlight() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state == StateSubmitting
}

// Stop cancels a pending reset.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.resetTimer != nil {
		o.resetTimer.Stop()
		o.resetTimer = nil
	}
}

func (o *Orchestrator) guardLocked() error {
	switch o.state {
	case StateSubmitting:
		return errs.ErrSubmissionInFlight
	case StateSucceeded:
		return errs.ErrConfirmationPending
	default:
		return nil
	}
}

func (o *Orchestrator) beginLocked() {
	o.state = StateSubmitting
	o.open = true
	o.failure = nil
	o.messageID = ""
}

// run performs the delivery with no lock held. The Submitting state keeps every other
// submission out until it returns.
func (o *Orchestrator) run(ctx context.Context, snap order.Snapshot) (Status, error) {
	o.notify()

	ack, err := o.deliverer.Deliver(ctx, snap)

	o.mu.Lock()
	if err != nil {
		o.state = StateFailed
		o.failure = err
		o.reference = snap.Reference()
		o.mu.Unlock()

		o.logger.Warn("checkout delivery failed", "reference", snap.Reference(), "error", err)
		o.notify()
		return o.Status(), err
	}

	o.cart.Clear()
	o.state = StateSucceeded
	o.reference = ack.Reference
	o.messageID = ack.MessageID
	o.generation++
	gen := o.generation
	o.resetTimer = o.clock.AfterFunc(o.opts.ResetDelay, func() { o.reset(gen) })
	o.mu.Unlock()

	o.logger.Info("checkout completed", "reference", ack.Reference)
	o.notify()
	return o.Status(), nil
}

// reset returns to Idle with the view closed, unless a newer success superseded this timer.
func (o *Orchestrator) reset(gen uint64) {
	o.mu.Lock()
	if o.state != StateSucceeded || o.generation != gen {
		o.mu.Unlock()
		return
	}
	o.state = StateIdle
	o.open = false
	o.resetTimer = nil
	o.mu.Unlock()

	o.notify()
}

func (o *Orchestrator) statusLocked() Status {
	st := Status{
		State:        o.state,
		CheckoutOpen: o.open,
		Customer:     o.customer,
		Reference:    o.reference,
		MessageID:    o.messageID,
	}
	if o.failure != nil {
		st.FailureKind, _ = errs.KindOf(o.failure)
		st.FailureReason = errs.ReasonOf(o.failure)
	}
	return st
}

func (o *Orchestrator) notify() {
	o.mu.Lock()
	st := o.statusLocked()
	fns := make([]func(Status), 0, len(o.observers))
	for _, fn := range o.observers {
		fns = append(fns, fn)
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
