package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

// State of a payment form.
type State string

const (
	StateIdle             State = "idle"
	StateSubmitting       State = "submitting"
	StateConfirmed        State = "confirmed-redirect"
	StateExternalRedirect State = "external-redirect"
	StateError            State = "error-displayed"
)

// Terminal reports whether the form has left the payment step.
func (s State) Terminal() bool {
	return s == StateConfirmed || s == StateExternalRedirect
}

var (
	ErrSubmissionInFlight = errors.New("payment submission already in flight")
	ErrFormClosed         = errors.New("payment form closed")
)

type submitter interface {
	Submit(ctx context.Context, language string, offer Offer, values entity.FormValues) (entity.Outcome, error)
}

// Snapshot is a point-in-time copy of a form.
type Snapshot struct {
	State State
	// ErrorKey is the localisation key of the banner, empty when hidden.
	ErrorKey string
	// Outcome of the last completed submission.
	Outcome entity.Outcome
}

// Form is one shopper's payment form. At most one submission is in flight
// at a time; Close cancels it.
type Form struct {
	submitter submitter
	timeout   time.Duration

	mu       sync.Mutex
	state    State
	errorKey string
	outcome  entity.Outcome
	offer    *Offer
	cancel   context.CancelFunc
	closed   bool
	lastUsed time.Time
}

// NewForm returns an idle form. A non-positive timeout leaves submissions
// bounded only by the caller's context.
func NewForm(s submitter, timeout time.Duration) *Form {
	return &Form{
		submitter: s,
		timeout:   timeout,
		state:     StateIdle,
		lastUsed:  time.Now(),
	}
}

// SetOffer remembers the offer the shopper is looking at.
func (f *Form) SetOffer(o Offer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offer = &o
	f.lastUsed = time.Now()
}

// ClearOffer forgets the offer, so the next submission loads a fresh one.
func (f *Form) ClearOffer() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offer = nil
}

func (f *Form) Offer() (Offer, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.offer == nil {
		return Offer{}, false
	}
	return *f.offer, true
}

// Submit clears the banner and runs one submission. Validation errors,
// ErrSubmissionInFlight and ErrFormClosed are returned as errors; every
// other result is reflected in the snapshot.
func (f *Form) Submit(ctx context.Context, language string, offer Offer, values entity.FormValues) (Snapshot, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return Snapshot{}, ErrFormClosed
	}
	if f.inFlightLocked() {
		snap := f.snapshotLocked()
		f.mu.Unlock()
		return snap, ErrSubmissionInFlight
	}
	prevState := f.state
	f.errorKey = ""
	f.state = StateSubmitting
	f.lastUsed = time.Now()

	var cancel context.CancelFunc
	if f.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	f.cancel = cancel
	f.mu.Unlock()

	outcome, err := f.submitter.Submit(ctx, language, offer, values)
	cancel()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancel = nil

	if err != nil {
		if prevState == StateError {
			prevState = StateIdle
		}
		f.state = prevState
		return f.snapshotLocked(), err
	}
	f.applyLocked(outcome)
	if f.closed {
		return f.snapshotLocked(), ErrFormClosed
	}
	return f.snapshotLocked(), nil
}

func (f *Form) applyLocked(o entity.Outcome) {
	f.outcome = o
	switch o.Kind {
	case entity.OutcomeConfirmed:
		f.state = StateConfirmed
	case entity.OutcomeExternalRedirect:
		f.state = StateExternalRedirect
	case entity.OutcomeError:
		f.state = StateError
		f.errorKey = o.ErrorKey
	default:
		f.state = StateIdle
	}
}

// CardResult applies the card widget's completion. A nil error is a no-op,
// and so is any result arriving while a submission is in flight.
func (f *Form) CardResult(cardErr *CardError) Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUsed = time.Now()

	if f.closed || f.inFlightLocked() {
		return f.snapshotLocked()
	}
	if o, ok := CardResultOutcome(cardErr); ok {
		f.applyLocked(o)
	}
	return f.snapshotLocked()
}

// Dismiss hides the banner.
func (f *Form) Dismiss() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errorKey = ""
	if f.state == StateError {
		f.state = StateIdle
	}
	f.lastUsed = time.Now()
	return f.snapshotLocked()
}

// Close cancels an in-flight submission and rejects further ones.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	if f.cancel != nil {
		f.cancel()
	}
}

func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// inFlightLocked reports whether a submission holds the form. It does not
// look at the displayed state.
func (f *Form) inFlightLocked() bool {
	return f.cancel != nil
}

func (f *Form) snapshotLocked() Snapshot {
	return Snapshot{State: f.state, ErrorKey: f.errorKey, Outcome: f.outcome}
}

func (f *Form) idleSince() (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastUsed, !f.inFlightLocked()
}

func (f *Form) touch() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUsed = time.Now()
}
