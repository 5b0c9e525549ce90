// Package paymentlog keeps a durable audit trail of payment form
// submissions.
//
// Every row is one submission: which method was chosen, what the shop
// answered and the trace it happened in. Rows are never updated, so the
// log can be joined with shop orders by order code and with traces by
// trace_id.
package paymentlog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

var ErrNotFound = errors.New("payment attempt not found")

// Store persists attempts. Save appends; it never upserts.
type Store interface {
	Save(ctx context.Context, attempt *ports.PaymentAttempt) error
	Latest(ctx context.Context, orderCode string) (*ports.PaymentAttempt, error)
	ListByOrder(ctx context.Context, orderCode string) ([]ports.PaymentAttempt, error)
}

// Ensure Recorder implements the port at compile time.
var _ ports.PaymentLog = (*Recorder)(nil)

// Recorder stamps attempts with an id, the active trace and a timestamp
// before handing them to a Store.
type Recorder struct {
	store Store
	now   func() time.Time
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

func (r *Recorder) Save(ctx context.Context, attempt *ports.PaymentAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	if attempt.TraceID == "" {
		ti := ExtractTraceInfo(ctx)
		attempt.TraceID, attempt.SpanID = ti.TraceID, ti.SpanID
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = r.now().UTC()
	}
	return r.store.Save(ctx, attempt)
}

func (r *Recorder) Latest(ctx context.Context, orderCode string) (*ports.PaymentAttempt, error) {
	return r.store.Latest(ctx, orderCode)
}

func (r *Recorder) ListByOrder(ctx context.Context, orderCode string) ([]ports.PaymentAttempt, error) {
	return r.store.ListByOrder(ctx, orderCode)
}
