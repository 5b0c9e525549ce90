package paymentlog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

type memStore struct {
	saved []ports.PaymentAttempt
}

func (m *memStore) Save(_ context.Context, a *ports.PaymentAttempt) error {
	m.saved = append(m.saved, *a)
	return nil
}

func (m *memStore) Latest(context.Context, string) (*ports.PaymentAttempt, error) {
	if len(m.saved) == 0 {
		return nil, ErrNotFound
	}
	a := m.saved[len(m.saved)-1]
	return &a, nil
}

func (m *memStore) ListByOrder(context.Context, string) ([]ports.PaymentAttempt, error) {
	return m.saved, nil
}

func TestRecorderStampsAttempt(t *testing.T) {
	t.Parallel()

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "submit")
	defer span.End()

	store := &memStore{}
	rec := NewRecorder(store)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rec.now = func() time.Time { return fixed }

	require.NoError(t, rec.Save(ctx, &ports.PaymentAttempt{OrderCode: "ORD-1"}))
	require.Len(t, store.saved, 1)

	got := store.saved[0]
	assert.Len(t, got.ID, 36)
	assert.Equal(t, span.SpanContext().TraceID().String(), got.TraceID)
	assert.Equal(t, span.SpanContext().SpanID().String(), got.SpanID)
	assert.Equal(t, fixed, got.CreatedAt)
}

func TestRecorderKeepsProvidedFields(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	rec := NewRecorder(store)
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, rec.Save(context.Background(), &ports.PaymentAttempt{ID: "fixed", OrderCode: "ORD-1", CreatedAt: at}))
	latest, err := rec.Latest(context.Background(), "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "fixed", latest.ID)
	assert.Equal(t, at, latest.CreatedAt)
	assert.Empty(t, latest.TraceID, "no span in context")
}
