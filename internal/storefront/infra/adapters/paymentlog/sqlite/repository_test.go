package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/storefront/internal/storefront/infra/adapters/paymentlog"
)

func openTemp(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "payments.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSaveAndLatest(t *testing.T) {
	t.Parallel()

	repo := openTemp(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := &ports.PaymentAttempt{
		ID:        "a1",
		OrderCode: "ORD-1",
		Selection: entity.SelectionDummyDecline,
		Method:    entity.MethodCodeStandard,
		Outcome:   entity.OutcomeError,
		ErrorCode: entity.ErrorCodePaymentDeclined,
		TraceID:   "4bf92f3577b34da6a3ce929d0e0e4736",
		SpanID:    "00f067aa0ba902b7",
		CreatedAt: base,
	}
	second := &ports.PaymentAttempt{
		ID:        "a2",
		OrderCode: "ORD-1",
		Selection: entity.SelectionDummySuccess,
		Method:    entity.MethodCodeStandard,
		Outcome:   entity.OutcomeConfirmed,
		CreatedAt: base.Add(time.Second),
	}
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Save(ctx, &ports.PaymentAttempt{ID: "b1", OrderCode: "ORD-2", Selection: entity.SelectionStripe, Outcome: entity.OutcomeCardDelegated, CreatedAt: base}))

	latest, err := repo.Latest(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, second, latest)

	all, err := repo.ListByOrder(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, []ports.PaymentAttempt{*first, *second}, all)

	_, err = repo.Latest(ctx, "ORD-404")
	assert.ErrorIs(t, err, paymentlog.ErrNotFound)

	none, err := repo.ListByOrder(ctx, "ORD-404")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSaveDuplicateID(t *testing.T) {
	t.Parallel()

	repo := openTemp(t)
	a := &ports.PaymentAttempt{ID: "dup", OrderCode: "ORD-1", Selection: entity.SelectionPrzelewy24, Outcome: entity.OutcomePending, CreatedAt: time.Now()}
	require.NoError(t, repo.Save(context.Background(), a))
	assert.Error(t, repo.Save(context.Background(), a), "rows are append-only")
}

func TestConcurrentSaves(t *testing.T) {
	t.Parallel()

	repo := openTemp(t)
	rec := paymentlog.NewRecorder(repo)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := rec.Save(context.Background(), &ports.PaymentAttempt{
				OrderCode: "ORD-C",
				Selection: entity.SelectionDummySuccess,
				Outcome:   entity.OutcomeConfirmed,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := rec.ListByOrder(context.Background(), "ORD-C")
	require.NoError(t, err)
	assert.Len(t, all, 20)
}
