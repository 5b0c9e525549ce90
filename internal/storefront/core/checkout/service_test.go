package checkout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSubmitDummySendsOutcomeFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sel  entity.Selection
		want string
	}{
		{sel: entity.SelectionDummySuccess, want: `{"shouldDecline":false,"shouldError":false,"shouldErrorOnSettle":false}`},
		{sel: entity.SelectionDummyError, want: `{"shouldDecline":false,"shouldError":true,"shouldErrorOnSettle":false}`},
		{sel: entity.SelectionDummyDecline, want: `{"shouldDecline":true,"shouldError":false,"shouldErrorOnSettle":false}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.sel), func(t *testing.T) {
			t.Parallel()

			api := &stubAPI{result: &entity.Order{Code: "ORD-1", State: entity.OrderStatePaymentSettled}}
			svc := NewService(api, nil, CardConfig{}, quietLogger())

			out, err := svc.Submit(context.Background(), "en", fullOffer(), entity.FormValues{Payment: tt.sel})
			require.NoError(t, err)
			assert.Equal(t, entity.Confirmed("ORD-1"), out)

			calls := api.calls()
			require.Len(t, calls, 1)
			assert.Equal(t, entity.MethodCodeStandard, calls[0].Method)
			assert.JSONEq(t, tt.want, calls[0].Metadata)
		})
	}
}

func TestSubmitCardSendsNothing(t *testing.T) {
	t.Parallel()

	api := &stubAPI{}
	log := &memoryLog{}
	svc := NewService(api, log, CardConfig{PublicKey: "pk"}, quietLogger())

	out, err := svc.Submit(context.Background(), "en", fullOffer(), entity.FormValues{Payment: entity.SelectionStripe})
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeCardDelegated, out.Kind)
	assert.Empty(t, api.calls())
	require.Len(t, log.attempts, 1)
	assert.Equal(t, entity.OutcomeCardDelegated, log.attempts[0].Outcome)
}

func TestSubmitValidationBlocksMutation(t *testing.T) {
	t.Parallel()

	api := &stubAPI{}
	svc := NewService(api, nil, CardConfig{}, quietLogger())

	_, err := svc.Submit(context.Background(), "en", fullOffer(),
		entity.FormValues{Payment: entity.SelectionPrzelewy24Blik, BlikCode: "12345"})
	assert.ErrorIs(t, err, ErrInvalidBlikCode)
	assert.Empty(t, api.calls())
}

func TestSubmitTransportFailureIsUnknownError(t *testing.T) {
	t.Parallel()

	api := &stubAPI{err: errors.New("connection reset")}
	log := &memoryLog{}
	svc := NewService(api, log, CardConfig{}, quietLogger())

	for _, sel := range []entity.Selection{entity.SelectionPrzelewy24, entity.SelectionDummySuccess} {
		out, err := svc.Submit(context.Background(), "en", fullOffer(), entity.FormValues{Payment: sel})
		require.NoError(t, err)
		assert.Equal(t, entity.UnknownError(), out, sel)
	}
	assert.Len(t, api.calls(), 2)
	require.Len(t, log.attempts, 2)
	assert.Equal(t, entity.ErrorCodeUnknown, log.attempts[0].ErrorCode)
	assert.Equal(t, "ORD-1", log.attempts[0].OrderCode)
}

func TestSubmitPrzelewy24(t *testing.T) {
	t.Parallel()

	api := &stubAPI{result: &entity.Order{
		Code:     "ORD-1",
		State:    entity.OrderStatePaymentAuthorized,
		Payments: withURL("https://p24.example/pay"),
	}}
	svc := NewService(api, nil, CardConfig{}, quietLogger())

	out, err := svc.Submit(context.Background(), "pl", fullOffer(),
		entity.FormValues{Payment: entity.SelectionPrzelewy24Blik, BlikCode: "654321"})
	require.NoError(t, err)
	assert.Equal(t, entity.Confirmed("ORD-1"), out)

	out, err = svc.Submit(context.Background(), "pl", fullOffer(),
		entity.FormValues{Payment: entity.SelectionPrzelewy24, BlikCode: "654321"})
	require.NoError(t, err)
	assert.Equal(t, entity.ExternalRedirect("https://p24.example/pay"), out)

	calls := api.calls()
	require.Len(t, calls, 2)
	assert.JSONEq(t, `{"blikCode":"654321"}`, calls[0].Metadata)
	assert.JSONEq(t, `{}`, calls[1].Metadata)
}

func TestSubmitBackendError(t *testing.T) {
	t.Parallel()

	api := &stubAPI{result: declined()}
	svc := NewService(api, nil, CardConfig{}, quietLogger())

	out, err := svc.Submit(context.Background(), "en", fullOffer(), entity.FormValues{Payment: entity.SelectionDummyDecline})
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeError, out.Kind)
	assert.Equal(t, "errors.backend.PAYMENT_DECLINED_ERROR", out.ErrorKey)
}

func TestLoadOffer(t *testing.T) {
	t.Parallel()

	methods := fullOffer().Methods

	t.Run("with_card", func(t *testing.T) {
		t.Parallel()

		api := &stubAPI{order: &entity.ActiveOrder{Code: "ORD-9"}, methods: methods, secret: "pi_secret"}
		svc := NewService(api, nil, CardConfig{PublicKey: "pk_test"}, quietLogger())

		offer, err := svc.LoadOffer(context.Background(), "en")
		require.NoError(t, err)
		assert.Equal(t, "ORD-9", offer.OrderCode)
		assert.Equal(t, &CardSession{PublicKey: "pk_test", ClientSecret: "pi_secret"}, offer.Card)
		assert.Equal(t, entity.Selections, offer.Selections())
	})

	t.Run("no_public_key", func(t *testing.T) {
		t.Parallel()

		api := &stubAPI{order: &entity.ActiveOrder{Code: "ORD-9"}, methods: methods, secret: "pi_secret"}
		svc := NewService(api, nil, CardConfig{}, quietLogger())

		offer, err := svc.LoadOffer(context.Background(), "en")
		require.NoError(t, err)
		assert.Nil(t, offer.Card)
		assert.NotContains(t, offer.Selections(), entity.SelectionStripe)
	})

	t.Run("intent_failure_drops_card", func(t *testing.T) {
		t.Parallel()

		api := &stubAPI{order: &entity.ActiveOrder{Code: "ORD-9"}, methods: methods}
		svc := NewService(api, nil, CardConfig{PublicKey: "pk_test"}, quietLogger())

		offer, err := svc.LoadOffer(context.Background(), "en")
		require.NoError(t, err)
		assert.Nil(t, offer.Card)
	})

	t.Run("no_active_order", func(t *testing.T) {
		t.Parallel()

		svc := NewService(&stubAPI{methods: methods}, nil, CardConfig{}, quietLogger())
		_, err := svc.LoadOffer(context.Background(), "en")
		assert.ErrorIs(t, err, ErrNoActiveOrder)
	})
}
