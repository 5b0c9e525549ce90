package shopapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

type gqlRequest struct {
	Query     string          `json:"query"`
	Variables json.RawMessage `json:"variables"`
}

type seenRequest struct {
	body     gqlRequest
	language string
	auth     string
	channel  string
}

// newShopServer answers every request with data and records what it saw.
func newShopServer(t *testing.T, data string) (*Client, <-chan seenRequest) {
	t.Helper()

	seen := make(chan seenRequest, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body gqlRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		seen <- seenRequest{
			body:     body,
			language: r.URL.Query().Get("languageCode"),
			auth:     r.Header.Get("Authorization"),
			channel:  r.Header.Get("vendure-token"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":` + data + `}`))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{URL: srv.URL + "/shop-api", ChannelToken: "channel-1"})
	require.NoError(t, err)
	return c, seen
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{})
	assert.Error(t, err)
	_, err = NewClient(Config{URL: "not a url"})
	assert.Error(t, err)
}

func TestAddPaymentToOrderRequest(t *testing.T) {
	t.Parallel()

	c, seen := newShopServer(t, `{"addPaymentToOrder":{"__typename":"Order","code":"ABC","state":"PaymentSettled","payments":[]}}`)

	ctx := interceptors.WithSessionToken(context.Background(), "sess-1")
	res, err := c.AddPaymentToOrder(ctx, "pl", entity.PaymentInput{Method: "standard-payment", Metadata: `{"shouldDecline":true}`})
	require.NoError(t, err)
	assert.Equal(t, &entity.Order{Code: "ABC", State: entity.OrderStatePaymentSettled, Payments: []entity.Payment{}}, res)

	req := <-seen
	assert.Equal(t, "pl", req.language)
	assert.Equal(t, "Bearer sess-1", req.auth)
	assert.Equal(t, "channel-1", req.channel)
	assert.Contains(t, req.body.Query, "addPaymentToOrder(input: $input)")
	assert.JSONEq(t, `{"input":{"method":"standard-payment","metadata":"{\"shouldDecline\":true}"}}`, string(req.body.Variables))
}

func TestAddPaymentToOrderUnion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		want    entity.OrderPaymentResult
		wantErr error
	}{
		{
			name: "order_with_payment_url",
			data: `{"addPaymentToOrder":{"__typename":"Order","code":"ABC","state":"ArrangingPayment",
				"payments":[{"id":"1","method":"przelewy-24","state":"Authorized","metadata":{"public":{"paymentUrl":"https://p24/x"}}}]}}`,
			want: &entity.Order{Code: "ABC", State: entity.OrderStateArrangingPayment, Payments: []entity.Payment{{
				ID: "1", Method: "przelewy-24", State: "Authorized",
				Metadata: &entity.PaymentMetadata{Public: entity.PublicPaymentMetadata{PaymentURL: "https://p24/x"}},
			}}},
		},
		{
			name: "order_with_null_metadata",
			data: `{"addPaymentToOrder":{"__typename":"Order","code":"ABC","state":"ArrangingPayment","payments":[{"id":"1","metadata":null}]}}`,
			want: &entity.Order{Code: "ABC", State: entity.OrderStateArrangingPayment, Payments: []entity.Payment{{ID: "1"}}},
		},
		{
			name: "order_without_payments",
			data: `{"addPaymentToOrder":{"__typename":"Order","code":"ABC","state":"PaymentAuthorized"}}`,
			want: &entity.Order{Code: "ABC", State: entity.OrderStatePaymentAuthorized},
		},
		{
			name: "ineligible",
			data: `{"addPaymentToOrder":{"__typename":"IneligiblePaymentMethodError","errorCode":"INELIGIBLE_PAYMENT_METHOD_ERROR","message":"m","eligibilityCheckerMessage":"too expensive"}}`,
			want: &entity.IneligiblePaymentMethodError{
				ResultError:               entity.ResultError{ErrorCode: entity.ErrorCodeIneligiblePaymentMethod, ErrorMessage: "m"},
				EligibilityCheckerMessage: "too expensive",
			},
		},
		{
			name: "no_active_order",
			data: `{"addPaymentToOrder":{"__typename":"NoActiveOrderError","errorCode":"NO_ACTIVE_ORDER_ERROR","message":"m"}}`,
			want: &entity.NoActiveOrderError{ResultError: entity.ResultError{ErrorCode: entity.ErrorCodeNoActiveOrder, ErrorMessage: "m"}},
		},
		{
			name: "payment_state",
			data: `{"addPaymentToOrder":{"__typename":"OrderPaymentStateError","errorCode":"ORDER_PAYMENT_STATE_ERROR","message":"m"}}`,
			want: &entity.OrderPaymentStateError{ResultError: entity.ResultError{ErrorCode: entity.ErrorCodeOrderPaymentState, ErrorMessage: "m"}},
		},
		{
			name: "state_transition",
			data: `{"addPaymentToOrder":{"__typename":"OrderStateTransitionError","errorCode":"ORDER_STATE_TRANSITION_ERROR","message":"m","fromState":"AddingItems","toState":"PaymentSettled","transitionError":"no"}}`,
			want: &entity.OrderStateTransitionError{
				ResultError: entity.ResultError{ErrorCode: entity.ErrorCodeOrderStateTransition, ErrorMessage: "m"},
				FromState:   "AddingItems", ToState: "PaymentSettled", TransitionError: "no",
			},
		},
		{
			name: "declined",
			data: `{"addPaymentToOrder":{"__typename":"PaymentDeclinedError","errorCode":"PAYMENT_DECLINED_ERROR","message":"m","paymentErrorMessage":"p"}}`,
			want: &entity.PaymentDeclinedError{ResultError: entity.ResultError{ErrorCode: entity.ErrorCodePaymentDeclined, ErrorMessage: "m"}, PaymentErrorMessage: "p"},
		},
		{
			name: "failed",
			data: `{"addPaymentToOrder":{"__typename":"PaymentFailedError","errorCode":"PAYMENT_FAILED_ERROR","message":"m","paymentErrorMessage":"p"}}`,
			want: &entity.PaymentFailedError{ResultError: entity.ResultError{ErrorCode: entity.ErrorCodePaymentFailed, ErrorMessage: "m"}, PaymentErrorMessage: "p"},
		},
		{
			name: "null_result",
			data: `{"addPaymentToOrder":null}`,
			want: nil,
		},
		{
			name:    "unknown_member",
			data:    `{"addPaymentToOrder":{"__typename":"GuestCheckoutError"}}`,
			wantErr: ErrUnexpectedResult,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newShopServer(t, tt.data)
			res, err := c.AddPaymentToOrder(context.Background(), "en", entity.PaymentInput{Method: "x", Metadata: "{}"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, res)
		})
	}
}

func TestGraphQLErrorIsReturned(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errors":[{"message":"You are not currently authorized"}],"data":null}`))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{URL: srv.URL})
	require.NoError(t, err)

	_, err = c.AddPaymentToOrder(context.Background(), "en", entity.PaymentInput{Method: "x", Metadata: "{}"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "addPaymentToOrder"))
}

func TestActiveOrder(t *testing.T) {
	t.Parallel()

	c, _ := newShopServer(t, `{"activeOrder":{"id":"7","code":"ABC","state":"ArrangingPayment","currencyCode":"PLN","totalWithTax":12900,
		"lines":[{"id":"1","quantity":2,"linePriceWithTax":12900,"productVariant":{"name":"Tee M","product":{"name":"Tee"}}}]}}`)

	order, err := c.ActiveOrder(context.Background(), "en")
	require.NoError(t, err)
	assert.Equal(t, &entity.ActiveOrder{
		ID: "7", Code: "ABC", State: entity.OrderStateArrangingPayment, Currency: "PLN", TotalWithTax: 12900,
		Lines: []entity.OrderLine{{ID: "1", ProductName: "Tee", VariantName: "Tee M", Quantity: 2, LinePriceWithTax: 12900}},
	}, order)

	none, _ := newShopServer(t, `{"activeOrder":null}`)
	order, err = none.ActiveOrder(context.Background(), "en")
	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestEligiblePaymentMethodsAndIntent(t *testing.T) {
	t.Parallel()

	c, _ := newShopServer(t, `{"eligiblePaymentMethods":[{"id":"1","code":"przelewy-24","name":"P24","isEligible":true}]}`)
	methods, err := c.EligiblePaymentMethods(context.Background(), "en")
	require.NoError(t, err)
	assert.Equal(t, []entity.PaymentMethodOption{{ID: "1", Code: "przelewy-24", Name: "P24", IsEligible: true}}, methods)

	c, _ = newShopServer(t, `{"createStripePaymentIntent":"pi_1_secret_2"}`)
	secret, err := c.CreateStripePaymentIntent(context.Background(), "en")
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret_2", secret)

	c, _ = newShopServer(t, `{"createStripePaymentIntent":null}`)
	_, err = c.CreateStripePaymentIntent(context.Background(), "en")
	assert.Error(t, err)
}

func TestCatalogQueries(t *testing.T) {
	t.Parallel()

	c, seen := newShopServer(t, `{"products":{"items":[{"id":"1","slug":"tee","name":"Tee","featuredAsset":null,
		"variants":[{"priceWithTax":1500,"currencyCode":"USD"},{"priceWithTax":1200,"currencyCode":"USD"}]}]}}`)
	tiles, err := c.Products(context.Background(), "en", 12)
	require.NoError(t, err)
	assert.Equal(t, []entity.ProductTile{{ID: "1", Slug: "tee", Name: "Tee", PriceWithTax: 1200, Currency: "USD"}}, tiles)
	assert.JSONEq(t, `{"take":12}`, string((<-seen).body.Variables))

	c, _ = newShopServer(t, `{"product":null}`)
	_, err = c.Product(context.Background(), "en", "nope")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	c, _ = newShopServer(t, `{"collections":{"items":[{"id":"2","name":"Shirts","slug":"shirts","parent":{"id":"1"}}]}}`)
	cols, err := c.Collections(context.Background(), "en")
	require.NoError(t, err)
	assert.Equal(t, []entity.Collection{{ID: "2", Name: "Shirts", Slug: "shirts", ParentID: "1"}}, cols)
}

func TestAddItemToOrder(t *testing.T) {
	t.Parallel()

	c, seen := newShopServer(t, `{"addItemToOrder":{"__typename":"Order","id":"7","code":"ABC","state":"AddingItems","currencyCode":"PLN","totalWithTax":1200,
		"lines":[{"id":"1","quantity":1,"linePriceWithTax":1200,"productVariant":{"name":"Tee M","product":{"name":"Tee"}}}]}}`)

	order, err := c.AddItemToOrder(context.Background(), "en", "12", 1)
	require.NoError(t, err)
	assert.Equal(t, "ABC", order.Code)
	assert.Equal(t, entity.OrderStateAddingItems, order.State)
	require.Len(t, order.Lines, 1)
	assert.JSONEq(t, `{"variantId":"12","quantity":1}`, string((<-seen).body.Variables))

	c, _ = newShopServer(t, `{"addItemToOrder":{"__typename":"InsufficientStockError","errorCode":"INSUFFICIENT_STOCK_ERROR","message":"only 2 left"}}`)
	_, err = c.AddItemToOrder(context.Background(), "en", "12", 5)
	var cartErr *entity.CartError
	require.ErrorAs(t, err, &cartErr)
	assert.Equal(t, entity.ErrorCodeInsufficientStock, cartErr.Code)
	assert.Equal(t, "only 2 left", cartErr.Message)

	c, _ = newShopServer(t, `{"addItemToOrder":null}`)
	_, err = c.AddItemToOrder(context.Background(), "en", "12", 1)
	assert.ErrorIs(t, err, ErrUnexpectedResult)
}
