// Package shopapi talks GraphQL to the hosted Shop API.
package shopapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	graphql "github.com/hasura/go-graphql-client"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

// Ensure Client implements the port at compile time.
var _ ports.StorefrontAPI = (*Client)(nil)

type Config struct {
	URL          string
	ChannelToken string
	Timeout      time.Duration
	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// Client is the GraphQL implementation of ports.StorefrontAPI. Every call
// carries the shopper's session token from the context and the language
// as the languageCode query parameter.
type Client struct {
	gql *graphql.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("shop api url is required")
	}
	if _, err := url.ParseRequestURI(cfg.URL); err != nil {
		return nil, fmt.Errorf("shop api url: %w", err)
	}

	httpClient := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: otelhttp.NewTransport(interceptors.NewShopAPITransport(cfg.Transport, cfg.ChannelToken)),
	}
	gql := graphql.NewClient(cfg.URL, httpClient).WithRequestModifier(setLanguageCode)
	return &Client{gql: gql}, nil
}

type languageKey struct{}

func withLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, languageKey{}, lang)
}

func setLanguageCode(r *http.Request) {
	lang, _ := r.Context().Value(languageKey{}).(string)
	if lang == "" {
		return
	}
	q := r.URL.Query()
	q.Set("languageCode", lang)
	r.URL.RawQuery = q.Encode()
}

// exec runs one operation and decodes its data into dst.
func (c *Client) exec(ctx context.Context, lang, op, doc string, vars map[string]any, dst any) error {
	raw, err := c.gql.ExecRaw(withLanguage(ctx, lang), doc, vars)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) AddPaymentToOrder(ctx context.Context, lang string, input entity.PaymentInput) (entity.OrderPaymentResult, error) {
	var resp struct {
		AddPaymentToOrder *paymentResultDTO `json:"addPaymentToOrder"`
	}
	vars := map[string]any{
		"input": map[string]any{
			"method":   input.Method,
			"metadata": input.Metadata,
		},
	}
	if err := c.exec(ctx, lang, "addPaymentToOrder", addPaymentToOrderMutation, vars, &resp); err != nil {
		return nil, err
	}
	if resp.AddPaymentToOrder == nil {
		return nil, nil
	}
	return resp.AddPaymentToOrder.toResult()
}

func (c *Client) EligiblePaymentMethods(ctx context.Context, lang string) ([]entity.PaymentMethodOption, error) {
	var resp struct {
		EligiblePaymentMethods []paymentMethodDTO `json:"eligiblePaymentMethods"`
	}
	if err := c.exec(ctx, lang, "eligiblePaymentMethods", eligiblePaymentMethodsQuery, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]entity.PaymentMethodOption, 0, len(resp.EligiblePaymentMethods))
	for _, m := range resp.EligiblePaymentMethods {
		out = append(out, entity.PaymentMethodOption{
			ID:                 m.ID,
			Code:               m.Code,
			Name:               m.Name,
			Description:        m.Description,
			IsEligible:         m.IsEligible,
			EligibilityMessage: m.EligibilityMessage,
		})
	}
	return out, nil
}

func (c *Client) ActiveOrder(ctx context.Context, lang string) (*entity.ActiveOrder, error) {
	var resp struct {
		ActiveOrder *activeOrderDTO `json:"activeOrder"`
	}
	if err := c.exec(ctx, lang, "activeOrder", activeOrderQuery, nil, &resp); err != nil {
		return nil, err
	}
	if resp.ActiveOrder == nil {
		return nil, nil
	}
	return resp.ActiveOrder.toEntity(), nil
}

func (c *Client) AddItemToOrder(ctx context.Context, lang, variantID string, quantity int) (*entity.ActiveOrder, error) {
	var resp struct {
		AddItemToOrder *cartResultDTO `json:"addItemToOrder"`
	}
	vars := map[string]any{"variantId": variantID, "quantity": quantity}
	if err := c.exec(ctx, lang, "addItemToOrder", addItemToOrderMutation, vars, &resp); err != nil {
		return nil, err
	}
	if resp.AddItemToOrder == nil {
		return nil, fmt.Errorf("addItemToOrder: %w: null result", ErrUnexpectedResult)
	}
	return resp.AddItemToOrder.toResult()
}

func (c *Client) CreateStripePaymentIntent(ctx context.Context, lang string) (string, error) {
	var resp struct {
		CreateStripePaymentIntent string `json:"createStripePaymentIntent"`
	}
	if err := c.exec(ctx, lang, "createStripePaymentIntent", createStripePaymentIntentMutation, nil, &resp); err != nil {
		return "", err
	}
	if resp.CreateStripePaymentIntent == "" {
		return "", errors.New("createStripePaymentIntent: empty client secret")
	}
	return resp.CreateStripePaymentIntent, nil
}

func (c *Client) Products(ctx context.Context, lang string, take int) ([]entity.ProductTile, error) {
	var resp struct {
		Products struct {
			Items []productDTO `json:"items"`
		} `json:"products"`
	}
	vars := map[string]any{"take": take}
	if err := c.exec(ctx, lang, "products", productsQuery, vars, &resp); err != nil {
		return nil, err
	}
	out := make([]entity.ProductTile, 0, len(resp.Products.Items))
	for i := range resp.Products.Items {
		out = append(out, resp.Products.Items[i].toTile())
	}
	return out, nil
}

func (c *Client) Product(ctx context.Context, lang, slug string) (*entity.Product, error) {
	var resp struct {
		Product *productDTO `json:"product"`
	}
	vars := map[string]any{"slug": slug}
	if err := c.exec(ctx, lang, "product", productQuery, vars, &resp); err != nil {
		return nil, err
	}
	if resp.Product == nil {
		return nil, fmt.Errorf("product %q: %w", slug, ports.ErrNotFound)
	}
	return resp.Product.toEntity(), nil
}

func (c *Client) Collections(ctx context.Context, lang string) ([]entity.Collection, error) {
	var resp struct {
		Collections struct {
			Items []collectionDTO `json:"items"`
		} `json:"collections"`
	}
	if err := c.exec(ctx, lang, "collections", collectionsQuery, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]entity.Collection, 0, len(resp.Collections.Items))
	for _, col := range resp.Collections.Items {
		out = append(out, col.toEntity())
	}
	return out, nil
}
