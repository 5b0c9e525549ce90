package shopapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

// Ensure FakeShop implements the port at compile time.
var _ ports.StorefrontAPI = (*FakeShop)(nil)

// FakeShop is an in-memory ports.StorefrontAPI intended for local
// development and tests only. Every session gets one active order; a
// settled or authorized payment closes it.
type FakeShop struct {
	// PaymentURLBase prefixes the redirect URL handed out for bank transfers.
	PaymentURLBase string

	mu       sync.Mutex
	orders   map[string]*entity.ActiveOrder
	products []entity.Product
}

func NewFakeShop() *FakeShop {
	return &FakeShop{
		PaymentURLBase: "https://sandbox.przelewy24.pl/trnRequest/",
		orders:         make(map[string]*entity.ActiveOrder),
		products:       fakeProducts(),
	}
}

func sessionKey(ctx context.Context) string {
	if tok := interceptors.SessionTokenFromContext(ctx); tok != "" {
		return tok
	}
	return "anonymous"
}

// activeOrderLocked returns the session's open order, creating one for a
// session that never had one.
func (f *FakeShop) activeOrderLocked(ctx context.Context) *entity.ActiveOrder {
	key := sessionKey(ctx)
	order, ok := f.orders[key]
	if !ok {
		order = &entity.ActiveOrder{
			ID:           uuid.NewString(),
			Code:         strings.ToUpper(uuid.NewString()[:8]),
			State:        entity.OrderStateArrangingPayment,
			Currency:     "PLN",
			TotalWithTax: 12900,
			Lines: []entity.OrderLine{
				{ID: "1", ProductName: "Tee", VariantName: "Tee M", Quantity: 1, LinePriceWithTax: 12900},
			},
		}
		f.orders[key] = order
	}
	return order
}

func (f *FakeShop) AddPaymentToOrder(ctx context.Context, _ string, input entity.PaymentInput) (entity.OrderPaymentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	order := f.activeOrderLocked(ctx)
	if order.State != entity.OrderStateArrangingPayment {
		return &entity.NoActiveOrderError{ResultError: entity.ResultError{
			ErrorCode:    entity.ErrorCodeNoActiveOrder,
			ErrorMessage: "There is no active Order for this session",
		}}, nil
	}

	switch input.Method {
	case entity.MethodCodeStandard:
		var md entity.StandardMethodMetadata
		if err := json.Unmarshal([]byte(input.Metadata), &md); err != nil {
			return nil, fmt.Errorf("fake shop: metadata: %w", err)
		}
		switch {
		case md.ShouldDecline:
			return &entity.PaymentDeclinedError{
				ResultError:         entity.ResultError{ErrorCode: entity.ErrorCodePaymentDeclined, ErrorMessage: "The payment was declined"},
				PaymentErrorMessage: "Simulated decline",
			}, nil
		case md.ShouldError:
			return &entity.PaymentFailedError{
				ResultError:         entity.ResultError{ErrorCode: entity.ErrorCodePaymentFailed, ErrorMessage: "The payment failed"},
				PaymentErrorMessage: "Simulated error",
			}, nil
		}
		order.State = entity.OrderStatePaymentSettled
		return &entity.Order{
			Code:     order.Code,
			State:    order.State,
			Payments: []entity.Payment{{ID: uuid.NewString(), Method: input.Method, State: "Settled"}},
		}, nil

	case entity.MethodCodePrzelewy24:
		var md entity.Przelewy24Metadata
		if err := json.Unmarshal([]byte(input.Metadata), &md); err != nil {
			return nil, fmt.Errorf("fake shop: metadata: %w", err)
		}
		payment := entity.Payment{
			ID:       uuid.NewString(),
			Method:   input.Method,
			State:    "Authorized",
			Metadata: &entity.PaymentMetadata{Public: entity.PublicPaymentMetadata{PaymentURL: f.PaymentURLBase + uuid.NewString()}},
		}
		if md.BlikCode != "" {
			order.State = entity.OrderStatePaymentAuthorized
		}
		return &entity.Order{Code: order.Code, State: order.State, Payments: []entity.Payment{payment}}, nil
	}

	return &entity.IneligiblePaymentMethodError{
		ResultError:               entity.ResultError{ErrorCode: entity.ErrorCodeIneligiblePaymentMethod, ErrorMessage: "This Order is not eligible for the selected Payment method"},
		EligibilityCheckerMessage: fmt.Sprintf("unknown payment method %q", input.Method),
	}, nil
}

func (f *FakeShop) EligiblePaymentMethods(context.Context, string) ([]entity.PaymentMethodOption, error) {
	return []entity.PaymentMethodOption{
		{ID: "1", Code: entity.MethodCodeStandard, Name: "Standard payment", IsEligible: true},
		{ID: "2", Code: entity.MethodCodePrzelewy24, Name: "Przelewy24", IsEligible: true},
		{ID: "3", Code: entity.MethodCodeStripe, Name: "Stripe", IsEligible: true},
	}, nil
}

func (f *FakeShop) ActiveOrder(ctx context.Context, _ string) (*entity.ActiveOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order := f.activeOrderLocked(ctx)
	if order.State != entity.OrderStateArrangingPayment {
		return nil, nil
	}
	cp := *order
	cp.Lines = append([]entity.OrderLine(nil), order.Lines...)
	return &cp, nil
}

func (f *FakeShop) AddItemToOrder(ctx context.Context, _ string, variantID string, quantity int) (*entity.ActiveOrder, error) {
	if quantity <= 0 {
		return nil, &entity.CartError{Code: entity.ErrorCodeNegativeQuantity, Message: "The quantity for an OrderItem cannot be negative"}
	}
	variant, product, ok := f.variant(variantID)
	if !ok {
		return nil, fmt.Errorf("variant %q: %w", variantID, ports.ErrNotFound)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	order := f.activeOrderLocked(ctx)
	if order.State != entity.OrderStateArrangingPayment && order.State != entity.OrderStateAddingItems {
		return nil, &entity.CartError{Code: entity.ErrorCodeOrderModification, Message: "Order contents may only be modified when in the \"AddingItems\" state"}
	}

	price := variant.PriceWithTax * int64(quantity)
	merged := false
	for i := range order.Lines {
		if order.Lines[i].VariantName == variant.Name {
			order.Lines[i].Quantity += quantity
			order.Lines[i].LinePriceWithTax += price
			merged = true
			break
		}
	}
	if !merged {
		order.Lines = append(order.Lines, entity.OrderLine{
			ID:               uuid.NewString(),
			ProductName:      product.Name,
			VariantName:      variant.Name,
			Quantity:         quantity,
			LinePriceWithTax: price,
		})
	}
	order.TotalWithTax += price

	cp := *order
	cp.Lines = append([]entity.OrderLine(nil), order.Lines...)
	return &cp, nil
}

func (f *FakeShop) variant(id string) (entity.ProductVariant, entity.Product, bool) {
	for _, p := range f.products {
		for _, v := range p.Variants {
			if v.ID == id {
				return v, p, true
			}
		}
	}
	return entity.ProductVariant{}, entity.Product{}, false
}

func (f *FakeShop) CreateStripePaymentIntent(context.Context, string) (string, error) {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "pi_" + id + "_secret_fake", nil
}

func (f *FakeShop) Products(_ context.Context, _ string, take int) ([]entity.ProductTile, error) {
	out := make([]entity.ProductTile, 0, len(f.products))
	for _, p := range f.products {
		if take > 0 && len(out) == take {
			break
		}
		tile := entity.ProductTile{ID: p.ID, Slug: p.Slug, Name: p.Name, FeaturedAsset: p.FeaturedAsset}
		if len(p.Variants) > 0 {
			tile.PriceWithTax = p.Variants[0].PriceWithTax
			tile.Currency = p.Variants[0].Currency
		}
		out = append(out, tile)
	}
	return out, nil
}

func (f *FakeShop) Product(_ context.Context, _, slug string) (*entity.Product, error) {
	for _, p := range f.products {
		if p.Slug == slug {
			cp := p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("product %q: %w", slug, ports.ErrNotFound)
}

func (f *FakeShop) Collections(context.Context, string) ([]entity.Collection, error) {
	return []entity.Collection{
		{ID: "1", Name: "Clothing", Slug: "clothing"},
		{ID: "2", Name: "Electronics", Slug: "electronics"},
	}, nil
}

func fakeProducts() []entity.Product {
	asset := &entity.Asset{ID: "a1", Preview: "/assets/tee__preview.jpg", Source: "/assets/tee.jpg"}
	return []entity.Product{
		{
			ID:            "1",
			Slug:          "tee",
			Name:          "Tee",
			Description:   "Cotton t-shirt.",
			FeaturedAsset: asset,
			Assets:        []entity.Asset{*asset},
			Variants: []entity.ProductVariant{
				{ID: "11", Name: "Tee S", SKU: "TEE-S", PriceWithTax: 12900, Currency: "PLN"},
				{ID: "12", Name: "Tee M", SKU: "TEE-M", PriceWithTax: 12900, Currency: "PLN"},
				{ID: "13", Name: "Tee L", SKU: "TEE-L", PriceWithTax: 12900, Currency: "PLN"},
			},
		},
		{
			ID:          "2",
			Slug:        "headphones",
			Name:        "Headphones",
			Description: "Over-ear headphones.",
			Variants: []entity.ProductVariant{
				{ID: "21", Name: "Headphones", SKU: "HP-1", PriceWithTax: 49900, Currency: "PLN"},
			},
		},
	}
}
