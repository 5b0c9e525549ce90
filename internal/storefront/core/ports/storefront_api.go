package ports

import (
	"context"
	"errors"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

// ErrNotFound is returned by lookups that match nothing.
var ErrNotFound = errors.New("not found")

// PaymentAPI is the slice of the Shop API used by the payment step.
type PaymentAPI interface {
	// AddPaymentToOrder returns the result union. A non-nil error means the
	// call itself failed (transport, malformed response); shop-side failures
	// come back as error variants of the union.
	AddPaymentToOrder(ctx context.Context, language string, input entity.PaymentInput) (entity.OrderPaymentResult, error)
	EligiblePaymentMethods(ctx context.Context, language string) ([]entity.PaymentMethodOption, error)
	// ActiveOrder returns (nil, nil) when the session has no active order.
	ActiveOrder(ctx context.Context, language string) (*entity.ActiveOrder, error)
	// CreateStripePaymentIntent returns the client secret of a new intent.
	CreateStripePaymentIntent(ctx context.Context, language string) (string, error)
}

// CatalogAPI is the slice of the Shop API used by the product pages.
type CatalogAPI interface {
	Products(ctx context.Context, language string, take int) ([]entity.ProductTile, error)
	// Product returns ErrNotFound for an unknown slug.
	Product(ctx context.Context, language, slug string) (*entity.Product, error)
	Collections(ctx context.Context, language string) ([]entity.Collection, error)
	// AddItemToOrder adds a variant to the session's active order, creating
	// the order if needed. Shop-side refusals are returned as *entity.CartError.
	AddItemToOrder(ctx context.Context, language, variantID string, quantity int) (*entity.ActiveOrder, error)
}

type StorefrontAPI interface {
	PaymentAPI
	CatalogAPI
}
