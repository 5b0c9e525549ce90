// Package catalog serves the product listing and product detail pages.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jcmexdev/storefront/internal/pkg/cache"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

const DefaultPageSize = 12

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("product variant not found")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// HomePage is the landing page: the first page of products plus the
// navigation collections.
type HomePage struct {
	Products    []entity.ProductTile
	Collections []entity.Collection
}

// ProductPage is a single product with its size selector and display price.
type ProductPage struct {
	Product     entity.Product
	Sizes       []entity.Size
	Price       string
	Currency    string
	Collections []entity.Collection
}

type Service struct {
	api      ports.CatalogAPI
	cache    cache.Cache
	ttl      time.Duration
	pageSize int
	logger   *slog.Logger
}

func NewService(api ports.CatalogAPI, c cache.Cache, ttl time.Duration, pageSize int, logger *slog.Logger) *Service {
	if c == nil {
		c = cache.Noop{ServiceName: "storefront"}
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, cache: c, ttl: ttl, pageSize: pageSize, logger: logger}
}

func (s *Service) Home(ctx context.Context, lang string) (HomePage, error) {
	key := s.cache.GenerateKey("home", lang)

	var page HomePage
	if s.cached(ctx, key, &page) {
		return page, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page.Products, err = s.api.Products(gctx, lang, s.pageSize)
		return err
	})
	g.Go(func() error {
		var err error
		page.Collections, err = s.api.Collections(gctx, lang)
		return err
	})
	if err := g.Wait(); err != nil {
		return HomePage{}, fmt.Errorf("load home page: %w", err)
	}

	s.store(ctx, key, page)
	return page, nil
}

func (s *Service) Product(ctx context.Context, lang, slug string) (ProductPage, error) {
	key := s.cache.GenerateKey("product", lang+":"+slug)

	var page ProductPage
	if s.cached(ctx, key, &page) {
		return page, nil
	}

	var product *entity.Product
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		product, err = s.api.Product(gctx, lang, slug)
		return err
	})
	g.Go(func() error {
		var err error
		page.Collections, err = s.api.Collections(gctx, lang)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ProductPage{}, fmt.Errorf("%w: %s", ErrProductNotFound, slug)
		}
		return ProductPage{}, fmt.Errorf("load product %s: %w", slug, err)
	}
	if product == nil {
		return ProductPage{}, fmt.Errorf("%w: %s", ErrProductNotFound, slug)
	}

	page.Product = *product
	page.Sizes = product.Sizes()
	if len(product.Variants) > 0 {
		v := product.Variants[0]
		page.Currency = v.Currency
		page.Price = FormatPrice(lang, v.PriceWithTax, v.Currency)
	}

	s.store(ctx, key, page)
	return page, nil
}

// AddToCart puts quantity items of a product variant into the session's
// active order. Shop-side refusals come back as *entity.CartError.
func (s *Service) AddToCart(ctx context.Context, lang, variantID string, quantity int) (*entity.ActiveOrder, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	order, err := s.api.AddItemToOrder(ctx, lang, variantID, quantity)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrVariantNotFound, variantID)
		}
		var cartErr *entity.CartError
		if errors.As(err, &cartErr) {
			s.logger.InfoContext(ctx, "add to cart refused", "variant_id", variantID, "error_code", cartErr.Code)
			return nil, err
		}
		return nil, fmt.Errorf("add variant %s to cart: %w", variantID, err)
	}
	s.logger.InfoContext(ctx, "added to cart", "variant_id", variantID, "quantity", quantity, "order_code", order.Code)
	return order, nil
}

// cached decodes the entry at key into dst. Cache failures count as misses.
func (s *Service) cached(ctx context.Context, key string, dst any) bool {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "catalog cache read failed", "key", key, "error", err)
		return false
	}
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.logger.WarnContext(ctx, "catalog cache entry corrupt", "key", key, "error", err)
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "catalog cache delete failed", "key", key, "error", err)
		}
		return false
	}
	return true
}

func (s *Service) store(ctx context.Context, key string, v any) {
	if s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.WarnContext(ctx, "catalog cache encode failed", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "catalog cache write failed", "key", key, "error", err)
	}
}

// FormatPrice renders an amount in minor units for display, e.g. 1250 USD
// in English as "$ 12.50". Unknown currency codes fall back to USD.
func FormatPrice(lang string, minor int64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.USD
	}
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)
	return p.Sprint(currency.Symbol(unit.Amount(float64(minor) / 100)))
}
