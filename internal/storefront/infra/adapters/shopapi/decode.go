package shopapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

// ErrUnexpectedResult is returned for a result union member this client
// does not know.
var ErrUnexpectedResult = errors.New("unexpected result type")

type paymentResultDTO struct {
	Typename string       `json:"__typename"`
	Code     string       `json:"code"`
	State    string       `json:"state"`
	Payments []paymentDTO `json:"payments"`
	errorFields
}

// errorFields are shared by every ErrorResult member of the union.
type errorFields struct {
	ErrorCode                 string `json:"errorCode"`
	Message                   string `json:"message"`
	EligibilityCheckerMessage string `json:"eligibilityCheckerMessage"`
	FromState                 string `json:"fromState"`
	ToState                   string `json:"toState"`
	TransitionError           string `json:"transitionError"`
	PaymentErrorMessage       string `json:"paymentErrorMessage"`
}

type paymentDTO struct {
	ID       string          `json:"id"`
	Method   string          `json:"method"`
	State    string          `json:"state"`
	Metadata json.RawMessage `json:"metadata"`
}

// toResult maps the wire union onto the domain union by __typename.
func (d *paymentResultDTO) toResult() (entity.OrderPaymentResult, error) {
	base := entity.ResultError{ErrorCode: entity.ErrorCode(d.ErrorCode), ErrorMessage: d.Message}

	switch d.Typename {
	case "Order":
		order := &entity.Order{Code: d.Code, State: entity.OrderState(d.State)}
		if d.Payments != nil {
			order.Payments = make([]entity.Payment, 0, len(d.Payments))
		}
		for _, p := range d.Payments {
			order.Payments = append(order.Payments, entity.Payment{
				ID:       p.ID,
				Method:   p.Method,
				State:    p.State,
				Metadata: decodeMetadata(p.Metadata),
			})
		}
		return order, nil
	case "IneligiblePaymentMethodError":
		return &entity.IneligiblePaymentMethodError{ResultError: base, EligibilityCheckerMessage: d.EligibilityCheckerMessage}, nil
	case "NoActiveOrderError":
		return &entity.NoActiveOrderError{ResultError: base}, nil
	case "OrderPaymentStateError":
		return &entity.OrderPaymentStateError{ResultError: base}, nil
	case "OrderStateTransitionError":
		return &entity.OrderStateTransitionError{
			ResultError:     base,
			FromState:       d.FromState,
			ToState:         d.ToState,
			TransitionError: d.TransitionError,
		}, nil
	case "PaymentDeclinedError":
		return &entity.PaymentDeclinedError{ResultError: base, PaymentErrorMessage: d.PaymentErrorMessage}, nil
	case "PaymentFailedError":
		return &entity.PaymentFailedError{ResultError: base, PaymentErrorMessage: d.PaymentErrorMessage}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnexpectedResult, d.Typename)
}

// decodeMetadata returns nil for absent or unreadable metadata.
func decodeMetadata(raw json.RawMessage) *entity.PaymentMetadata {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var md entity.PaymentMetadata
	if err := json.Unmarshal(raw, &md); err != nil {
		return nil
	}
	return &md
}

type paymentMethodDTO struct {
	ID                 string `json:"id"`
	Code               string `json:"code"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	IsEligible         bool   `json:"isEligible"`
	EligibilityMessage string `json:"eligibilityMessage"`
}

// cartResultDTO is the UpdateOrderItemsResult union.
type cartResultDTO struct {
	Typename string `json:"__typename"`
	activeOrderDTO
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

func (d *cartResultDTO) toResult() (*entity.ActiveOrder, error) {
	if d.Typename == "Order" {
		return d.activeOrderDTO.toEntity(), nil
	}
	if d.ErrorCode == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnexpectedResult, d.Typename)
	}
	return nil, &entity.CartError{Code: entity.ErrorCode(d.ErrorCode), Message: d.Message}
}

type activeOrderDTO struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	State        string `json:"state"`
	CurrencyCode string `json:"currencyCode"`
	TotalWithTax int64  `json:"totalWithTax"`
	Lines        []struct {
		ID               string `json:"id"`
		Quantity         int    `json:"quantity"`
		LinePriceWithTax int64  `json:"linePriceWithTax"`
		ProductVariant   struct {
			Name    string `json:"name"`
			Product struct {
				Name string `json:"name"`
			} `json:"product"`
		} `json:"productVariant"`
	} `json:"lines"`
}

func (d *activeOrderDTO) toEntity() *entity.ActiveOrder {
	order := &entity.ActiveOrder{
		ID:           d.ID,
		Code:         d.Code,
		State:        entity.OrderState(d.State),
		Currency:     d.CurrencyCode,
		TotalWithTax: d.TotalWithTax,
	}
	for _, l := range d.Lines {
		order.Lines = append(order.Lines, entity.OrderLine{
			ID:               l.ID,
			ProductName:      l.ProductVariant.Product.Name,
			VariantName:      l.ProductVariant.Name,
			Quantity:         l.Quantity,
			LinePriceWithTax: l.LinePriceWithTax,
		})
	}
	return order
}

type assetDTO struct {
	ID      string `json:"id"`
	Preview string `json:"preview"`
	Source  string `json:"source"`
}

func (a *assetDTO) toEntity() *entity.Asset {
	if a == nil {
		return nil
	}
	return &entity.Asset{ID: a.ID, Preview: a.Preview, Source: a.Source}
}

type variantDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	PriceWithTax int64  `json:"priceWithTax"`
	CurrencyCode string `json:"currencyCode"`
}

type productDTO struct {
	ID            string       `json:"id"`
	Slug          string       `json:"slug"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	FeaturedAsset *assetDTO    `json:"featuredAsset"`
	Assets        []assetDTO   `json:"assets"`
	Variants      []variantDTO `json:"variants"`
}

// toTile uses the cheapest variant as the listing price.
func (d *productDTO) toTile() entity.ProductTile {
	tile := entity.ProductTile{
		ID:            d.ID,
		Slug:          d.Slug,
		Name:          d.Name,
		FeaturedAsset: d.FeaturedAsset.toEntity(),
	}
	for i, v := range d.Variants {
		if i == 0 || v.PriceWithTax < tile.PriceWithTax {
			tile.PriceWithTax = v.PriceWithTax
			tile.Currency = v.CurrencyCode
		}
	}
	return tile
}

func (d *productDTO) toEntity() *entity.Product {
	p := &entity.Product{
		ID:            d.ID,
		Slug:          d.Slug,
		Name:          d.Name,
		Description:   d.Description,
		FeaturedAsset: d.FeaturedAsset.toEntity(),
	}
	for _, a := range d.Assets {
		p.Assets = append(p.Assets, entity.Asset{ID: a.ID, Preview: a.Preview, Source: a.Source})
	}
	for _, v := range d.Variants {
		p.Variants = append(p.Variants, entity.ProductVariant{
			ID:           v.ID,
			Name:         v.Name,
			SKU:          v.SKU,
			PriceWithTax: v.PriceWithTax,
			Currency:     v.CurrencyCode,
		})
	}
	return p
}

type collectionDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Parent *struct {
		ID string `json:"id"`
	} `json:"parent"`
}

func (d collectionDTO) toEntity() entity.Collection {
	c := entity.Collection{ID: d.ID, Name: d.Name, Slug: d.Slug}
	if d.Parent != nil {
		c.ParentID = d.Parent.ID
	}
	return c
}
