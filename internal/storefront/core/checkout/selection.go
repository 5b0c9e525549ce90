// Package checkout implements the payment step of the checkout: which
// methods are offered, validation of the shopper's choice, the single
// addPaymentToOrder call per submission and the interpretation of its
// result into a navigation or an error banner.
package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

const BlikCodeLength = 6

var (
	ErrInvalidSelection  = errors.New("invalid payment selection")
	ErrMethodUnavailable = errors.New("payment method not offered")
	ErrInvalidBlikCode   = errors.New("blik code must be exactly 6 digits")
	ErrNoActiveOrder     = errors.New("no active order")
)

// ParseSelection accepts only the known form values.
func ParseSelection(raw string) (entity.Selection, error) {
	s := entity.Selection(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSelection, raw)
	}
	return s, nil
}

// NormalizeBlikCode is the input clamp of the BLIK field: non-digits are
// dropped and the result is cut to six characters.
func NormalizeBlikCode(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == BlikCodeLength {
			break
		}
	}
	return b.String()
}

func validBlikCode(code string) bool {
	if len(code) != BlikCodeLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Offer is what the payment step can show for the active order.
type Offer struct {
	OrderCode string
	Methods   []entity.PaymentMethodOption
	// Card is nil unless a public key is configured and an intent secret
	// was obtained.
	Card *CardSession
}

func (o Offer) method(code string) (entity.PaymentMethodOption, bool) {
	for _, m := range o.Methods {
		if m.Code == code {
			return m, true
		}
	}
	return entity.PaymentMethodOption{}, false
}

// DefaultMethod is the simulated method backing the dummy selections.
func (o Offer) DefaultMethod() (entity.PaymentMethodOption, bool) {
	return o.method(entity.MethodCodeStandard)
}

func (o Offer) Przelewy24Method() (entity.PaymentMethodOption, bool) {
	return o.method(entity.MethodCodePrzelewy24)
}

// Offers reports whether sel can be chosen on this offer.
func (o Offer) Offers(sel entity.Selection) bool {
	switch {
	case sel.IsPrzelewy24():
		_, ok := o.Przelewy24Method()
		return ok
	case sel == entity.SelectionStripe:
		return o.Card != nil
	case sel.IsDummy():
		_, ok := o.DefaultMethod()
		return ok
	}
	return false
}

// Selections lists the offered selections in display order.
func (o Offer) Selections() []entity.Selection {
	out := make([]entity.Selection, 0, len(entity.Selections))
	for _, s := range entity.Selections {
		if o.Offers(s) {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks values against the offer and returns them normalised:
// a BLIK code is kept only for the BLIK selection.
func Validate(offer Offer, values entity.FormValues) (entity.FormValues, error) {
	if !values.Payment.Valid() {
		return entity.FormValues{}, fmt.Errorf("%w: %q", ErrInvalidSelection, values.Payment)
	}
	if !offer.Offers(values.Payment) {
		return entity.FormValues{}, fmt.Errorf("%w: %s", ErrMethodUnavailable, values.Payment)
	}
	if values.Payment != entity.SelectionPrzelewy24Blik {
		values.BlikCode = ""
		return values, nil
	}
	if !validBlikCode(values.BlikCode) {
		return entity.FormValues{}, ErrInvalidBlikCode
	}
	return values, nil
}

// StandardMetadataFor encodes the simulated outcome of a dummy selection.
func StandardMetadataFor(sel entity.Selection) (entity.StandardMethodMetadata, bool) {
	switch sel {
	case entity.SelectionDummySuccess:
		return entity.StandardMethodMetadata{}, true
	case entity.SelectionDummyError:
		return entity.StandardMethodMetadata{ShouldError: true}, true
	case entity.SelectionDummyDecline:
		return entity.StandardMethodMetadata{ShouldDecline: true}, true
	}
	return entity.StandardMethodMetadata{}, false
}

// paymentInput builds the mutation input for a validated, non-card selection.
func paymentInput(offer Offer, values entity.FormValues) (entity.PaymentInput, error) {
	switch {
	case values.Payment.IsPrzelewy24():
		meta, err := json.Marshal(entity.Przelewy24Metadata{BlikCode: values.BlikCode})
		if err != nil {
			return entity.PaymentInput{}, err
		}
		return entity.PaymentInput{Method: entity.MethodCodePrzelewy24, Metadata: string(meta)}, nil

	case values.Payment.IsDummy():
		def, ok := offer.DefaultMethod()
		if !ok {
			return entity.PaymentInput{}, ErrMethodUnavailable
		}
		md, _ := StandardMetadataFor(values.Payment)
		meta, err := json.Marshal(md)
		if err != nil {
			return entity.PaymentInput{}, err
		}
		return entity.PaymentInput{Method: def.Code, Metadata: string(meta)}, nil
	}
	return entity.PaymentInput{}, fmt.Errorf("%w: %s has no mutation", ErrInvalidSelection, values.Payment)
}
