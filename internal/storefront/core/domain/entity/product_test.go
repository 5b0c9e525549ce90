package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductSizes(t *testing.T) {
	t.Parallel()

	p := Product{
		Name: "Cotton Tee",
		Variants: []ProductVariant{
			{ID: "1", Name: "Cotton Tee S"},
			{ID: "2", Name: "Cotton Tee XL"},
			{ID: "3", Name: "Gift box"},
		},
	}

	assert.Equal(t, []Size{
		{VariantID: "1", Label: "S"},
		{VariantID: "2", Label: "XL"},
		{VariantID: "3", Label: "Gift box"},
	}, p.Sizes())
}

func TestSelectionClassification(t *testing.T) {
	t.Parallel()

	for _, s := range Selections {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Selection("paypal").Valid())

	assert.True(t, SelectionDummyDecline.IsDummy())
	assert.False(t, SelectionStripe.IsDummy())
	assert.True(t, SelectionPrzelewy24Blik.IsPrzelewy24())
	assert.False(t, SelectionDummySuccess.IsPrzelewy24())
}

func TestOutcomeKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "errors.backend.PAYMENT_DECLINED_ERROR", BackendError(ErrorCodePaymentDeclined).ErrorKey)
	assert.Equal(t, "errors.backend.UNKNOWN_ERROR", UnknownError().ErrorKey)
	assert.Equal(t, "errors.stripe.card_error", CardError("card_error").ErrorKey)
	assert.Equal(t, OutcomeError, CardError("card_error").Kind)
}
