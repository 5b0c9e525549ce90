package entity

// Payment method codes configured in the shop.
const (
	MethodCodeStandard   = "standard-payment"
	MethodCodePrzelewy24 = "przelewy-24"
	MethodCodeStripe     = "stripe"
)

// PaymentMethodOption is a payment method the shop offers for the active order.
type PaymentMethodOption struct {
	ID                 string
	Code               string
	Name               string
	Description        string
	IsEligible         bool
	EligibilityMessage string
}

// Selection is the payment choice made on the checkout form.
type Selection string

const (
	SelectionPrzelewy24     Selection = "przelewy24"
	SelectionPrzelewy24Blik Selection = "przelewy24-blik"
	SelectionStripe         Selection = "stripe"
	SelectionDummySuccess   Selection = "dummy-method-success"
	SelectionDummyError     Selection = "dummy-method-error"
	SelectionDummyDecline   Selection = "dummy-method-decline"
)

// Selections lists every valid selection in display order.
var Selections = []Selection{
	SelectionPrzelewy24,
	SelectionPrzelewy24Blik,
	SelectionStripe,
	SelectionDummySuccess,
	SelectionDummyError,
	SelectionDummyDecline,
}

func (s Selection) Valid() bool {
	switch s {
	case SelectionPrzelewy24, SelectionPrzelewy24Blik, SelectionStripe,
		SelectionDummySuccess, SelectionDummyError, SelectionDummyDecline:
		return true
	}
	return false
}

func (s Selection) IsDummy() bool {
	return s == SelectionDummySuccess || s == SelectionDummyError || s == SelectionDummyDecline
}

func (s Selection) IsPrzelewy24() bool {
	return s == SelectionPrzelewy24 || s == SelectionPrzelewy24Blik
}

// FormValues is one submission of the payment form.
type FormValues struct {
	Payment  Selection
	BlikCode string
}

// StandardMethodMetadata forces an outcome from the simulated payment
// handler. All three keys are always sent.
type StandardMethodMetadata struct {
	ShouldDecline       bool `json:"shouldDecline"`
	ShouldError         bool `json:"shouldError"`
	ShouldErrorOnSettle bool `json:"shouldErrorOnSettle"`
}

// Przelewy24Metadata is empty for the redirect flow and carries the code
// for BLIK.
type Przelewy24Metadata struct {
	BlikCode string `json:"blikCode,omitempty"`
}

// PaymentInput is the addPaymentToOrder mutation input. Metadata is sent
// as a JSON-encoded string.
type PaymentInput struct {
	Method   string
	Metadata string
}
