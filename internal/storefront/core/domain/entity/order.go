package entity

// ActiveOrder is the shopper's in-progress order as seen on the payment step.
type ActiveOrder struct {
	ID           string
	Code         string
	State        OrderState
	Currency     string
	TotalWithTax int64
	Lines        []OrderLine
}

type OrderLine struct {
	ID               string
	ProductName      string
	VariantName      string
	Quantity         int
	LinePriceWithTax int64
}
