package entity

import "fmt"

// Error codes of the addItemToOrder result.
const (
	ErrorCodeOrderModification ErrorCode = "ORDER_MODIFICATION_ERROR"
	ErrorCodeOrderLimit        ErrorCode = "ORDER_LIMIT_ERROR"
	ErrorCodeNegativeQuantity  ErrorCode = "NEGATIVE_QUANTITY_ERROR"
	ErrorCodeInsufficientStock ErrorCode = "INSUFFICIENT_STOCK_ERROR"
)

// CartError is a shop-side refusal to change the active order.
type CartError struct {
	Code    ErrorCode
	Message string
}

func (e *CartError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
