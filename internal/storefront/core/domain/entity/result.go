package entity

// OrderState is the shop's order state machine value.
type OrderState string

const (
	OrderStateAddingItems       OrderState = "AddingItems"
	OrderStateArrangingPayment  OrderState = "ArrangingPayment"
	OrderStatePaymentAuthorized OrderState = "PaymentAuthorized"
	OrderStatePaymentSettled    OrderState = "PaymentSettled"
)

// ErrorCode is the machine readable code of a shop error result.
type ErrorCode string

const (
	ErrorCodeIneligiblePaymentMethod ErrorCode = "INELIGIBLE_PAYMENT_METHOD_ERROR"
	ErrorCodeNoActiveOrder           ErrorCode = "NO_ACTIVE_ORDER_ERROR"
	ErrorCodeOrderPaymentState       ErrorCode = "ORDER_PAYMENT_STATE_ERROR"
	ErrorCodeOrderStateTransition    ErrorCode = "ORDER_STATE_TRANSITION_ERROR"
	ErrorCodePaymentDeclined         ErrorCode = "PAYMENT_DECLINED_ERROR"
	ErrorCodePaymentFailed           ErrorCode = "PAYMENT_FAILED_ERROR"
	ErrorCodeUnknown                 ErrorCode = "UNKNOWN_ERROR"
)

// OrderPaymentResult is the addPaymentToOrder result union. The set of
// implementations is closed: only types in this package satisfy it.
type OrderPaymentResult interface {
	isOrderPaymentResult()
}

// PaymentError is implemented by every error variant of OrderPaymentResult.
type PaymentError interface {
	OrderPaymentResult
	Code() ErrorCode
	Message() string
}

// Order is the success variant.
type Order struct {
	Code     string
	State    OrderState
	Payments []Payment
}

type Payment struct {
	ID       string
	Method   string
	State    string
	Metadata *PaymentMetadata
}

// PaymentMetadata is the part of the handler metadata exposed to the shopper.
type PaymentMetadata struct {
	Public PublicPaymentMetadata `json:"public"`
}

type PublicPaymentMetadata struct {
	PaymentURL string `json:"paymentUrl,omitempty"`
}

type ResultError struct {
	ErrorCode    ErrorCode
	ErrorMessage string
}

func (e ResultError) Code() ErrorCode { return e.ErrorCode }
func (e ResultError) Message() string { return e.ErrorMessage }

type IneligiblePaymentMethodError struct {
	ResultError
	EligibilityCheckerMessage string
}

type NoActiveOrderError struct {
	ResultError
}

type OrderPaymentStateError struct {
	ResultError
}

type OrderStateTransitionError struct {
	ResultError
	FromState       string
	ToState         string
	TransitionError string
}

type PaymentDeclinedError struct {
	ResultError
	PaymentErrorMessage string
}

type PaymentFailedError struct {
	ResultError
	PaymentErrorMessage string
}

func (*Order) isOrderPaymentResult()                        {}
func (*IneligiblePaymentMethodError) isOrderPaymentResult() {}
func (*NoActiveOrderError) isOrderPaymentResult()           {}
func (*OrderPaymentStateError) isOrderPaymentResult()       {}
func (*OrderStateTransitionError) isOrderPaymentResult()    {}
func (*PaymentDeclinedError) isOrderPaymentResult()         {}
func (*PaymentFailedError) isOrderPaymentResult()           {}

var (
	_ PaymentError = (*IneligiblePaymentMethodError)(nil)
	_ PaymentError = (*NoActiveOrderError)(nil)
	_ PaymentError = (*OrderPaymentStateError)(nil)
	_ PaymentError = (*OrderStateTransitionError)(nil)
	_ PaymentError = (*PaymentDeclinedError)(nil)
	_ PaymentError = (*PaymentFailedError)(nil)
)
