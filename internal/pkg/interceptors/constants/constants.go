package constants

// contextKey is an unexported type for context keys in this package.
// Using a custom type prevents collisions with keys from other packages
// that might use the same underlying string value.
type contextKey string

const (
	HeaderXRequestId     = "x-request-id"
	HeaderAuthorization  = "Authorization"
	HeaderShopAuthToken  = "vendure-auth-token"
	HeaderShopChannel    = "vendure-token"
	HeaderCheckoutLocale = "x-checkout-locale"

	// ContextKeyRequestID is the context key for the request ID.
	ContextKeyRequestID contextKey = HeaderXRequestId
	// ContextKeySessionToken is the context key for the shopper's Shop API session token.
	ContextKeySessionToken contextKey = HeaderShopAuthToken
)
