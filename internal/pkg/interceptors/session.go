package interceptors

import (
	"context"
	"net/http"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors/constants"
)

// WithRequestID stores the inbound request id so outbound calls can carry it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.ContextKeyRequestID, id)
}

// WithSessionToken stores the shopper's Shop API session token.
func WithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, constants.ContextKeySessionToken, token)
}

func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

func SessionTokenFromContext(ctx context.Context) string {
	if tok, ok := ctx.Value(constants.ContextKeySessionToken).(string); ok {
		return tok
	}
	return ""
}

// SessionTokenFromRequest reads the shopper session from the vendure-auth-token
// header, falling back to a bearer Authorization header.
func SessionTokenFromRequest(r *http.Request) string {
	if tok := r.Header.Get(constants.HeaderShopAuthToken); tok != "" {
		return tok
	}
	const prefix = "Bearer "
	if auth := r.Header.Get(constants.HeaderAuthorization); len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}
