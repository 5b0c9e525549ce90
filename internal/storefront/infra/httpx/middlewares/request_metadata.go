package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors"
)

// AttachRequestMetadata copies the request id and the shopper's session
// token into the context so outbound Shop API calls can carry them.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := interceptors.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		if tok := interceptors.SessionTokenFromRequest(r); tok != "" {
			ctx = interceptors.WithSessionToken(ctx, tok)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
