package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors/constants"
)

// RequireLocale answers 404 for a {locale} path segment that is not served.
func RequireLocale(supports func(string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := chi.URLParam(r, "locale")
			if !supports(locale) {
				http.NotFound(w, r)
				return
			}
			w.Header().Set(constants.HeaderCheckoutLocale, locale)
			next.ServeHTTP(w, r)
		})
	}
}
