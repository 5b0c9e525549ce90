package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/storefront/internal/storefront/infra/httpx/middlewares"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Healthz)
	r.Get("/", handler.RedirectToLocale)

	r.Route("/{locale}", func(r chi.Router) {
		r.Use(middlewares.RequireLocale(handler.localizer.Supports))

		r.Get("/", handler.Home)
		r.Get("/products/{slug}", handler.Product)
		r.Post("/cart/items", handler.AddToCart)

		r.Route("/checkout/payment", func(r chi.Router) {
			r.Get("/", handler.GetPayment)
			r.Post("/", handler.SubmitPayment)
			r.Delete("/", handler.ClosePayment)
			r.Post("/card-result", handler.CardResult)
			r.Delete("/error", handler.DismissError)
		})
	})
	return r
}

// NewDebugRouter serves operator endpoints. It is meant for a listener that
// is not reachable from the public internet.
func NewDebugRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Healthz)
	if handler.attempts != nil {
		r.Get("/debug/payments/{orderCode}", handler.PaymentAttempts)
		r.Get("/debug/payments/{orderCode}/latest", handler.LatestPaymentAttempt)
	}
	return r
}
