package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/jcmexdev/storefront/internal/storefront/core/catalog"
	"github.com/jcmexdev/storefront/internal/storefront/core/checkout"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/infra/adapters/paymentlog"
)

type errorKind struct {
	code   string
	status int
	// key is the localisation key of the message, if any.
	key string
}

var knownErrors = []struct {
	err  error
	kind errorKind
}{
	{checkout.ErrInvalidSelection, errorKind{"invalid_selection", http.StatusUnprocessableEntity, "errors.form.invalid_selection"}},
	{checkout.ErrMethodUnavailable, errorKind{"method_unavailable", http.StatusUnprocessableEntity, "errors.form.method_unavailable"}},
	{checkout.ErrInvalidBlikCode, errorKind{"invalid_blik_code", http.StatusUnprocessableEntity, "errors.form.invalid_blik_code"}},
	{checkout.ErrSubmissionInFlight, errorKind{"submission_in_flight", http.StatusConflict, "errors.form.submission_in_flight"}},
	{checkout.ErrFormClosed, errorKind{"form_closed", http.StatusConflict, "errors.form.payment_form_missing"}},
	{checkout.ErrFormNotFound, errorKind{"payment_form_missing", http.StatusConflict, "errors.form.payment_form_missing"}},
	{checkout.ErrTooManyForms, errorKind{"too_many_forms", http.StatusServiceUnavailable, "errors.backend.UNKNOWN_ERROR"}},
	{checkout.ErrNoActiveOrder, errorKind{"no_active_order", http.StatusNotFound, "errors.form.no_active_order"}},
	{catalog.ErrInvalidQuantity, errorKind{"invalid_quantity", http.StatusUnprocessableEntity, "errors.form.invalid_quantity"}},
	{catalog.ErrProductNotFound, errorKind{"product_not_found", http.StatusNotFound, ""}},
	{catalog.ErrVariantNotFound, errorKind{"variant_not_found", http.StatusNotFound, ""}},
	{paymentlog.ErrNotFound, errorKind{"not_found", http.StatusNotFound, ""}},
	{context.DeadlineExceeded, errorKind{"timeout", http.StatusGatewayTimeout, ""}},
	{context.Canceled, errorKind{"canceled", http.StatusRequestTimeout, ""}},
}

// upstream is the kind of anything unclassified: in this service that is
// a failed Shop API call.
var upstream = errorKind{"shop_api_error", http.StatusBadGateway, "errors.backend.UNKNOWN_ERROR"}

func classify(err error) errorKind {
	var cartErr *entity.CartError
	if errors.As(err, &cartErr) {
		return errorKind{"cart_error", http.StatusConflict, "errors.cart." + string(cartErr.Code)}
	}
	for _, k := range knownErrors {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return upstream
}
