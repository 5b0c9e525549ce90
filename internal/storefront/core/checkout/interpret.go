package checkout

import "github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"

// InterpretStandard decides what follows a standard (dummy) payment.
// Order states other than settled or authorised leave the form as is.
func InterpretStandard(res entity.OrderPaymentResult) entity.Outcome {
	switch r := res.(type) {
	case *entity.Order:
		if r == nil {
			return entity.UnknownError()
		}
		if r.State == entity.OrderStatePaymentSettled || r.State == entity.OrderStatePaymentAuthorized {
			return entity.Confirmed(r.Code)
		}
		return entity.Pending()
	case entity.PaymentError:
		return errorOutcome(r)
	}
	return entity.UnknownError()
}

// InterpretPrzelewy24 decides what follows a bank-transfer payment. An
// authorised BLIK payment stays in the application even when the provider
// also returned a payment URL.
func InterpretPrzelewy24(res entity.OrderPaymentResult, blikCode string) entity.Outcome {
	switch r := res.(type) {
	case *entity.Order:
		if r == nil || len(r.Payments) == 0 {
			return entity.UnknownError()
		}
		if blikCode != "" && r.State == entity.OrderStatePaymentAuthorized {
			return entity.Confirmed(r.Code)
		}
		meta := r.Payments[0].Metadata
		if meta == nil {
			return entity.UnknownError()
		}
		if meta.Public.PaymentURL != "" {
			return entity.ExternalRedirect(meta.Public.PaymentURL)
		}
		return entity.Pending()
	case entity.PaymentError:
		return errorOutcome(r)
	}
	return entity.UnknownError()
}

func errorOutcome(e entity.PaymentError) entity.Outcome {
	if e.Code() == "" {
		return entity.UnknownError()
	}
	return entity.BackendError(e.Code())
}
