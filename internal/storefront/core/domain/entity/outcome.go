package entity

// OutcomeKind is what the form does after a submission attempt.
type OutcomeKind string

const (
	// OutcomeConfirmed navigates to the internal confirmation route.
	OutcomeConfirmed OutcomeKind = "confirmed-redirect"
	// OutcomeExternalRedirect leaves the application for the payment provider.
	OutcomeExternalRedirect OutcomeKind = "external-redirect"
	OutcomeError            OutcomeKind = "error-displayed"
	// OutcomePending is an Order result in a non-terminal state. Nothing
	// changes on screen.
	OutcomePending OutcomeKind = "pending"
	// OutcomeCardDelegated means no mutation was sent; the card widget
	// confirms the payment itself.
	OutcomeCardDelegated OutcomeKind = "card-delegated"
)

type Outcome struct {
	Kind OutcomeKind
	// OrderCode is set for confirmed redirects.
	OrderCode string
	// ExternalURL is set for external redirects and used verbatim.
	ExternalURL string
	// ErrorKey is the localisation key of the banner message.
	ErrorKey  string
	ErrorCode ErrorCode
}

func Confirmed(orderCode string) Outcome {
	return Outcome{Kind: OutcomeConfirmed, OrderCode: orderCode}
}

func ExternalRedirect(url string) Outcome {
	return Outcome{Kind: OutcomeExternalRedirect, ExternalURL: url}
}

func Pending() Outcome {
	return Outcome{Kind: OutcomePending}
}

func CardDelegated() Outcome {
	return Outcome{Kind: OutcomeCardDelegated}
}

// BackendError shows errors.backend.<code>.
func BackendError(code ErrorCode) Outcome {
	return Outcome{Kind: OutcomeError, ErrorKey: "errors.backend." + string(code), ErrorCode: code}
}

func UnknownError() Outcome {
	return BackendError(ErrorCodeUnknown)
}

// CardError shows errors.stripe.<type>.
func CardError(providerType string) Outcome {
	return Outcome{Kind: OutcomeError, ErrorKey: "errors.stripe." + providerType}
}
