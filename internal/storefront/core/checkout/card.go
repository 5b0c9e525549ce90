package checkout

import "github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"

// CardConfig configures the hosted card widget.
type CardConfig struct {
	PublicKey string
}

func (c CardConfig) Enabled() bool { return c.PublicKey != "" }

// CardSession is what the browser needs to mount the card widget.
type CardSession struct {
	PublicKey    string
	ClientSecret string
}

// Session returns nil unless both the key and the intent secret are present.
func (c CardConfig) Session(clientSecret string) *CardSession {
	if !c.Enabled() || clientSecret == "" {
		return nil
	}
	return &CardSession{PublicKey: c.PublicKey, ClientSecret: clientSecret}
}

// CardError is the typed error reported by the card widget on completion.
type CardError struct {
	Type    string
	Code    string
	Message string
}

// CardResultOutcome maps the widget's completion to a banner. A nil error
// changes nothing.
func CardResultOutcome(err *CardError) (entity.Outcome, bool) {
	if err == nil {
		return entity.Outcome{}, false
	}
	return entity.CardError(sanitizeCardErrorType(err.Type)), true
}

// Provider error types are lower snake case, e.g. card_error. Anything
// else must not leak into a localisation key.
func sanitizeCardErrorType(t string) string {
	if t == "" {
		return "unknown_error"
	}
	for _, r := range t {
		if (r < 'a' || r > 'z') && r != '_' {
			return "unknown_error"
		}
	}
	return t
}
