package ports

import (
	"context"
	"time"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

// PaymentAttempt is one submission of the payment form and how it ended.
type PaymentAttempt struct {
	ID        string
	OrderCode string
	Selection entity.Selection
	Method    string
	Outcome   entity.OutcomeKind
	ErrorCode entity.ErrorCode
	TraceID   string
	SpanID    string
	CreatedAt time.Time
}

// PaymentLog is an append-only audit trail of payment attempts.
type PaymentLog interface {
	Save(ctx context.Context, attempt *PaymentAttempt) error
}

// Translator resolves localisation keys. Unknown keys resolve to themselves.
type Translator interface {
	T(language, key string) string
}
