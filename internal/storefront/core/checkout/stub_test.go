package checkout

import (
	"context"
	"sync"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

// --- stubs for unit tests ---

type stubAPI struct {
	mu     sync.Mutex
	inputs []entity.PaymentInput

	result  entity.OrderPaymentResult
	err     error
	order   *entity.ActiveOrder
	methods []entity.PaymentMethodOption
	secret  string
	// block, when set, makes AddPaymentToOrder wait for it or for ctx.
	block chan struct{}
}

func (s *stubAPI) AddPaymentToOrder(ctx context.Context, _ string, input entity.PaymentInput) (entity.OrderPaymentResult, error) {
	s.mu.Lock()
	s.inputs = append(s.inputs, input)
	block := s.block
	s.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.result, s.err
}

func (s *stubAPI) EligiblePaymentMethods(context.Context, string) ([]entity.PaymentMethodOption, error) {
	return s.methods, nil
}

func (s *stubAPI) ActiveOrder(context.Context, string) (*entity.ActiveOrder, error) {
	return s.order, nil
}

func (s *stubAPI) CreateStripePaymentIntent(context.Context, string) (string, error) {
	if s.secret == "" {
		return "", context.DeadlineExceeded
	}
	return s.secret, nil
}

func (s *stubAPI) calls() []entity.PaymentInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.PaymentInput(nil), s.inputs...)
}

type memoryLog struct {
	mu       sync.Mutex
	attempts []ports.PaymentAttempt
}

func (m *memoryLog) Save(_ context.Context, a *ports.PaymentAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, *a)
	return nil
}

func fullOffer() Offer {
	return Offer{
		OrderCode: "ORD-1",
		Methods: []entity.PaymentMethodOption{
			{Code: entity.MethodCodeStandard, Name: "Standard"},
			{Code: entity.MethodCodePrzelewy24, Name: "Przelewy24"},
			{Code: entity.MethodCodeStripe, Name: "Stripe"},
		},
		Card: &CardSession{PublicKey: "pk_test", ClientSecret: "pi_secret"},
	}
}
