package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

const tracerName = "github.com/jcmexdev/storefront/checkout"

// Service talks to the Shop API on behalf of the payment form.
type Service struct {
	api        ports.PaymentAPI
	paymentLog ports.PaymentLog // nil-safe: attempts are not recorded if nil
	card       CardConfig
	logger     *slog.Logger
	now        func() time.Time
}

// NewService wires the payment step. paymentLog may be nil.
func NewService(api ports.PaymentAPI, paymentLog ports.PaymentLog, card CardConfig, logger *slog.Logger) *Service {
	if api == nil {
		panic("checkout.NewService: nil payment api")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		api:        api,
		paymentLog: paymentLog,
		card:       card,
		logger:     logger,
		now:        time.Now,
	}
}

// LoadOffer reads the active order and the methods offered for it. The
// card method is added only when a payment intent could be created.
func (s *Service) LoadOffer(ctx context.Context, language string) (Offer, error) {
	var (
		order   *entity.ActiveOrder
		methods []entity.PaymentMethodOption
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		order, err = s.api.ActiveOrder(gctx, language)
		return err
	})
	g.Go(func() error {
		var err error
		methods, err = s.api.EligiblePaymentMethods(gctx, language)
		return err
	})
	if err := g.Wait(); err != nil {
		return Offer{}, fmt.Errorf("load payment offer: %w", err)
	}
	if order == nil {
		return Offer{}, ErrNoActiveOrder
	}

	offer := Offer{OrderCode: order.Code, Methods: methods}

	if s.card.Enabled() && hasMethod(methods, entity.MethodCodeStripe) {
		secret, err := s.api.CreateStripePaymentIntent(ctx, language)
		if err != nil {
			s.logger.WarnContext(ctx, "stripe payment intent unavailable", "order_code", order.Code, "error", err)
		} else {
			offer.Card = s.card.Session(secret)
		}
	}

	return offer, nil
}

// Submit validates values and sends at most one addPaymentToOrder call.
// Validation failures are returned as errors and nothing is sent; every
// other failure is folded into the returned outcome.
func (s *Service) Submit(ctx context.Context, language string, offer Offer, values entity.FormValues) (entity.Outcome, error) {
	values, err := Validate(offer, values)
	if err != nil {
		return entity.Outcome{}, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "checkout.SubmitPayment",
		trace.WithAttributes(
			attribute.String("checkout.selection", string(values.Payment)),
			attribute.String("checkout.order_code", offer.OrderCode),
		))
	defer span.End()

	if values.Payment == entity.SelectionStripe {
		outcome := entity.CardDelegated()
		s.record(ctx, offer, values, "", outcome)
		return outcome, nil
	}

	input, err := paymentInput(offer, values)
	if err != nil {
		return entity.Outcome{}, err
	}
	span.SetAttributes(attribute.String("checkout.method", input.Method))

	var outcome entity.Outcome
	res, err := s.api.AddPaymentToOrder(ctx, language, input)
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "addPaymentToOrder failed")
		level := slog.LevelError
		if errors.Is(err, context.Canceled) {
			level = slog.LevelInfo
		}
		s.logger.Log(ctx, level, "add payment to order failed",
			"order_code", offer.OrderCode, "method", input.Method, "error", err)
		outcome = entity.UnknownError()
	case values.Payment.IsPrzelewy24():
		outcome = InterpretPrzelewy24(res, values.BlikCode)
	default:
		outcome = InterpretStandard(res)
	}

	span.SetAttributes(attribute.String("checkout.outcome", string(outcome.Kind)))
	s.logger.InfoContext(ctx, "payment submitted",
		"order_code", offer.OrderCode,
		"selection", values.Payment,
		"outcome", outcome.Kind,
		"error_code", outcome.ErrorCode,
	)
	s.record(ctx, offer, values, input.Method, outcome)

	return outcome, nil
}

func (s *Service) record(ctx context.Context, offer Offer, values entity.FormValues, method string, outcome entity.Outcome) {
	if s.paymentLog == nil {
		return
	}
	attempt := &ports.PaymentAttempt{
		OrderCode: offer.OrderCode,
		Selection: values.Payment,
		Method:    method,
		Outcome:   outcome.Kind,
		ErrorCode: outcome.ErrorCode,
		CreatedAt: s.now().UTC(),
	}
	// Detached so a cancelled submission is still recorded.
	if err := s.paymentLog.Save(context.WithoutCancel(ctx), attempt); err != nil {
		s.logger.ErrorContext(ctx, "failed to record payment attempt", "order_code", offer.OrderCode, "error", err)
	}
}

func hasMethod(methods []entity.PaymentMethodOption, code string) bool {
	for _, m := range methods {
		if m.Code == code {
			return true
		}
	}
	return false
}
