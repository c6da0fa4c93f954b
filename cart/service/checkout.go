package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/gateway"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/notify"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/pricing"
	orderResponse "github.com/Alturino/storefront/order/pkg/response"
)

type CheckoutState int

const (
	StateIdle CheckoutState = iota
	StateValidating
	StateAwaitingConfirmation
	StateSubmitting
	StateCompleted
	StateFailed
)

func (s CheckoutState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateAwaitingConfirmation:
		return "awaiting-confirmation"
	case StateSubmitting:
		return "submitting"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// CheckoutSequencer drives one checkout attempt through
// idle -> validating -> awaiting-confirmation -> submitting -> completed.
// The cart is always fetched fresh at validation so the attempt never acts on
// a stale snapshot, and the order-creation call is issued at most once per
// confirmed attempt: its side effects cannot be undone locally, so nothing is
// retried. Every failure emits one notification and returns control to idle.
type CheckoutSequencer struct {
	gateway  *gateway.Client
	notifier notify.Notifier
	confirm  ConfirmFunc
	reload   func(c context.Context)
	state    CheckoutState
}

// NewCheckoutSequencer wires the sequencer. reload is invoked after a
// completed checkout so the view reflects the now-empty cart; it may be nil.
func NewCheckoutSequencer(
	gw *gateway.Client,
	notifier notify.Notifier,
	confirm ConfirmFunc,
	reload func(c context.Context),
) *CheckoutSequencer {
	return &CheckoutSequencer{
		gateway:  gw,
		notifier: notifier,
		confirm:  confirm,
		reload:   reload,
		state:    StateIdle,
	}
}

func (s *CheckoutSequencer) State() CheckoutState {
	return s.state
}

// fail records the terminal failure, emits its single notification and hands
// control back to idle so the user can re-attempt from scratch.
func (s *CheckoutSequencer) fail(c context.Context, message string) {
	s.state = StateFailed
	s.notifier.Notify(notify.LevelError, message)
	zerolog.Ctx(c).Info().
		Str(log.KeyTag, "CheckoutSequencer fail").
		Str(log.KeyState, s.state.String()).
		Msg("checkout attempt failed, returning to idle")
	s.state = StateIdle
}

// Checkout runs one attempt. It returns the created order on success, nil
// with a nil error when the user declines, and nil with the causing error on
// failure.
func (s *CheckoutSequencer) Checkout(c context.Context) (*orderResponse.Order, error) {
	c, span := otel.Tracer.Start(c, "CheckoutSequencer Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutSequencer Checkout").
		Logger()

	if s.state == StateValidating || s.state == StateAwaitingConfirmation ||
		s.state == StateSubmitting {
		err := inErrors.ErrCheckoutAlreadyActive
		otel.RecordError(err, span)
		logger.Error().Err(err).Str(log.KeyState, s.state.String()).Msg(err.Error())
		return nil, err
	}

	s.state = StateValidating
	logger = logger.With().Str(log.KeyProcess, "validating cart").Logger()
	logger.Info().Msg("fetching cart for validation")
	cart, err := s.gateway.Cart(c)
	if err != nil {
		err = fmt.Errorf("failed fetching cart for validation with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.fail(c, "Checkout failed: "+gateway.MessageOrDefault(err, "Failed to load cart"))
		return nil, err
	}
	logger.Info().Int(log.KeyCartItems, len(cart.Items)).Msg("fetched cart for validation")

	if cart.IsEmpty() {
		err := inErrors.ErrEmptyCart
		otel.RecordError(err, span)
		logger.Info().Msg("cart is empty, checkout disallowed")
		s.fail(c, "Your cart is empty")
		return nil, err
	}

	totals := pricing.ComputeTotals(cart.TotalPrice)
	logger = logger.With().
		Str(log.KeySubtotal, totals.Subtotal.String()).
		Str(log.KeyTax, totals.Tax.String()).
		Str(log.KeyTotal, totals.GrandTotal.String()).
		Logger()

	s.state = StateAwaitingConfirmation
	logger = logger.With().Str(log.KeyProcess, "awaiting confirmation").Logger()
	logger.Info().Msg("presenting order summary for confirmation")
	summary := fmt.Sprintf(
		"Order Summary:\nSubtotal: %s\nTax (10%%): %s\nTotal: %s\n\nProceed with checkout?",
		pricing.FormatUSD(totals.Subtotal),
		pricing.FormatUSD(totals.Tax),
		pricing.FormatUSD(totals.GrandTotal),
	)
	ok, err := s.confirm(c, summary)
	if err != nil {
		err = fmt.Errorf("failed confirming checkout with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.fail(c, "Checkout failed: "+err.Error())
		return nil, err
	}
	if !ok {
		// Declining is a strict no-op on server state, not a failure.
		logger.Info().Msg("checkout declined")
		s.state = StateIdle
		return nil, nil
	}

	s.state = StateSubmitting
	logger = logger.With().Str(log.KeyProcess, "submitting order").Logger()
	s.notifier.Notify(notify.LevelInfo, "Processing order...")
	logger.Info().Msg("creating order")
	order, err := s.gateway.CreateOrder(c)
	if err != nil {
		err = fmt.Errorf("failed creating order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.fail(c, "Checkout failed: "+gateway.MessageOrDefault(err, "Failed to create order"))
		return nil, err
	}
	logger = logger.With().Int64(log.KeyOrderID, order.ID).Logger()
	logger.Info().Msg("created order")

	s.state = StateCompleted
	s.notifier.Notify(
		notify.LevelSuccess,
		fmt.Sprintf("Order #%d placed successfully! Thank you for your purchase.", order.ID),
	)

	if s.reload != nil {
		logger.Info().Str(log.KeyProcess, "reloading cart").Msg("reloading cart after checkout")
		s.reload(c)
	}

	return &order, nil
}
