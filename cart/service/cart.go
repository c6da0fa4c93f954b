package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	cartRequest "github.com/Alturino/storefront/cart/pkg/request"
	cartResponse "github.com/Alturino/storefront/cart/pkg/response"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/gateway"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/notify"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/session"
)

// ConfirmFunc asks the user a yes/no question before an irreversible step.
// Implementations decide the modality; the services only await the answer.
type ConfirmFunc func(c context.Context, message string) (bool, error)

// CartService keeps the client's believed view of the cart consistent with
// the gateway. Every mutation ends in a full re-fetch because prices and
// subtotals are server-computed; the snapshot is never patched in place as
// final truth. Concurrent overlapping mutations are not serialized here: each
// ends in a reload, so the last response to arrive wins.
type CartService struct {
	gateway  *gateway.Client
	session  *session.Session
	notifier notify.Notifier
	confirm  ConfirmFunc
	validate *validator.Validate
	snapshot cartResponse.Cart
}

func NewCartService(
	gw *gateway.Client,
	sess *session.Session,
	notifier notify.Notifier,
	confirm ConfirmFunc,
) *CartService {
	return &CartService{
		gateway:  gw,
		session:  sess,
		notifier: notifier,
		confirm:  confirm,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Snapshot returns the believed cart state without touching the gateway.
func (s *CartService) Snapshot() cartResponse.Cart {
	return s.snapshot
}

// Load replaces the believed state with a fresh authoritative fetch. On
// failure the state drops to the empty cart and a single error notification
// is emitted; no retry is attempted.
func (s *CartService) Load(c context.Context) (cartResponse.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService Load")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Load").
		Str(log.KeyProcess, "fetching cart").
		Logger()

	logger.Info().Msg("fetching cart")
	cart, err := s.gateway.Cart(c)
	if err != nil {
		err = fmt.Errorf("failed fetching cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.snapshot = cartResponse.Cart{}
		s.notifier.Notify(
			notify.LevelError,
			"Error loading cart: "+gateway.MessageOrDefault(err, "Failed to load cart"),
		)
		return cartResponse.Cart{}, err
	}
	logger.Info().Int(log.KeyCartItems, len(cart.Items)).Msg("fetched cart")

	s.snapshot = cart
	return cart, nil
}

// resync refreshes the believed state after a failed mutation so the view
// never drifts from the server. The mutation already produced its one
// notification; a resync failure is only logged.
func (s *CartService) resync(c context.Context) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService resync").
		Str(log.KeyProcess, "resyncing cart").
		Logger()

	cart, err := s.gateway.Cart(c)
	if err != nil {
		err = fmt.Errorf("failed resyncing cart with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		s.snapshot = cartResponse.Cart{}
		return
	}
	s.snapshot = cart
}

// SetItemQuantity updates a line's quantity on the gateway and reconciles.
// A requested quantity below one is a removal, not an error. Transport
// failures surface as a notification and a resync, never as an error to the
// caller.
func (s *CartService) SetItemQuantity(
	c context.Context,
	itemID int64,
	quantity int,
) (cartResponse.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService SetItemQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService SetItemQuantity").
		Int64(log.KeyCartItemID, itemID).
		Int(log.KeyQuantity, quantity).
		Logger()

	if quantity < 1 {
		logger.Info().
			Str(log.KeyProcess, "delegating to removal").
			Msg("quantity below one, removing item instead")
		return s.RemoveItem(c, itemID)
	}

	if _, ok := s.snapshot.FindItem(itemID); !ok {
		err := inErrors.ErrCartItemNotFound
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.notifier.Notify(notify.LevelError, "Cart item not found")
		return s.snapshot, err
	}

	logger = logger.With().Str(log.KeyProcess, "updating quantity").Logger()
	logger.Info().Msg("updating quantity")
	err := s.gateway.UpdateCartItemQuantity(c, itemID, quantity)
	if err != nil {
		err = fmt.Errorf("failed updating quantity with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.notifier.Notify(
			notify.LevelError,
			gateway.MessageOrDefault(err, "Failed to update quantity"),
		)
		s.resync(c)
		return s.snapshot, nil
	}
	logger.Info().Msg("updated quantity")

	logger = logger.With().Str(log.KeyProcess, "reconciling cart").Logger()
	logger.Info().Msg("reconciling cart")
	cart, err := s.gateway.Cart(c)
	if err != nil {
		err = fmt.Errorf("failed reconciling cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.snapshot = cartResponse.Cart{}
		s.notifier.Notify(
			notify.LevelError,
			"Error loading cart: "+gateway.MessageOrDefault(err, "Failed to load cart"),
		)
		return s.snapshot, nil
	}
	s.snapshot = cart
	logger.Info().Msg("reconciled cart")

	s.notifier.Notify(notify.LevelSuccess, "Cart updated")
	return s.snapshot, nil
}

// RemoveItem deletes a line after explicit confirmation, then reconciles.
func (s *CartService) RemoveItem(
	c context.Context,
	itemID int64,
) (cartResponse.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveItem").
		Int64(log.KeyCartItemID, itemID).
		Logger()

	ok, err := s.confirm(c, "Remove this item from cart?")
	if err != nil {
		return s.snapshot, fmt.Errorf("failed confirming removal with error=%w", err)
	}
	if !ok {
		logger.Info().Str(log.KeyProcess, "confirming removal").Msg("removal declined")
		return s.snapshot, nil
	}

	logger = logger.With().Str(log.KeyProcess, "removing item").Logger()
	logger.Info().Msg("removing item")
	err = s.gateway.RemoveCartItem(c, itemID)
	if err != nil {
		err = fmt.Errorf("failed removing item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.notifier.Notify(
			notify.LevelError,
			gateway.MessageOrDefault(err, "Failed to remove item"),
		)
		s.resync(c)
		return s.snapshot, nil
	}
	logger.Info().Msg("removed item")

	logger = logger.With().Str(log.KeyProcess, "reconciling cart").Logger()
	logger.Info().Msg("reconciling cart")
	cart, err := s.gateway.Cart(c)
	if err != nil {
		err = fmt.Errorf("failed reconciling cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.snapshot = cartResponse.Cart{}
		s.notifier.Notify(
			notify.LevelError,
			"Error loading cart: "+gateway.MessageOrDefault(err, "Failed to load cart"),
		)
		return s.snapshot, nil
	}
	s.snapshot = cart
	logger.Info().Msg("reconciled cart")

	s.notifier.Notify(notify.LevelSuccess, "Item removed from cart")
	return s.snapshot, nil
}

// Clear empties the cart after explicit confirmation, then reconciles.
func (s *CartService) Clear(c context.Context) (cartResponse.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Clear").
		Logger()

	ok, err := s.confirm(c, "Are you sure you want to clear your entire cart?")
	if err != nil {
		return s.snapshot, fmt.Errorf("failed confirming clear with error=%w", err)
	}
	if !ok {
		logger.Info().Str(log.KeyProcess, "confirming clear").Msg("clear declined")
		return s.snapshot, nil
	}

	logger = logger.With().Str(log.KeyProcess, "clearing cart").Logger()
	logger.Info().Msg("clearing cart")
	err = s.gateway.ClearCart(c)
	if err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.notifier.Notify(
			notify.LevelError,
			gateway.MessageOrDefault(err, "Failed to clear cart"),
		)
		s.resync(c)
		return s.snapshot, nil
	}
	logger.Info().Msg("cleared cart")

	logger = logger.With().Str(log.KeyProcess, "reconciling cart").Logger()
	logger.Info().Msg("reconciling cart")
	cart, err := s.gateway.Cart(c)
	if err != nil {
		err = fmt.Errorf("failed reconciling cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.snapshot = cartResponse.Cart{}
		s.notifier.Notify(
			notify.LevelError,
			"Error loading cart: "+gateway.MessageOrDefault(err, "Failed to load cart"),
		)
		return s.snapshot, nil
	}
	s.snapshot = cart
	logger.Info().Msg("reconciled cart")

	s.notifier.Notify(notify.LevelSuccess, "Cart cleared")
	return s.snapshot, nil
}

// AddItem creates a new line for the product. It requires an authenticated
// session and checks that locally before any network call; the cart is not
// reloaded afterwards, the caller decides whether to refresh the count.
func (s *CartService) AddItem(c context.Context, productID int64, quantity int) error {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddItem").
		Int64(log.KeyProductID, productID).
		Int(log.KeyQuantity, quantity).
		Logger()

	if !s.session.IsLoggedIn() {
		err := inErrors.ErrNotAuthenticated
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.notifier.Notify(notify.LevelError, "Please login to add items to cart")
		return err
	}

	param := cartRequest.AddCartItem{ProductID: productID, Quantity: quantity}
	logger = logger.With().Str(log.KeyProcess, "validating request").Logger()
	logger.Trace().Msg("validating request")
	if err := s.validate.StructCtx(c, param); err != nil {
		err = fmt.Errorf("failed validating request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.notifier.Notify(notify.LevelError, "Failed to add to cart")
		return err
	}
	logger.Trace().Msg("validated request")

	logger = logger.With().Str(log.KeyProcess, "adding item").Logger()
	logger.Info().Msg("adding item")
	_, err := s.gateway.AddCartItem(c, param)
	if err != nil {
		err = fmt.Errorf("failed adding item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.notifier.Notify(
			notify.LevelError,
			gateway.MessageOrDefault(err, "Failed to add to cart"),
		)
		return err
	}
	logger.Info().Msg("added item")

	s.notifier.Notify(notify.LevelSuccess, "Product added to cart!")
	return nil
}

// ItemCount reports the total quantity across lines for the cart badge. An
// unauthenticated session counts as an empty cart.
func (s *CartService) ItemCount(c context.Context) (int, error) {
	c, span := otel.Tracer.Start(c, "CartService ItemCount")
	defer span.End()

	if !s.session.IsLoggedIn() {
		return 0, nil
	}

	cart, err := s.gateway.Cart(c)
	if err != nil {
		err = fmt.Errorf("failed fetching cart with error=%w", err)
		otel.RecordError(err, span)
		zerolog.Ctx(c).Error().Err(err).Str(log.KeyTag, "CartService ItemCount").Msg(err.Error())
		return 0, err
	}
	return cart.ItemCount(), nil
}
