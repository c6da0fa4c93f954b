package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/gateway"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/notify"
	"github.com/Alturino/storefront/internal/otel"
	orderResponse "github.com/Alturino/storefront/order/pkg/response"
)

// OrderService reads order history from the gateway. Orders are immutable
// from the client's perspective; status transitions belong to the gateway.
type OrderService struct {
	gateway  *gateway.Client
	notifier notify.Notifier
}

func NewOrderService(gw *gateway.Client, notifier notify.Notifier) *OrderService {
	return &OrderService{gateway: gw, notifier: notifier}
}

func (s *OrderService) FindOrders(c context.Context) ([]orderResponse.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrders").
		Str(log.KeyProcess, "fetching orders").
		Logger()

	logger.Info().Msg("fetching orders")
	orders, err := s.gateway.Orders(c)
	if err != nil {
		err = fmt.Errorf("failed fetching orders with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.notifier.Notify(
			notify.LevelError,
			"Error loading orders: "+gateway.MessageOrDefault(err, "Failed to load orders"),
		)
		return nil, err
	}
	logger.Info().Int(log.KeyOrders, len(orders)).Msg("fetched orders")

	return orders, nil
}

func (s *OrderService) FindOrderById(
	c context.Context,
	orderID int64,
) (orderResponse.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrderById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrderById").
		Int64(log.KeyOrderID, orderID).
		Str(log.KeyProcess, "fetching order").
		Logger()

	logger.Info().Msg("fetching order")
	order, err := s.gateway.Order(c, orderID)
	if err != nil {
		err = fmt.Errorf("failed fetching order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.notifier.Notify(
			notify.LevelError,
			"Error loading order: "+gateway.MessageOrDefault(err, "Failed to load order"),
		)
		return orderResponse.Order{}, err
	}
	logger.Info().Msg("fetched order")

	return order, nil
}
