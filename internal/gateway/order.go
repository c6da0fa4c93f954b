package gateway

import (
	"context"
	"fmt"
	"net/http"

	orderResponse "github.com/Alturino/storefront/order/pkg/response"
)

// CreateOrder converts the caller's current cart into an order. The gateway
// mutates inventory and empties the cart as a side effect, so this is issued
// exactly once per confirmed checkout attempt and never retried here.
func (g *Client) CreateOrder(c context.Context) (orderResponse.Order, error) {
	order := orderResponse.Order{}
	err := g.do(c, http.MethodPost, "/orders", nil, &order, authRequired)
	if err != nil {
		return orderResponse.Order{}, fmt.Errorf("failed creating order with error=%w", err)
	}
	return order, nil
}

func (g *Client) Orders(c context.Context) ([]orderResponse.Order, error) {
	orders := []orderResponse.Order{}
	err := g.do(c, http.MethodGet, "/orders", nil, &orders, authRequired)
	if err != nil {
		return nil, fmt.Errorf("failed fetching orders with error=%w", err)
	}
	return orders, nil
}

func (g *Client) Order(c context.Context, orderID int64) (orderResponse.Order, error) {
	order := orderResponse.Order{}
	err := g.do(c, http.MethodGet, fmt.Sprintf("/orders/%d", orderID), nil, &order, authRequired)
	if err != nil {
		return orderResponse.Order{}, fmt.Errorf("failed fetching order with error=%w", err)
	}
	return order, nil
}
