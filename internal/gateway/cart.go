package gateway

import (
	"context"
	"fmt"
	"net/http"

	cartRequest "github.com/Alturino/storefront/cart/pkg/request"
	cartResponse "github.com/Alturino/storefront/cart/pkg/response"
)

func (g *Client) Cart(c context.Context) (cartResponse.Cart, error) {
	cart := cartResponse.Cart{}
	err := g.do(c, http.MethodGet, "/cart", nil, &cart, authRequired)
	if err != nil {
		return cartResponse.Cart{}, fmt.Errorf("failed fetching cart with error=%w", err)
	}
	return cart, nil
}

func (g *Client) AddCartItem(
	c context.Context,
	param cartRequest.AddCartItem,
) (cartResponse.CartItem, error) {
	item := cartResponse.CartItem{}
	err := g.do(c, http.MethodPost, "/cart/items", param, &item, authRequired)
	if err != nil {
		return cartResponse.CartItem{}, fmt.Errorf("failed adding cart item with error=%w", err)
	}
	return item, nil
}

func (g *Client) UpdateCartItemQuantity(c context.Context, itemID int64, quantity int) error {
	param := cartRequest.UpdateCartItemQuantity{Quantity: quantity}
	err := g.do(c, http.MethodPut, fmt.Sprintf("/cart/items/%d", itemID), param, nil, authRequired)
	if err != nil {
		return fmt.Errorf("failed updating cart item quantity with error=%w", err)
	}
	return nil
}

func (g *Client) RemoveCartItem(c context.Context, itemID int64) error {
	err := g.do(c, http.MethodDelete, fmt.Sprintf("/cart/items/%d", itemID), nil, nil, authRequired)
	if err != nil {
		return fmt.Errorf("failed removing cart item with error=%w", err)
	}
	return nil
}

func (g *Client) ClearCart(c context.Context) error {
	err := g.do(c, http.MethodDelete, "/cart", nil, nil, authRequired)
	if err != nil {
		return fmt.Errorf("failed clearing cart with error=%w", err)
	}
	return nil
}
