package gateway

import (
	"context"
	"fmt"
	"net/http"

	productResponse "github.com/Alturino/storefront/product/pkg/response"
)

func (g *Client) Products(c context.Context) ([]productResponse.Product, error) {
	products := []productResponse.Product{}
	err := g.do(c, http.MethodGet, "/products", nil, &products, authOptional)
	if err != nil {
		return nil, fmt.Errorf("failed fetching products with error=%w", err)
	}
	return products, nil
}

func (g *Client) ProductsByCategory(
	c context.Context,
	categoryID int64,
) ([]productResponse.Product, error) {
	products := []productResponse.Product{}
	path := fmt.Sprintf("/products?categoryId=%d", categoryID)
	err := g.do(c, http.MethodGet, path, nil, &products, authOptional)
	if err != nil {
		return nil, fmt.Errorf("failed fetching products by category with error=%w", err)
	}
	return products, nil
}

func (g *Client) Categories(c context.Context) ([]productResponse.Category, error) {
	categories := []productResponse.Category{}
	err := g.do(c, http.MethodGet, "/categories", nil, &categories, authOptional)
	if err != nil {
		return nil, fmt.Errorf("failed fetching categories with error=%w", err)
	}
	return categories, nil
}
