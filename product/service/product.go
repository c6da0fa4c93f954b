package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/gateway"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/notify"
	"github.com/Alturino/storefront/internal/otel"
	productResponse "github.com/Alturino/storefront/product/pkg/response"
)

// ProductService loads the catalog and filters it in memory. The loaded
// slices live for one command invocation; filtering never re-fetches.
type ProductService struct {
	gateway    *gateway.Client
	notifier   notify.Notifier
	products   []productResponse.Product
	categories []productResponse.Category
}

func NewProductService(gw *gateway.Client, notifier notify.Notifier) *ProductService {
	return &ProductService{gateway: gw, notifier: notifier}
}

func (s *ProductService) LoadProducts(c context.Context) ([]productResponse.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService LoadProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService LoadProducts").
		Str(log.KeyProcess, "fetching products").
		Logger()

	logger.Info().Msg("fetching products")
	products, err := s.gateway.Products(c)
	if err != nil {
		err = fmt.Errorf("failed fetching products with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.notifier.Notify(
			notify.LevelError,
			"Error loading products: "+gateway.MessageOrDefault(err, "Failed to load products"),
		)
		return nil, err
	}
	logger.Info().Msgf("fetched %d products", len(products))

	s.products = products
	return products, nil
}

// LoadCategories fetches the category list. A failure only logs: the catalog
// remains browsable without its category filter.
func (s *ProductService) LoadCategories(c context.Context) ([]productResponse.Category, error) {
	c, span := otel.Tracer.Start(c, "ProductService LoadCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService LoadCategories").
		Str(log.KeyProcess, "fetching categories").
		Logger()

	logger.Info().Msg("fetching categories")
	categories, err := s.gateway.Categories(c)
	if err != nil {
		err = fmt.Errorf("failed fetching categories with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("fetched %d categories", len(categories))

	s.categories = categories
	return categories, nil
}

// Filter narrows the loaded products by a case-insensitive search term over
// name and description, and by category id when one is given.
func (s *ProductService) Filter(search string, categoryID int64) []productResponse.Product {
	filtered := s.products
	if term := strings.ToLower(strings.TrimSpace(search)); term != "" {
		matched := []productResponse.Product{}
		for _, p := range filtered {
			if strings.Contains(strings.ToLower(p.Name), term) ||
				strings.Contains(strings.ToLower(p.Description), term) {
				matched = append(matched, p)
			}
		}
		filtered = matched
	}
	if categoryID != 0 {
		matched := []productResponse.Product{}
		for _, p := range filtered {
			if p.CategoryID == categoryID {
				matched = append(matched, p)
			}
		}
		filtered = matched
	}
	return filtered
}
