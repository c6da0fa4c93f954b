package service

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/gateway"
	"github.com/Alturino/storefront/internal/gateway/gatewaytest"
	"github.com/Alturino/storefront/internal/notify"
	"github.com/Alturino/storefront/internal/session"
	productResponse "github.com/Alturino/storefront/product/pkg/response"
)

func newTestService(t *testing.T) (*gatewaytest.Server, *ProductService, *notify.Recorder) {
	t.Helper()
	server := gatewaytest.NewServer(t)
	sess := session.New(config.Session{Path: filepath.Join(t.TempDir(), "session.json")})
	client := gateway.New(config.Gateway{BaseURL: server.URL, TimeoutSeconds: 5}, sess)
	recorder := &notify.Recorder{}
	return server, NewProductService(client, recorder), recorder
}

func seedCatalog(server *gatewaytest.Server) {
	server.SeedCategories(
		productResponse.Category{ID: 1, Name: "Coffee"},
		productResponse.Category{ID: 2, Name: "Tea"},
	)
	server.SeedProducts(
		productResponse.Product{
			ID:          1,
			Name:        "Americano",
			Description: "Espresso over hot water",
			Price:       decimal.NewFromInt(4),
			CategoryID:  1,
		},
		productResponse.Product{
			ID:          2,
			Name:        "Cold Brew",
			Description: "Slow steeped coffee",
			Price:       decimal.NewFromInt(6),
			CategoryID:  1,
		},
		productResponse.Product{
			ID:          3,
			Name:        "Sencha",
			Description: "Japanese green tea",
			Price:       decimal.NewFromInt(5),
			CategoryID:  2,
		},
	)
}

func TestLoadProducts(t *testing.T) {
	server, svc, recorder := newTestService(t)
	seedCatalog(server)

	products, err := svc.LoadProducts(context.Background())

	assert.NoError(t, err)
	assert.Len(t, products, 3)
	assert.Empty(t, recorder.Messages())
}

func TestLoadProductsFailure(t *testing.T) {
	server, svc, recorder := newTestService(t)
	server.Fail("GET /products", http.StatusInternalServerError, "boom")

	products, err := svc.LoadProducts(context.Background())

	assert.Error(t, err)
	assert.Nil(t, products)
	assert.Equal(t, []string{"Error loading products: boom"}, recorder.Messages())
}

func TestLoadCategoriesFailureIsSilent(t *testing.T) {
	server, svc, recorder := newTestService(t)
	server.Fail("GET /categories", http.StatusInternalServerError, "boom")

	categories, err := svc.LoadCategories(context.Background())

	assert.Error(t, err)
	assert.Nil(t, categories)
	assert.Empty(t, recorder.Messages())
}

func TestFilter(t *testing.T) {
	server, svc, _ := newTestService(t)
	seedCatalog(server)
	_, err := svc.LoadProducts(context.Background())
	require.NoError(t, err)

	tests := []struct {
		name        string
		search      string
		categoryID  int64
		expectedIDs []int64
	}{
		{
			name:        "given no filter should return everything",
			expectedIDs: []int64{1, 2, 3},
		},
		{
			name:        "given search term should match names case-insensitively",
			search:      "AMERICANO",
			expectedIDs: []int64{1},
		},
		{
			name:        "given search term should match descriptions too",
			search:      "coffee",
			expectedIDs: []int64{2},
		},
		{
			name:        "given category should narrow to it",
			categoryID:  2,
			expectedIDs: []int64{3},
		},
		{
			name:        "given search and category should apply both",
			search:      "tea",
			categoryID:  1,
			expectedIDs: []int64{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := svc.Filter(tt.search, tt.categoryID)

			ids := make([]int64, 0, len(filtered))
			for _, p := range filtered {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}
}
