package service

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartResponse "github.com/Alturino/storefront/cart/pkg/response"
	"github.com/Alturino/storefront/internal/config"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/gateway"
	"github.com/Alturino/storefront/internal/gateway/gatewaytest"
	"github.com/Alturino/storefront/internal/notify"
	"github.com/Alturino/storefront/internal/session"
	productResponse "github.com/Alturino/storefront/product/pkg/response"
)

type confirmStub struct {
	answer   bool
	err      error
	messages []string
}

func (c *confirmStub) confirm(_ context.Context, message string) (bool, error) {
	c.messages = append(c.messages, message)
	return c.answer, c.err
}

type harness struct {
	server   *gatewaytest.Server
	service  *CartService
	recorder *notify.Recorder
	confirm  *confirmStub
	session  *session.Session
}

func newHarness(t *testing.T, loggedIn bool) harness {
	t.Helper()

	server := gatewaytest.NewServer(t)
	sess := session.New(config.Session{Path: filepath.Join(t.TempDir(), "session.json")})
	if loggedIn {
		err := sess.SetCredentials(gatewaytest.Token, session.User{ID: 1, Username: "ikita"})
		require.NoError(t, err)
	}

	client := gateway.New(config.Gateway{BaseURL: server.URL, TimeoutSeconds: 5}, sess)
	recorder := &notify.Recorder{}
	confirm := &confirmStub{answer: true}

	return harness{
		server:   server,
		service:  NewCartService(client, sess, recorder, confirm.confirm),
		recorder: recorder,
		confirm:  confirm,
		session:  sess,
	}
}

func seedTwoLineCart(server *gatewaytest.Server) {
	server.SeedCart(
		cartResponse.CartItem{
			ID:          1,
			ProductID:   10,
			ProductName: "Americano",
			Price:       decimal.NewFromInt(4),
			Quantity:    2,
		},
		cartResponse.CartItem{
			ID:          2,
			ProductID:   11,
			ProductName: "Cold Brew",
			Price:       decimal.NewFromInt(6),
			Quantity:    2,
		},
	)
}

func TestLoadReplacesSnapshot(t *testing.T) {
	h := newHarness(t, true)
	seedTwoLineCart(h.server)

	cart, err := h.service.Load(context.Background())

	assert.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.True(t, cart.TotalPrice.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, cart, h.service.Snapshot())
	assert.Empty(t, h.recorder.Messages())
}

func TestLoadTwiceYieldsIdenticalSnapshot(t *testing.T) {
	h := newHarness(t, true)
	seedTwoLineCart(h.server)

	first, err := h.service.Load(context.Background())
	require.NoError(t, err)
	second, err := h.service.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLoadFailureDropsToEmptyCart(t *testing.T) {
	h := newHarness(t, true)
	seedTwoLineCart(h.server)
	h.server.Fail("GET /cart", http.StatusInternalServerError, "boom")

	cart, err := h.service.Load(context.Background())

	assert.Error(t, err)
	assert.True(t, cart.IsEmpty())
	assert.True(t, h.service.Snapshot().IsEmpty())
	assert.Equal(t, []string{"Error loading cart: boom"}, h.recorder.Messages())
}

func TestSetItemQuantityReconcilesFromServer(t *testing.T) {
	h := newHarness(t, true)
	seedTwoLineCart(h.server)
	_, err := h.service.Load(context.Background())
	require.NoError(t, err)

	cart, err := h.service.SetItemQuantity(context.Background(), 1, 3)

	assert.NoError(t, err)
	item, found := cart.FindItem(1)
	require.True(t, found)
	assert.Equal(t, 3, item.Quantity)
	assert.True(t, item.Subtotal.Equal(decimal.NewFromInt(12)))
	assert.True(t, cart.TotalPrice.Equal(decimal.NewFromInt(24)))
	assert.Equal(t, []string{"Cart updated"}, h.recorder.Messages())
	assert.Equal(t, 1, h.server.Calls("PUT /cart/items/{id}"))
	assert.Equal(t, 2, h.server.Calls("GET /cart"))
}

func TestSetItemQuantityBelowOneRemoves(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
	}{
		{name: "given quantity zero should remove the item", quantity: 0},
		{name: "given negative quantity should remove the item", quantity: -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, true)
			seedTwoLineCart(h.server)
			_, err := h.service.Load(context.Background())
			require.NoError(t, err)

			cart, err := h.service.SetItemQuantity(context.Background(), 1, tt.quantity)

			assert.NoError(t, err)
			_, found := cart.FindItem(1)
			assert.False(t, found)
			assert.True(t, cart.TotalPrice.Equal(decimal.NewFromInt(12)))
			assert.Equal(t, []string{"Remove this item from cart?"}, h.confirm.messages)
			assert.Equal(t, []string{"Item removed from cart"}, h.recorder.Messages())
			assert.Equal(t, 0, h.server.Calls("PUT /cart/items/{id}"))
			assert.Equal(t, 1, h.server.Calls("DELETE /cart/items/{id}"))
		})
	}
}

func TestSetItemQuantityZeroOnLastLineEmptiesCart(t *testing.T) {
	h := newHarness(t, true)
	h.server.SeedCart(cartResponse.CartItem{
		ID:          1,
		ProductID:   10,
		ProductName: "Americano",
		Price:       decimal.NewFromInt(10),
		Quantity:    2,
	})
	_, err := h.service.Load(context.Background())
	require.NoError(t, err)

	cart, err := h.service.SetItemQuantity(context.Background(), 1, 0)

	assert.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.True(t, h.service.Snapshot().IsEmpty())
	assert.Equal(t, []string{"Item removed from cart"}, h.recorder.Messages())
}

func TestSetItemQuantityUnknownItem(t *testing.T) {
	h := newHarness(t, true)
	seedTwoLineCart(h.server)
	_, err := h.service.Load(context.Background())
	require.NoError(t, err)

	_, err = h.service.SetItemQuantity(context.Background(), 99, 2)

	assert.ErrorIs(t, err, inErrors.ErrCartItemNotFound)
	assert.Equal(t, []string{"Cart item not found"}, h.recorder.Messages())
	assert.Equal(t, 0, h.server.Calls("PUT /cart/items/{id}"))
}

func TestSetItemQuantityFailureResyncs(t *testing.T) {
	h := newHarness(t, true)
	seedTwoLineCart(h.server)
	_, err := h.service.Load(context.Background())
	require.NoError(t, err)
	h.server.Fail("PUT /cart/items/{id}", http.StatusConflict, "Insufficient stock")

	cart, err := h.service.SetItemQuantity(context.Background(), 1, 100)

	assert.NoError(t, err)
	item, found := cart.FindItem(1)
	require.True(t, found)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, []string{"Insufficient stock"}, h.recorder.Messages())
	assert.Equal(t, 2, h.server.Calls("GET /cart"))
}

func TestRemoveItemDeclinedIsNoOp(t *testing.T) {
	h := newHarness(t, true)
	seedTwoLineCart(h.server)
	_, err := h.service.Load(context.Background())
	require.NoError(t, err)
	h.confirm.answer = false

	cart, err := h.service.RemoveItem(context.Background(), 1)

	assert.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.Empty(t, h.recorder.Messages())
	assert.Equal(t, 0, h.server.Calls("DELETE /cart/items/{id}"))
}

func TestClear(t *testing.T) {
	tests := []struct {
		name             string
		answer           bool
		expectedItems    int
		expectedMessages []string
		expectedCalls    int
	}{
		{
			name:             "given confirmation should clear the cart",
			answer:           true,
			expectedItems:    0,
			expectedMessages: []string{"Cart cleared"},
			expectedCalls:    1,
		},
		{
			name:             "given declined confirmation should keep the cart",
			answer:           false,
			expectedItems:    2,
			expectedMessages: []string{},
			expectedCalls:    0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, true)
			seedTwoLineCart(h.server)
			_, err := h.service.Load(context.Background())
			require.NoError(t, err)
			h.confirm.answer = tt.answer

			cart, err := h.service.Clear(context.Background())

			assert.NoError(t, err)
			assert.Len(t, cart.Items, tt.expectedItems)
			assert.Equal(t, tt.expectedMessages, h.recorder.Messages())
			assert.Equal(t, tt.expectedCalls, h.server.Calls("DELETE /cart"))
		})
	}
}

func TestAddItemRequiresLogin(t *testing.T) {
	h := newHarness(t, false)

	err := h.service.AddItem(context.Background(), 10, 1)

	assert.ErrorIs(t, err, inErrors.ErrNotAuthenticated)
	assert.Equal(t, []string{"Please login to add items to cart"}, h.recorder.Messages())
	assert.Equal(t, 0, h.server.Calls("POST /cart/items"))
}

func TestAddItem(t *testing.T) {
	h := newHarness(t, true)
	h.server.SeedProducts(productResponse.Product{
		ID:            10,
		Name:          "Americano",
		Price:         decimal.NewFromInt(4),
		StockQuantity: 3,
	})

	err := h.service.AddItem(context.Background(), 10, 2)

	assert.NoError(t, err)
	assert.Equal(t, []string{"Product added to cart!"}, h.recorder.Messages())
	assert.Len(t, h.server.CartSnapshot().Items, 1)
}

func TestAddItemInsufficientStock(t *testing.T) {
	h := newHarness(t, true)
	h.server.SeedProducts(productResponse.Product{
		ID:            10,
		Name:          "Americano",
		Price:         decimal.NewFromInt(4),
		StockQuantity: 1,
	})

	err := h.service.AddItem(context.Background(), 10, 2)

	assert.Error(t, err)
	assert.Equal(t, []string{"Insufficient stock"}, h.recorder.Messages())
	assert.Empty(t, h.server.CartSnapshot().Items)
}

func TestItemCount(t *testing.T) {
	t.Run("given logged out session should report zero without calling gateway", func(t *testing.T) {
		h := newHarness(t, false)

		count, err := h.service.ItemCount(context.Background())

		assert.NoError(t, err)
		assert.Zero(t, count)
		assert.Equal(t, 0, h.server.Calls("GET /cart"))
	})
	t.Run("given items should report total quantity across lines", func(t *testing.T) {
		h := newHarness(t, true)
		seedTwoLineCart(h.server)

		count, err := h.service.ItemCount(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 4, count)
	})
}
