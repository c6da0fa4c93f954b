package gateway

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/config"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/gateway/gatewaytest"
	"github.com/Alturino/storefront/internal/session"
)

func newTestClient(t *testing.T, loggedIn bool) (*gatewaytest.Server, *Client) {
	t.Helper()
	server := gatewaytest.NewServer(t)
	sess := session.New(config.Session{Path: filepath.Join(t.TempDir(), "session.json")})
	if loggedIn {
		err := sess.SetCredentials(gatewaytest.Token, session.User{ID: 1, Username: "ikita"})
		require.NoError(t, err)
	}
	return server, New(config.Gateway{BaseURL: server.URL, TimeoutSeconds: 5}, sess)
}

func TestAuthedCallWithoutSession(t *testing.T) {
	server, client := newTestClient(t, false)

	_, err := client.Cart(context.Background())

	assert.ErrorIs(t, err, inErrors.ErrNotAuthenticated)
	assert.Equal(t, 0, server.Calls("GET /cart"))
}

func TestOpenCallWithoutSession(t *testing.T) {
	server, client := newTestClient(t, false)

	products, err := client.Products(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, products)
	assert.Equal(t, 1, server.Calls("GET /products"))
}

func TestErrorBodyDecoding(t *testing.T) {
	server, client := newTestClient(t, true)
	server.Fail("GET /cart", http.StatusConflict, "Insufficient stock")

	_, err := client.Cart(context.Background())

	require.Error(t, err)
	gwErr := &Error{}
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusConflict, gwErr.StatusCode)
	assert.Equal(t, "Insufficient stock", gwErr.Message)
	assert.Equal(t, "Insufficient stock", MessageOrDefault(err, "fallback"))
}

func TestMessageOrDefaultFallback(t *testing.T) {
	assert.Equal(t, "fallback", MessageOrDefault(errors.New("dial tcp: refused"), "fallback"))
	assert.Equal(
		t,
		"fallback",
		MessageOrDefault(&Error{StatusCode: http.StatusBadGateway}, "fallback"),
	)
}
