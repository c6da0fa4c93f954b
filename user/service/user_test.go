package service

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/gateway"
	"github.com/Alturino/storefront/internal/gateway/gatewaytest"
	"github.com/Alturino/storefront/internal/notify"
	"github.com/Alturino/storefront/internal/session"
	userRequest "github.com/Alturino/storefront/user/pkg/request"
)

func newTestService(t *testing.T) (*gatewaytest.Server, *UserService, *notify.Recorder, *session.Session) {
	t.Helper()
	server := gatewaytest.NewServer(t)
	sess := session.New(config.Session{Path: filepath.Join(t.TempDir(), "session.json")})
	client := gateway.New(config.Gateway{BaseURL: server.URL, TimeoutSeconds: 5}, sess)
	recorder := &notify.Recorder{}
	return server, NewUserService(client, sess, recorder), recorder, sess
}

func TestLogin(t *testing.T) {
	_, svc, recorder, sess := newTestService(t)

	auth, err := svc.Login(context.Background(), userRequest.Login{
		Username: "ikita",
		Password: "secret123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "ikita", auth.Username)
	assert.Equal(t, gatewaytest.Token, auth.Token)
	assert.True(t, sess.IsLoggedIn())
	assert.Equal(t, []string{"Login successful!"}, recorder.Messages())
}

func TestLoginValidation(t *testing.T) {
	tests := []struct {
		name  string
		param userRequest.Login
	}{
		{
			name:  "given empty username should reject before the gateway",
			param: userRequest.Login{Password: "secret123"},
		},
		{
			name:  "given empty password should reject before the gateway",
			param: userRequest.Login{Username: "ikita"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, svc, recorder, sess := newTestService(t)

			_, err := svc.Login(context.Background(), tt.param)

			assert.Error(t, err)
			assert.False(t, sess.IsLoggedIn())
			assert.Equal(t, []string{"Username and password are required"}, recorder.Messages())
			assert.Equal(t, 0, server.Calls("POST /auth/login"))
		})
	}
}

func TestLoginRejected(t *testing.T) {
	server, svc, recorder, sess := newTestService(t)
	server.Fail("POST /auth/login", http.StatusUnauthorized, "Bad credentials")

	_, err := svc.Login(context.Background(), userRequest.Login{
		Username: "ikita",
		Password: "wrong-password",
	})

	assert.Error(t, err)
	assert.False(t, sess.IsLoggedIn())
	assert.Equal(t, []string{"Bad credentials"}, recorder.Messages())
}

func TestRegister(t *testing.T) {
	_, svc, recorder, sess := newTestService(t)

	auth, err := svc.Register(context.Background(), userRequest.Register{
		Username: "ikita",
		Email:    "ikita@example.com",
		Password: "secret123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "ikita", auth.Username)
	assert.True(t, sess.IsLoggedIn())
	assert.Equal(t, []string{"Registration successful!"}, recorder.Messages())
}

func TestRegisterShortPassword(t *testing.T) {
	server, svc, recorder, _ := newTestService(t)

	_, err := svc.Register(context.Background(), userRequest.Register{
		Username: "ikita",
		Email:    "ikita@example.com",
		Password: "abc",
	})

	assert.Error(t, err)
	assert.Equal(t, []string{"Password must be at least 6 characters"}, recorder.Messages())
	assert.Equal(t, 0, server.Calls("POST /auth/register"))
}

func TestRegisterInvalidEmail(t *testing.T) {
	server, svc, recorder, _ := newTestService(t)

	_, err := svc.Register(context.Background(), userRequest.Register{
		Username: "ikita",
		Email:    "not-an-email",
		Password: "secret123",
	})

	assert.Error(t, err)
	assert.Equal(t, []string{"Registration failed"}, recorder.Messages())
	assert.Equal(t, 0, server.Calls("POST /auth/register"))
}

func TestLogout(t *testing.T) {
	_, svc, recorder, sess := newTestService(t)
	require.NoError(t, sess.SetCredentials(gatewaytest.Token, session.User{ID: 1, Username: "ikita"}))

	err := svc.Logout(context.Background())

	assert.NoError(t, err)
	assert.False(t, sess.IsLoggedIn())
	assert.Equal(t, []string{"Logged out"}, recorder.Messages())
}
