package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/config"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	return New(config.Session{Path: filepath.Join(t.TempDir(), "session.json")})
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)
	return signed
}

func TestSessionEmpty(t *testing.T) {
	s := newSession(t)

	assert.False(t, s.IsLoggedIn())
	assert.False(t, s.IsAdmin())
	assert.Empty(t, s.AuthHeader())
	assert.Nil(t, s.User())
}

func TestSessionPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	first := New(config.Session{Path: path})
	user := User{ID: 7, Username: "alice", Email: "alice@example.com", Roles: []string{"ROLE_USER"}}
	require.NoError(t, first.SetCredentials("opaque-token", user))

	second := New(config.Session{Path: path})

	assert.True(t, second.IsLoggedIn())
	assert.Equal(t, "Bearer opaque-token", second.AuthHeader())
	require.NotNil(t, second.User())
	assert.Equal(t, "alice", second.User().Username)
	assert.False(t, second.IsAdmin())
}

func TestSessionAdminRole(t *testing.T) {
	s := newSession(t)
	user := User{ID: 1, Username: "root", Roles: []string{"ROLE_USER", RoleAdmin}}
	require.NoError(t, s.SetCredentials("opaque-token", user))

	assert.True(t, s.IsAdmin())
}

func TestSessionExpiredTokenIsNotLoggedIn(t *testing.T) {
	s := newSession(t)
	expired := signedToken(t, time.Now().Add(-time.Hour))
	require.NoError(t, s.SetCredentials(expired, User{ID: 1, Username: "alice"}))

	assert.False(t, s.IsLoggedIn())
}

func TestSessionValidTokenIsLoggedIn(t *testing.T) {
	s := newSession(t)
	valid := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, s.SetCredentials(valid, User{ID: 1, Username: "alice"}))

	assert.True(t, s.IsLoggedIn())
}

func TestSessionClear(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SetCredentials("opaque-token", User{ID: 1, Username: "alice"}))
	require.NoError(t, s.Clear())

	assert.False(t, s.IsLoggedIn())
	assert.Empty(t, s.AuthHeader())

	// Clearing an already-empty session is fine.
	assert.NoError(t, s.Clear())
}
