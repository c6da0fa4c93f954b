package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Alturino/storefront/internal/config"
)

const RoleAdmin = "ROLE_ADMIN"

// User is the identity payload the gateway returns on login.
type User struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

type credentials struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// Session holds the bearer credential and identity for one storefront
// session, persisted to a local file between command invocations.
type Session struct {
	path   string
	loaded bool
	creds  credentials
}

func New(cfg config.Session) *Session {
	path := cfg.Path
	if after, found := strings.CutPrefix(path, "~/"); found {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, after)
		}
	}
	return &Session{path: path}
}

func (s *Session) load() {
	if s.loaded {
		return
	}
	s.loaded = true
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	_ = json.Unmarshal(raw, &s.creds)
}

func (s *Session) Token() string {
	s.load()
	return s.creds.Token
}

func (s *Session) User() *User {
	s.load()
	return s.creds.User
}

// SetCredentials stores the gateway-issued token and identity.
func (s *Session) SetCredentials(token string, user User) error {
	s.load()
	s.creds = credentials{Token: token, User: &user}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed creating session directory with error=%w", err)
	}
	raw, err := json.Marshal(s.creds)
	if err != nil {
		return fmt.Errorf("failed marshaling session with error=%w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("failed writing session file with error=%w", err)
	}
	return nil
}

// Clear forgets the stored credentials.
func (s *Session) Clear() error {
	s.loaded = true
	s.creds = credentials{}
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed removing session file with error=%w", err)
	}
	return nil
}

// IsLoggedIn reports whether a usable credential is present. The gateway is
// the authority on token validity; the only local check is the expiry claim,
// so an already-expired token does not trigger doomed requests.
func (s *Session) IsLoggedIn() bool {
	s.load()
	if s.creds.Token == "" {
		return false
	}
	claims := jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(s.creds.Token, &claims)
	if err != nil {
		// Opaque non-JWT tokens are passed through as-is.
		return true
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return false
	}
	return true
}

func (s *Session) IsAdmin() bool {
	s.load()
	return s.creds.User != nil && slices.Contains(s.creds.User.Roles, RoleAdmin)
}

// AuthHeader returns the Authorization header value for gateway calls.
func (s *Session) AuthHeader() string {
	s.load()
	if s.creds.Token == "" {
		return ""
	}
	return "Bearer " + s.creds.Token
}
