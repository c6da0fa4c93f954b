package response

// Auth is the gateway's login response: the bearer token plus the identity
// the client stores in its session.
type Auth struct {
	Token    string   `json:"token"`
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}
