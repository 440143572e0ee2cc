package gateway

import (
	"context"
	"net/http"
)

// LoginResult is the payload the management API returns on successful admin
// login. The token is the bearer credential for every subsequent call.
type LoginResult struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login authenticates an admin against the management API. The call needs no
// session: failures are reported through the returned error's message, which
// the login screen renders inline.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	err := c.Do(ctx, call{
		method: http.MethodPost,
		path:   EndpointAdminLogin,
		body: map[string]any{
			"email":    email,
			"password": password,
		},
		fallback: "Invalid email or password",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
