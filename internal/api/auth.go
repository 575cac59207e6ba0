package api

import (
	"context"
	"net/http"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (Token, error) {
	body := map[string]string{"email": email, "password": password}
	req, err := c.newRequest(ctx, http.MethodPost, "/login", body, "")
	if err != nil {
		return Token{}, err
	}
	var tok Token
	if err := c.do(req, &tok); err != nil {
		return Token{}, err
	}
	return tok, nil
}

// Register creates a new shopper account.
func (c *Client) Register(ctx context.Context, reg RegisterRequest) (User, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/register", reg, "")
	if err != nil {
		return User{}, err
	}
	var u User
	if err := c.do(req, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Me fetches the authenticated shopper profile; it pre-fills the
// checkout address form among other things.
func (c *Client) Me(ctx context.Context, token string) (User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/me", nil, token)
	if err != nil {
		return User{}, err
	}
	var u User
	if err := c.do(req, &u); err != nil {
		return User{}, err
	}
	return u, nil
}
