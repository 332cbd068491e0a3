package api

import (
	"context"
	"net/http"
)

// LoginGoogle exchanges a Google ID token for a backend session cookie.
func (c *Client) LoginGoogle(ctx context.Context, idToken string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, pathAuthGoogle, nil, googleLoginRequest{IDToken: idToken}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the user bound to the current session cookie. A missing or
// expired session surfaces as a 401 *Error.
func (c *Client) Me(ctx context.Context) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodGet, pathAuthMe, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.doJSON(ctx, http.MethodPost, pathAuthLogout, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
