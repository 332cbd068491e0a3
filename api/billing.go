package api

import (
	"context"
	"net/http"
)

func (c *Client) Credits(ctx context.Context) (*CreditsResponse, error) {
	var out CreditsResponse
	if err := c.doJSON(ctx, http.MethodGet, pathBillingCredits, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Checkout creates a payment session for a credit pack and returns its URL.
func (c *Client) Checkout(ctx context.Context, packID string) (*CheckoutResponse, error) {
	var out CheckoutResponse
	if err := c.doJSON(ctx, http.MethodPost, pathBillingCheckout, nil, checkoutRequest{PackID: packID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
