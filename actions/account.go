package actions

import (
	"context"

	"github.com/harperreed/leadgen/models"
	"github.com/harperreed/leadgen/store"
)

// Login signs in with a Google ID token.
func (d *Dashboard) Login(ctx context.Context, idToken string) error {
	return d.session.Login(ctx, idToken)
}

func (d *Dashboard) Logout(ctx context.Context) error {
	return d.session.Logout(ctx)
}

// RefreshCredits pulls the current balance from billing.
func (d *Dashboard) RefreshCredits(ctx context.Context) (int, error) {
	resp, err := d.gw.Credits(ctx)
	if err != nil {
		return 0, d.failed("credits", err, "Failed to load credits")
	}
	d.store.SetCredits(resp.Credits)
	return resp.Credits, nil
}

// Checkout starts a payment for a credit pack and returns the page to open.
func (d *Dashboard) Checkout(ctx context.Context, packID string) (string, error) {
	if _, ok := models.FindCreditPack(packID); !ok {
		return "", d.invalid("Unknown credit pack", store.SeverityError)
	}

	resp, err := d.gw.Checkout(ctx, packID)
	if err != nil {
		return "", d.failed("checkout", err, "Checkout failed")
	}
	if resp.URL == "" {
		return "", d.rejected("", "Stripe session missing URL")
	}
	return resp.URL, nil
}

// Checkout return states appended to the success and cancel URLs.
const (
	CheckoutSuccess = "success"
	CheckoutCancel  = "cancel"
)

// CheckoutReturn reports how a payment page was left.
func (d *Dashboard) CheckoutReturn(status string) {
	switch status {
	case CheckoutSuccess:
		d.store.SetMessage("Payment received. Credits will update shortly.", store.SeveritySuccess)
	case CheckoutCancel:
		d.store.SetMessage("Checkout canceled.", store.SeverityInfo)
	}
}
