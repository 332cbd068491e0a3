// ABOUTME: Billing CLI commands
// ABOUTME: Credit balance, credit pack checkout, and recording how checkout ended
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/harperreed/leadgen/actions"
	"github.com/harperreed/leadgen/auth"
	"github.com/harperreed/leadgen/models"
)

var errNotSignedIn = errors.New("not signed in; run 'leadgen auth login' first")

// CreditsCommand prints the current credit balance.
func CreditsCommand(ctx context.Context, app *App, args []string) error {
	if !app.Store.State().Authenticated() {
		return errNotSignedIn
	}
	credits, err := app.Dashboard.RefreshCredits(ctx)
	if err != nil {
		return app.result(err)
	}
	fmt.Fprintf(app.Out, "Credits: %d\n", credits)
	return nil
}

// CheckoutCommand starts a payment for a credit pack and opens it.
func CheckoutCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(app.Out)
	pack := fs.String("pack", models.PackStarter, "Credit pack (starter, growth, scale)")
	noBrowser := fs.Bool("no-browser", false, "Print the checkout link instead of opening it")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !app.Store.State().Authenticated() {
		return errNotSignedIn
	}

	url, err := app.Dashboard.Checkout(ctx, *pack)
	if err != nil {
		return app.result(err)
	}

	if !*noBrowser {
		if err := auth.OpenURL(url); err == nil {
			fmt.Fprintln(app.Out, "Opened checkout in your browser")
			return nil
		}
	}
	fmt.Fprintf(app.Out, "Complete your purchase at:\n  %s\n", url)
	return nil
}

// CheckoutReturnCommand records how a checkout page was left.
func CheckoutReturnCommand(ctx context.Context, app *App, args []string) error {
	if len(args) != 1 || (args[0] != actions.CheckoutSuccess && args[0] != actions.CheckoutCancel) {
		return fmt.Errorf("billing return requires %q or %q", actions.CheckoutSuccess, actions.CheckoutCancel)
	}
	app.Dashboard.CheckoutReturn(args[0])
	if err := app.result(nil); err != nil {
		return err
	}
	if args[0] == actions.CheckoutSuccess && app.Store.State().Authenticated() {
		credits, err := app.Dashboard.RefreshCredits(ctx)
		if err != nil {
			return app.result(err)
		}
		fmt.Fprintf(app.Out, "Credits: %d\n", credits)
	}
	return nil
}
