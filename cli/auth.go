// ABOUTME: Account CLI commands
// ABOUTME: Google sign-in, sign-out, and showing the signed-in user
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/harperreed/leadgen/auth"
)

// ErrNoGoogleCredentials means interactive sign-in is not configured.
var ErrNoGoogleCredentials = errors.New("set LEADGEN_GOOGLE_CLIENT_ID and LEADGEN_GOOGLE_CLIENT_SECRET, or pass --id-token")

// AuthLoginCommand signs in with Google. The session cookie is saved so later
// commands start signed in.
func AuthLoginCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(app.Out)
	idToken := fs.String("id-token", "", "Google ID token to exchange (use - to read it from stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token := *idToken
	switch {
	case token == "-":
		var err error
		token, err = app.readSecret("ID token")
		if err != nil {
			return err
		}
	case token == "":
		var err error
		token, err = googleIDToken(ctx, app)
		if err != nil {
			return err
		}
	}

	if err := app.result(app.Dashboard.Login(ctx, token)); err != nil {
		return err
	}
	return printWhoami(app)
}

func googleIDToken(ctx context.Context, app *App) (string, error) {
	if !app.Config.HasGoogleCredentials() {
		return "", ErrNoGoogleCredentials
	}
	flow := auth.NewGoogleFlow(app.Config.GoogleClientID, app.Config.GoogleClientSecret, app.Out)
	token, err := flow.IDToken(ctx)
	if err != nil {
		return "", fmt.Errorf("google sign-in failed: %w", err)
	}
	return token, nil
}

// AuthLogoutCommand ends the session.
func AuthLogoutCommand(ctx context.Context, app *App, args []string) error {
	if !app.Store.State().Authenticated() {
		fmt.Fprintln(app.Out, "Not signed in")
		return nil
	}
	return app.result(app.Dashboard.Logout(ctx))
}

// WhoamiCommand prints the signed-in user.
func WhoamiCommand(ctx context.Context, app *App, args []string) error {
	return printWhoami(app)
}

func printWhoami(app *App) error {
	st := app.Store.State()
	if st.User == nil {
		fmt.Fprintln(app.Out, "Not signed in")
		return nil
	}
	fmt.Fprintf(app.Out, "Signed in as %s <%s>\n", st.User.Name, st.User.Email)
	fmt.Fprintf(app.Out, "  Credits: %d\n", st.Credits)
	return nil
}
