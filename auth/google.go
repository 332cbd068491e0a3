// ABOUTME: Google sign-in through a loopback OAuth redirect
// ABOUTME: Opens the browser, waits for the callback, and returns the ID token for the backend
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const callbackPath = "/oauth/callback"

// DefaultLoginTimeout bounds how long the flow waits for the browser.
const DefaultLoginTimeout = 5 * time.Minute

// ErrNoIDToken means Google answered without an id_token.
var ErrNoIDToken = errors.New("token response has no id_token")

type GoogleFlow struct {
	Config *oauth2.Config
	// OpenBrowser is called with the consent URL.
	OpenBrowser func(url string) error
	// Out receives the fallback instructions for a headless session.
	Out     io.Writer
	Timeout time.Duration
}

// NewGoogleFlow configures the sign-in scopes for the given OAuth client.
func NewGoogleFlow(clientID, clientSecret string, out io.Writer) *GoogleFlow {
	return &GoogleFlow{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		OpenBrowser: OpenURL,
		Out:         out,
		Timeout:     DefaultLoginTimeout,
	}
}

type callbackResult struct {
	code string
	err  error
}

// IDToken runs the consent flow and returns the Google ID token.
func (f *GoogleFlow) IDToken(ctx context.Context) (string, error) {
	if f.Config.ClientID == "" {
		return "", fmt.Errorf("google client ID is not configured (set LEADGEN_GOOGLE_CLIENT_ID)")
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to start callback listener: %w", err)
	}

	cfg := *f.Config
	cfg.RedirectURL = fmt.Sprintf("http://%s%s", listener.Addr().String(), callbackPath)

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	results := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var res callbackResult
		switch {
		case q.Get("state") != state:
			res.err = errors.New("state mismatch in OAuth callback")
		case q.Get("error") != "":
			res.err = fmt.Errorf("google denied sign-in: %s", q.Get("error"))
		case q.Get("code") == "":
			res.err = errors.New("no authorization code received")
		default:
			res.code = q.Get("code")
		}

		if res.err != nil {
			http.Error(w, "Sign-in failed. You can close this window.", http.StatusBadRequest)
		} else {
			_, _ = fmt.Fprint(w, "Signed in! You can close this window.")
		}
		select {
		case results <- res:
		default:
		}
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() { _ = server.Serve(listener) }()
	defer func() { _ = server.Close() }()

	authURL := cfg.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	if f.Out != nil {
		_, _ = fmt.Fprintf(f.Out, "Opening browser for Google sign-in...\n\nIf the browser doesn't open, visit this URL:\n%s\n\n", authURL)
	}
	if f.OpenBrowser != nil {
		_ = f.OpenBrowser(authURL)
	}

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultLoginTimeout
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var res callbackResult
	select {
	case res = <-results:
	case <-waitCtx.Done():
		return "", fmt.Errorf("sign-in was not completed: %w", waitCtx.Err())
	}
	if res.err != nil {
		return "", res.err
	}

	token, err := cfg.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return "", fmt.Errorf("failed to exchange code: %w", err)
	}
	return IDTokenFrom(token)
}

// IDTokenFrom pulls the OpenID Connect ID token out of an OAuth token.
func IDTokenFrom(token *oauth2.Token) (string, error) {
	if token == nil {
		return "", ErrNoIDToken
	}
	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		return "", ErrNoIDToken
	}
	return idToken, nil
}

// OpenURL attempts to open url in the default browser.
func OpenURL(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}

	return exec.Command(cmd, args...).Start()
}
