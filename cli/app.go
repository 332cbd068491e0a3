// ABOUTME: Wires configuration, storage, gateway, store, and session into one App
// ABOUTME: Every CLI command receives an App and prints to its Out writer
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/harperreed/leadgen/actions"
	"github.com/harperreed/leadgen/api"
	"github.com/harperreed/leadgen/config"
	"github.com/harperreed/leadgen/localstore"
	"github.com/harperreed/leadgen/logging"
	"github.com/harperreed/leadgen/session"
	"github.com/harperreed/leadgen/store"
)

type App struct {
	Config    *config.Config
	Logger    *logging.Logger
	Storage   localstore.Storage
	Client    *api.Client
	Store     *store.Store
	Session   *session.Manager
	Dashboard *actions.Dashboard

	Out io.Writer
	In  io.Reader
}

// NewApp opens the log file and local storage named by cfg and builds the
// rest of the client on top of them.
func NewApp(cfg *config.Config, userAgent string) (*App, error) {
	logger, err := logging.New(logging.Options{
		Level: cfg.LogLevel,
		Dev:   cfg.LogDev,
		Dir:   cfg.LogDir(),
		Name:  "leadgen",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	storage, err := localstore.Open(cfg)
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.StorageBackend, err)
	}

	app, err := Assemble(cfg, storage, logger, api.WithUserAgent(userAgent))
	if err != nil {
		_ = storage.Close()
		_ = logger.Close()
		return nil, err
	}
	return app, nil
}

// Assemble builds an App over already-open storage and logger.
func Assemble(cfg *config.Config, storage localstore.Storage, logger *logging.Logger, opts ...api.Option) (*App, error) {
	opts = append([]api.Option{api.WithTimeout(cfg.Timeout), api.WithLogger(logger.Logger)}, opts...)
	client, err := api.New(cfg.APIBaseURL, opts...)
	if err != nil {
		return nil, err
	}

	st, err := store.Load(storage, store.WithLogger(logger.Logger))
	if err != nil {
		return nil, err
	}

	sess := session.NewManager(client, st, storage, logger.Logger)
	return &App{
		Config:    cfg,
		Logger:    logger,
		Storage:   storage,
		Client:    client,
		Store:     st,
		Session:   sess,
		Dashboard: actions.New(client, st, sess, logger.Logger),
		Out:       os.Stdout,
		In:        os.Stdin,
	}, nil
}

// Close releases storage and flushes the log.
func (a *App) Close() error {
	var errs []error
	if err := a.Storage.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.Logger.Close(); err != nil && !isSyncNoise(err) {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// zap returns EINVAL/ENOTTY when syncing stderr; not worth reporting.
func isSyncNoise(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "invalid argument") || strings.Contains(msg, "inappropriate ioctl")
}

// Bootstrap restores the persisted session before a command runs.
func (a *App) Bootstrap(ctx context.Context) session.Outcome {
	outcome := a.Session.Bootstrap(ctx)
	a.Logger.Debug("session bootstrap", zap.Stringer("outcome", outcome))
	return outcome
}

// result turns the outcome of a dashboard action into CLI output. Success
// prints the notification; failure returns it as the error.
func (a *App) result(err error) error {
	n := a.Store.State().Notification
	if err != nil {
		if n != nil {
			return errors.New(n.Text)
		}
		return err
	}
	if n != nil {
		fmt.Fprintf(a.Out, "%s %s\n", severityMark(n.Severity), n.Text)
	}
	return nil
}

func severityMark(s store.Severity) string {
	switch s {
	case store.SeveritySuccess:
		return "✓"
	case store.SeverityError:
		return "✗"
	case store.SeverityWarning:
		return "!"
	}
	return "•"
}

// readSecret prompts for a value without echo when In is a terminal, and
// reads one line otherwise.
func (a *App) readSecret(label string) (string, error) {
	if f, ok := a.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(a.Out, "%s: ", label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.Out)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(a.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}
