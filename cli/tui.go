package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/leadgen/auth"
	"github.com/harperreed/leadgen/tui"
)

// TUICommand runs the interactive dashboard.
func TUICommand(ctx context.Context, app *App, args []string) error {
	opts := tui.Options{OpenURL: auth.OpenURL}
	if app.Config.HasGoogleCredentials() {
		opts.IDTokenSource = func(ctx context.Context) (string, error) {
			// No Out writer: printing would corrupt the alt screen.
			flow := auth.NewGoogleFlow(app.Config.GoogleClientID, app.Config.GoogleClientSecret, nil)
			return flow.IDToken(ctx)
		}
	}

	model := tui.NewModel(ctx, app.Dashboard, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	stop := tui.WatchStore(app.Store, p.Send)
	defer stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
