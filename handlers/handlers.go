// ABOUTME: MCP tool handlers over the dashboard actions
// ABOUTME: Shared plumbing for turning dashboard notifications into tool errors and messages
package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/harperreed/leadgen/actions"
	"github.com/harperreed/leadgen/models"
)

// Handlers serializes tool calls; provider selection and the loading flag
// live in one shared store.
type Handlers struct {
	dash *actions.Dashboard
	mu   sync.Mutex
}

func New(dash *actions.Dashboard) *Handlers {
	return &Handlers{dash: dash}
}

// message returns the text of the latest notification, if any.
func (h *Handlers) message() string {
	if n := h.dash.Store().State().Notification; n != nil {
		return n.Text
	}
	return ""
}

// toolError prefers the user-facing notification over the raw error.
func (h *Handlers) toolError(err error) error {
	if msg := h.message(); msg != "" {
		return errors.New(msg)
	}
	return err
}

// useProvider selects provider (when given) and refreshes the connection
// state so CRM writes see the backend's view.
func (h *Handlers) useProvider(ctx context.Context, provider string) (models.Provider, error) {
	if provider != "" {
		p, err := models.ParseProvider(provider)
		if err != nil {
			return "", err
		}
		if p != h.dash.Store().State().Provider {
			h.dash.SelectProvider(p)
		}
	}
	if _, err := h.dash.CheckConnection(ctx); err != nil {
		return "", h.toolError(err)
	}
	return h.dash.Store().State().Provider, nil
}
