package handlers

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type GetCreditsInput struct{}

type GetCreditsOutput struct {
	SignedIn bool   `json:"signed_in"`
	Email    string `json:"email,omitempty"`
	Credits  int    `json:"credits"`
}

// GetCredits reports the signed-in account's balance. Signed out is not an
// error; the output says so.
func (h *Handlers) GetCredits(ctx context.Context, request *mcp.CallToolRequest, input GetCreditsInput) (*mcp.CallToolResult, GetCreditsOutput, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := h.dash.Store().State()
	if !st.Authenticated() {
		return nil, GetCreditsOutput{}, nil
	}

	credits, err := h.dash.RefreshCredits(ctx)
	if err != nil {
		return nil, GetCreditsOutput{}, h.toolError(err)
	}
	return nil, GetCreditsOutput{SignedIn: true, Email: st.User.Email, Credits: credits}, nil
}
