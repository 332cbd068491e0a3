// ABOUTME: MCP resources exposing the dashboard state
// ABOUTME: Read-only views of the last search results and the current account
package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	ResultsURI = "leadgen://results"
	AccountURI = "leadgen://account"
)

type accountView struct {
	Provider  string `json:"provider"`
	Connected bool   `json:"connected"`
	SignedIn  bool   `json:"signed_in"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Credits   int    `json:"credits"`
}

// ReadResource handles resource read requests
func (h *Handlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	st := h.dash.Store().State()

	var v any
	switch uri {
	case ResultsURI:
		results := make([]BusinessOutput, 0, len(st.SearchResults))
		for _, b := range st.SearchResults {
			results = append(results, businessToOutput(b, ""))
		}
		v = map[string]any{"query": st.SearchQuery, "results": results}
	case AccountURI:
		acct := accountView{
			Provider:  st.Provider.String(),
			Connected: st.Connected,
			SignedIn:  st.Authenticated(),
			Credits:   st.Credits,
		}
		if st.User != nil {
			acct.Email = st.User.Email
			acct.Name = st.User.Name
		}
		v = acct
	default:
		return nil, fmt.Errorf("unknown resource: %s", uri)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
