// ABOUTME: MCP prompt templates for common prospecting workflows
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GetPrompt generates the prompt message based on the template
func (h *Handlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	args := request.Params.Arguments
	switch request.Params.Name {
	case "build-prospect-list":
		return buildProspectListPrompt(args)
	case "outreach-email":
		return outreachEmailPrompt(args)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func buildProspectListPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	businessType := strings.TrimSpace(args["business_type"])
	location := strings.TrimSpace(args["location"])
	if businessType == "" || location == "" {
		return nil, fmt.Errorf("business_type and location are required")
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("Build a prospect list of %s in %s.\n", businessType, location))
	text.WriteString("\n1. Call search_businesses with a natural language query and find_emails set to true")
	text.WriteString("\n2. Call check_crm_connection to confirm the CRM is connected")
	text.WriteString("\n3. For each result with an email, call create_lead with the business details")
	text.WriteString("\n4. Summarize which businesses were added and which had no email")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Prospect list: %s in %s", businessType, location),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text.String()},
			},
		},
	}, nil
}

func outreachEmailPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	name := strings.TrimSpace(args["business_name"])
	if name == "" {
		return nil, fmt.Errorf("business_name is required")
	}
	website := strings.TrimSpace(args["website"])

	var text strings.Builder
	text.WriteString(fmt.Sprintf("Draft a short first-touch outreach email to %s.\n", name))
	if website != "" {
		text.WriteString(fmt.Sprintf("\nFirst call enrich_business for %s to find who to address.\n", website))
	}
	text.WriteString("\nKeep it under 120 words, reference something specific about the business, and end with one clear question.")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Outreach email for %s", name),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text.String()},
			},
		},
	}, nil
}
