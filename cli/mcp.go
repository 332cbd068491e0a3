// ABOUTME: MCP server subcommand
// ABOUTME: Exposes search, enrichment, CRM, and billing as tools over stdio
package cli

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/harperreed/leadgen/handlers"
)

// NewMCPServer registers every tool, resource, and prompt.
func NewMCPServer(app *App, version string) *mcp.Server {
	h := handlers.New(app.Dashboard)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "leadgen",
		Version: version,
	}, nil)

	// Register tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_businesses",
		Description: "Find businesses with a natural language query, optionally looking up a contact email for each",
	}, h.SearchBusinesses)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "enrich_business",
		Description: "Extract contact people and emails from a business website",
	}, h.EnrichBusiness)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_crm_connection",
		Description: "Check whether a CRM provider (hubspot, zoho, salesforce) is connected",
	}, h.CheckCRMConnection)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_lead",
		Description: "Create a contact in the connected CRM, or update it when update is true",
	}, h.CreateLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_deal",
		Description: "Create a deal in the connected CRM",
	}, h.CreateDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_crm_contacts",
		Description: "Search contacts already stored in the connected CRM by name or email",
	}, h.SearchCRMContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_credits",
		Description: "Show the signed-in account and its remaining search credits",
	}, h.GetCredits)

	server.AddResource(&mcp.Resource{
		URI:         handlers.ResultsURI,
		Name:        "search-results",
		Description: "Businesses returned by the last search",
		MIMEType:    "application/json",
	}, h.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         handlers.AccountURI,
		Name:        "account",
		Description: "CRM provider, connection state, user, and credits",
		MIMEType:    "application/json",
	}, h.ReadResource)

	server.AddPrompt(&mcp.Prompt{
		Name:        "build-prospect-list",
		Description: "Search for businesses, find emails, and add them to the CRM",
		Arguments: []*mcp.PromptArgument{
			{Name: "business_type", Description: "Kind of business, e.g. bakeries", Required: true},
			{Name: "location", Description: "City or neighborhood", Required: true},
		},
	}, h.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "outreach-email",
		Description: "Draft a first-touch email to a business",
		Arguments: []*mcp.PromptArgument{
			{Name: "business_name", Description: "Business to write to", Required: true},
			{Name: "website", Description: "Website to enrich for a contact name"},
		},
	}, h.GetPrompt)

	return server
}

// MCPCommand starts the MCP server on stdio
func MCPCommand(ctx context.Context, app *App, version string) error {
	app.Logger.Info("starting MCP server", zap.String("version", version))
	return NewMCPServer(app, version).Run(ctx, &mcp.StdioTransport{})
}
