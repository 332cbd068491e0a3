// ABOUTME: Entry point for the leadgen client
// ABOUTME: Routes to the dashboard, MCP server, or one-shot CLI commands based on arguments
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/leadgen/cli"
	"github.com/harperreed/leadgen/config"
)

const version = "0.2.0"

type command func(ctx context.Context, app *cli.App, args []string) error

var crmCommands = map[string]command{
	"status":      cli.CRMStatusCommand,
	"connect":     cli.CRMConnectCommand,
	"add-lead":    cli.AddLeadCommand,
	"upsert-lead": cli.UpsertLeadCommand,
	"add-deal":    cli.AddDealCommand,
	"contacts":    cli.ContactsCommand,
}

var authCommands = map[string]command{
	"login":  cli.AuthLoginCommand,
	"logout": cli.AuthLogoutCommand,
	"whoami": cli.WhoamiCommand,
}

var billingCommands = map[string]command{
	"credits":  cli.CreditsCommand,
	"checkout": cli.CheckoutCommand,
	"return":   cli.CheckoutReturnCommand,
}

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	apiURL := flag.String("api-url", "", "Backend base URL (default: $LEADGEN_API_BASE_URL or http://localhost:8000)")
	storage := flag.String("storage", "", "Local storage backend: sqlite, badger, or charm")
	dataDir := flag.String("data-dir", "", "Data directory (default: ~/.local/share/leadgen)")
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		fmt.Printf("leadgen version %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if *apiURL != "" {
		cfg.APIBaseURL = *apiURL
	}
	if *storage != "" {
		cfg.StorageBackend = *storage
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// No command opens the dashboard.
	args := flag.Args()
	if len(args) == 0 {
		args = []string{"tui"}
	}

	run, rest, ok := route(args)
	if !ok {
		fmt.Printf("Unknown command: %s\n\n", joinArgs(args))
		printUsage()
		os.Exit(1)
	}
	if run == nil {
		printUsage()
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(cfg, "leadgen/"+version)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	// The dashboard runs its own bootstrap so it can show progress.
	if args[0] != "tui" {
		app.Bootstrap(ctx)
	}
	err = run(ctx, app, rest)
	if closeErr := app.Close(); closeErr != nil {
		log.Printf("warning: %v", closeErr)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// route resolves args to a command. A nil command with ok set means help.
func route(args []string) (command, []string, bool) {
	name, rest := args[0], args[1:]

	switch name {
	case "help", "-h", "--help":
		return nil, nil, true
	case "tui":
		return cli.TUICommand, rest, true
	case "mcp":
		return func(ctx context.Context, app *cli.App, _ []string) error {
			return cli.MCPCommand(ctx, app, version)
		}, rest, true
	case "search":
		return cli.SearchCommand, rest, true
	case "import":
		return cli.ImportCommand, rest, true
	case "enrich":
		return cli.EnrichCommand, rest, true
	case "crm":
		return sub(crmCommands, rest)
	case "auth":
		return sub(authCommands, rest)
	case "billing":
		return sub(billingCommands, rest)
	}
	return nil, nil, false
}

func sub(commands map[string]command, args []string) (command, []string, bool) {
	if len(args) == 0 {
		return nil, nil, false
	}
	cmd, ok := commands[args[0]]
	return cmd, args[1:], ok
}

func joinArgs(args []string) string {
	if len(args) > 2 {
		args = args[:2]
	}
	s := args[0]
	for _, a := range args[1:] {
		s += " " + a
	}
	return s
}

func printUsage() {
	fmt.Printf(`leadgen v%s - Find businesses, enrich them, and push them to your CRM

USAGE:
  leadgen [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --api-url <url>        Backend base URL (default: http://localhost:8000)
  --storage <backend>    Local storage: sqlite (default), badger, or charm
  --data-dir <path>      Data directory (default: ~/.local/share/leadgen)

COMMANDS:
  tui                    Interactive dashboard (default)
  mcp                    Start MCP server for Claude Desktop
  search                 Natural language business search
  import                 Convert a provider export file
  enrich                 Find contacts on a business website
  crm                    CRM connection, leads, deals, and contacts
  auth                   Sign in and out
  billing                Credits and checkout

SEARCH:
  leadgen search [flags] <query...>
    --emails                  Look up a contact email for each result
    --export                  Add results with an email to the CRM
    --provider <name>         CRM provider for --export
    --json                    Print results as JSON

  leadgen import [flags] <file.json>
    --out <dir>               Directory for the converted file

  leadgen enrich --name <name> --website <url> [--address <addr>]

CRM COMMANDS (all take --provider hubspot|zoho|salesforce):
  leadgen crm status        Check the connection
  leadgen crm connect       Connect with an access token
    --token <token>           Access token (prompted when omitted)
    --client-id <id>          OAuth client ID
    --client-secret <secret>  OAuth client secret

  leadgen crm add-lead      Create a contact
  leadgen crm upsert-lead   Create or update a contact by email
    --email <email>           Email address (required)
    --first, --last <name>    First and last name
    --phone <phone>           Phone number
    --company <name>          Company name
    --website <url>           Company website
    --address, --city         Location

  leadgen crm add-deal      Create a deal
    --name <name>             Deal name (required)
    --stage <stage>           Pipeline stage (default: negotiation)
    --amount <amount>         Deal amount
    --description <text>      Description
    --contact-id <id>         Associated CRM contact

  leadgen crm contacts <query>  Search CRM contacts by name or email

AUTH COMMANDS:
  leadgen auth login        Sign in with Google
    --id-token <token>        Exchange an existing ID token (- reads stdin)
  leadgen auth logout       Sign out
  leadgen auth whoami       Show the signed-in user

BILLING COMMANDS:
  leadgen billing credits   Show remaining credits
  leadgen billing checkout  Buy a credit pack
    --pack <id>               starter, growth, or scale (default: starter)
    --no-browser              Print the checkout link instead of opening it
  leadgen billing return success|cancel  Record how checkout ended

EXAMPLES:
  # Find cafes and push the ones with an email into HubSpot
  leadgen search --export coffee shops in Brooklyn

  # Connect Zoho, prompting for the token
  leadgen crm connect --provider zoho

  # Start MCP server for Claude Desktop
  leadgen mcp

`, version)
}
