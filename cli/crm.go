// ABOUTME: CRM CLI commands
// ABOUTME: Connection status, connecting with a token, and writing leads, deals, and contact lookups
package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/leadgen/models"
)

// selectAndCheck switches to provider (when given) and asks the backend
// whether it is connected. Connection state is not persisted between runs.
func selectAndCheck(ctx context.Context, app *App, provider string) error {
	if provider != "" {
		p, err := models.ParseProvider(provider)
		if err != nil {
			return err
		}
		app.Dashboard.SelectProvider(p)
	}
	_, err := app.Dashboard.CheckConnection(ctx)
	if err != nil {
		return app.result(err)
	}
	return nil
}

func providerFlag(fs *flag.FlagSet) *string {
	return fs.String("provider", models.DefaultProvider.String(), "CRM provider (hubspot, zoho, salesforce)")
}

// CRMStatusCommand reports whether the provider is connected.
func CRMStatusCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(app.Out)
	provider := providerFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := selectAndCheck(ctx, app, *provider); err != nil {
		return err
	}
	return app.result(nil)
}

// CRMConnectCommand stores CRM credentials in the backend.
func CRMConnectCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("connect", flag.ContinueOnError)
	fs.SetOutput(app.Out)
	provider := providerFlag(fs)
	token := fs.String("token", "", "Access token (prompted when omitted)")
	clientID := fs.String("client-id", "", "OAuth client ID")
	clientSecret := fs.String("client-secret", "", "OAuth client secret")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := models.ParseProvider(*provider)
	if err != nil {
		return err
	}
	app.Dashboard.SelectProvider(p)

	accessToken := *token
	if accessToken == "" {
		accessToken, err = app.readSecret("Access token")
		if err != nil {
			return err
		}
	}

	return app.result(app.Dashboard.Connect(ctx, accessToken, *clientID, *clientSecret))
}

func leadFlags(fs *flag.FlagSet) func() models.Lead {
	email := fs.String("email", "", "Email address (required)")
	first := fs.String("first", "", "First name")
	last := fs.String("last", "", "Last name")
	phone := fs.String("phone", "", "Phone number")
	company := fs.String("company", "", "Company name")
	website := fs.String("website", "", "Company website")
	address := fs.String("address", "", "Street address")
	city := fs.String("city", "", "City")
	return func() models.Lead {
		return models.Lead{
			Email:     *email,
			FirstName: *first,
			LastName:  *last,
			Phone:     *phone,
			Company:   *company,
			Website:   *website,
			Address:   *address,
			City:      *city,
		}
	}
}

// AddLeadCommand creates a contact in the CRM.
func AddLeadCommand(ctx context.Context, app *App, args []string) error {
	return writeLeadCommand(ctx, app, "add-lead", args, false)
}

// UpsertLeadCommand creates the contact or updates it when the email exists.
func UpsertLeadCommand(ctx context.Context, app *App, args []string) error {
	return writeLeadCommand(ctx, app, "upsert-lead", args, true)
}

func writeLeadCommand(ctx context.Context, app *App, name string, args []string, upsert bool) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(app.Out)
	provider := providerFlag(fs)
	lead := leadFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := selectAndCheck(ctx, app, *provider); err != nil {
		return err
	}

	write := app.Dashboard.CreateLead
	if upsert {
		write = app.Dashboard.UpsertLead
	}
	resp, err := write(ctx, lead())
	if err := app.result(err); err != nil {
		return err
	}
	if resp.ContactID != "" {
		fmt.Fprintf(app.Out, "  Contact ID: %s\n", resp.ContactID)
	}
	return nil
}

// AddDealCommand creates a deal in the CRM.
func AddDealCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("add-deal", flag.ContinueOnError)
	fs.SetOutput(app.Out)
	provider := providerFlag(fs)
	name := fs.String("name", "", "Deal name (required)")
	stage := fs.String("stage", models.DefaultDealStage, "Pipeline stage")
	amount := fs.String("amount", "", "Deal amount")
	description := fs.String("description", "", "Description")
	contactID := fs.String("contact-id", "", "CRM contact to associate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := selectAndCheck(ctx, app, *provider); err != nil {
		return err
	}

	resp, err := app.Dashboard.CreateDeal(ctx, models.Deal{
		DealName:    *name,
		DealStage:   *stage,
		Amount:      *amount,
		Description: *description,
		ContactID:   *contactID,
	})
	if err := app.result(err); err != nil {
		return err
	}
	if resp.DealID != "" {
		fmt.Fprintf(app.Out, "  Deal ID: %s\n", resp.DealID)
	}
	return nil
}

// ContactsCommand searches contacts already in the CRM.
func ContactsCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("contacts", flag.ContinueOnError)
	fs.SetOutput(app.Out)
	provider := providerFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Validate the query before spending a status request on it.
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		_, err := app.Dashboard.SearchContacts(ctx, query)
		return app.result(err)
	}

	if err := selectAndCheck(ctx, app, *provider); err != nil {
		return err
	}

	contacts, err := app.Dashboard.SearchContacts(ctx, query)
	if err != nil {
		return app.result(err)
	}
	if len(contacts) == 0 {
		fmt.Fprintln(app.Out, "No contacts found")
		return nil
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEMAIL\tCOMPANY\tPHONE")
	fmt.Fprintln(w, "----\t-----\t-------\t-----")
	for _, c := range contacts {
		name := c.Name
		if name == "" {
			name = strings.TrimSpace(c.FirstName + " " + c.LastName)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", dash(name), dash(c.Email), dash(c.Company), dash(c.Phone))
	}
	_ = w.Flush()

	fmt.Fprintf(app.Out, "\nFound %d contact(s)\n", len(contacts))
	return nil
}
