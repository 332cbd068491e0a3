// ABOUTME: Search and import CLI commands
// ABOUTME: Natural language business search with optional email lookup and CRM export
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/leadgen/api"
	"github.com/harperreed/leadgen/models"
)

// SearchCommand runs a natural language search.
func SearchCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(app.Out)
	findEmails := fs.Bool("emails", false, "Look up a contact email for each result")
	export := fs.Bool("export", false, "Add results with an email to the CRM (implies --emails)")
	provider := fs.String("provider", "", "CRM provider for --export")
	asJSON := fs.Bool("json", false, "Print results as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	query := strings.Join(fs.Args(), " ")
	results, err := app.Dashboard.Search(ctx, query)
	if err != nil {
		return app.result(err)
	}

	var emails map[string]string
	if (*findEmails || *export) && len(results) > 0 {
		emails, err = app.Dashboard.EnrichResults(ctx)
		if err != nil {
			return app.result(err)
		}
	}

	if *asJSON {
		out := searchOutput{Results: results, Emails: emails}
		if *export && len(results) > 0 {
			// The JSON document is the only thing written, so a failed
			// export surfaces as the error instead of a status line.
			out.Export, err = exportResults(ctx, app, *provider, emails)
			if err != nil {
				return err
			}
		}
		enc := json.NewEncoder(app.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if err := app.result(nil); err != nil {
		return err
	}
	printBusinesses(app, results, emails)

	if *export && len(results) > 0 {
		if _, err := exportResults(ctx, app, *provider, emails); err != nil {
			return err
		}
		return app.result(nil)
	}
	return nil
}

type searchOutput struct {
	Results []models.Business       `json:"results"`
	Emails  map[string]string       `json:"emails,omitempty"`
	Export  *api.BatchLeadsResponse `json:"export,omitempty"`
}

func exportResults(ctx context.Context, app *App, provider string, emails map[string]string) (*api.BatchLeadsResponse, error) {
	if err := selectAndCheck(ctx, app, provider); err != nil {
		return nil, err
	}
	batch, err := app.Dashboard.CreateLeadsFromResults(ctx, emails)
	if err != nil {
		return nil, app.result(err)
	}
	return batch, nil
}

func printBusinesses(app *App, results []models.Business, emails map[string]string) {
	if len(results) == 0 {
		return
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	header := "NAME\tADDRESS\tPHONE\tWEBSITE\tRATING"
	if emails != nil {
		header += "\tEMAIL"
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)+20))

	for _, b := range results {
		rating := "-"
		if b.Rating != nil {
			rating = fmt.Sprintf("%.1f", *b.Rating)
		}
		line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s", b.Name, dash(b.FormattedAddress), dash(b.FormattedPhoneNumber), dash(b.Website), rating)
		if emails != nil {
			line += "\t" + dash(emails[b.PlaceID])
		}
		fmt.Fprintln(w, line)
	}
	_ = w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// ImportCommand converts a provider export file into the business format.
func ImportCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(app.Out)
	outDir := fs.String("out", "", "Directory for the converted file (default: next to the input)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("import requires exactly one file")
	}

	_, err := app.Dashboard.ImportFile(ctx, fs.Arg(0), *outDir)
	if err := app.result(err); err != nil {
		return err
	}
	printBusinesses(app, app.Store.State().SearchResults, nil)
	return nil
}
