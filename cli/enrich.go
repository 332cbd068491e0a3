package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"
)

// EnrichCommand extracts contacts from a business website.
func EnrichCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("enrich", flag.ContinueOnError)
	fs.SetOutput(app.Out)
	name := fs.String("name", "", "Business name (required)")
	website := fs.String("website", "", "Business website (required)")
	address := fs.String("address", "", "Street address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := app.Dashboard.Enrich(ctx, *name, *website, *address)
	if err := app.result(err); err != nil {
		return err
	}
	if len(resp.Contacts) == 0 {
		return nil
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTITLE\tEMAIL\tPHONE")
	fmt.Fprintln(w, "----\t-----\t-----\t-----")
	for _, c := range resp.Contacts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", dash(c.Name), dash(c.Title), dash(c.Email), dash(c.Phone))
	}
	_ = w.Flush()
	fmt.Fprintf(app.Out, "\nConfidence: %.0f%%\n", resp.Confidence*100)
	return nil
}
