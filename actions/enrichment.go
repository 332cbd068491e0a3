package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/leadgen/api"
	"github.com/harperreed/leadgen/store"
)

// Enrich extracts contacts for a single business website.
func (d *Dashboard) Enrich(ctx context.Context, name, website, address string) (*api.EnrichmentResponse, error) {
	name = strings.TrimSpace(name)
	website = strings.TrimSpace(website)
	if name == "" || website == "" {
		return nil, d.invalid("Business name and website are required", store.SeverityWarning)
	}

	var out *api.EnrichmentResponse
	err := d.track(func() error {
		resp, err := d.gw.Enrich(ctx, api.EnrichmentRequest{Name: name, Website: website, Address: strings.TrimSpace(address)})
		if err != nil {
			return d.failed("enrich", err, "Enrichment failed")
		}
		if resp.Status == "error" {
			return d.rejected("", fmt.Sprintf("Could not enrich %s", name))
		}
		out = resp
		d.store.SetMessage(fmt.Sprintf("Found %d contacts for %s", len(resp.Contacts), name), store.SeveritySuccess)
		return nil
	})
	return out, err
}

// EnrichResults enriches every stored search result that has a website and
// returns place ID -> first email found.
func (d *Dashboard) EnrichResults(ctx context.Context) (map[string]string, error) {
	results := d.store.State().SearchResults

	reqs := make([]api.EnrichmentRequest, 0, len(results))
	placeIDs := make([]string, 0, len(results))
	for _, b := range results {
		if b.Website == "" {
			continue
		}
		reqs = append(reqs, api.EnrichmentRequest{Name: b.Name, Website: b.Website, Address: b.FormattedAddress})
		placeIDs = append(placeIDs, b.PlaceID)
	}
	if len(reqs) == 0 {
		return nil, d.invalid("No results with a website to enrich", store.SeverityWarning)
	}

	emails := make(map[string]string)
	err := d.track(func() error {
		resp, err := d.gw.EnrichBatch(ctx, reqs)
		if err != nil {
			return d.failed("batch enrich", err, "Enrichment failed")
		}
		// results come back in request order
		for i, res := range resp.Results {
			if i >= len(placeIDs) {
				break
			}
			for _, c := range res.Contacts {
				if c.Email != "" {
					emails[placeIDs[i]] = c.Email
					break
				}
			}
		}
		d.store.SetMessage(fmt.Sprintf("Enriched %d of %d businesses", resp.Successful, resp.Total), store.SeveritySuccess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return emails, nil
}

// EnrichmentInfo reports the extraction model in use. Failures are ignored
// and yield nil.
func (d *Dashboard) EnrichmentInfo(ctx context.Context) *api.EnrichmentHealth {
	info, err := d.gw.EnrichmentHealth(ctx)
	if err != nil {
		return nil
	}
	return info
}
