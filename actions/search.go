package actions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/harperreed/leadgen/models"
	"github.com/harperreed/leadgen/store"
)

// Search runs a natural language business search and stores the results.
func (d *Dashboard) Search(ctx context.Context, query string) ([]models.Business, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, d.invalid("Please enter a search query", store.SeverityWarning)
	}

	var results []models.Business
	err := d.track(func() error {
		d.store.SetSearchQuery(query)

		res, err := d.gw.SearchNatural(ctx, query, SearchResultLimit)
		if err != nil {
			return d.failed("search", err, "Search failed")
		}

		results = res.Results
		d.store.SetSearchResults(results)
		if len(results) > 0 {
			d.store.SetMessage(fmt.Sprintf("Found %d businesses", len(results)), store.SeveritySuccess)
		} else {
			d.store.SetMessage("No businesses found", store.SeverityInfo)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Searches spend credits; keep the balance current without bothering
	// the user if the refresh fails.
	if d.store.State().Authenticated() {
		if resp, err := d.gw.Credits(ctx); err == nil {
			d.store.SetCredits(resp.Credits)
		}
	}
	return results, nil
}

// ClearResults empties the result list and keeps the query.
func (d *Dashboard) ClearResults() {
	d.store.ClearSearchResults()
}

// ImportFile uploads a provider export, saves the converted file into outDir
// (the source file's directory when empty), and loads the results.
func (d *Dashboard) ImportFile(ctx context.Context, path, outDir string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", d.invalid("Please choose a file to import", store.SeverityWarning)
	}
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return "", d.invalid("Please choose a .json file", store.SeverityWarning)
	}

	var saved string
	err := d.track(func() error {
		f, err := os.Open(path)
		if err != nil {
			d.store.SetMessage(fmt.Sprintf("Cannot read %s", filepath.Base(path)), store.SeverityError)
			return fmt.Errorf("failed to open import file: %w", err)
		}
		defer func() { _ = f.Close() }()

		res, err := d.gw.ImportFile(ctx, path, f)
		if err != nil {
			return d.failed("import", err, "Import failed")
		}

		if outDir == "" {
			outDir = filepath.Dir(path)
		}
		saved = filepath.Join(outDir, res.Filename)
		if err := os.WriteFile(saved, res.Raw, 0600); err != nil {
			d.logger.Warn("failed to save converted file", zap.String("path", saved), zap.Error(err))
			d.store.SetMessage("Import succeeded but the converted file could not be saved", store.SeverityError)
			return fmt.Errorf("failed to save converted file: %w", err)
		}

		d.store.SetSearchResults(res.Data.Results)
		d.store.SetMessage(fmt.Sprintf("Imported %d businesses (saved to %s)", len(res.Data.Results), saved), store.SeveritySuccess)
		return nil
	})
	return saved, err
}
