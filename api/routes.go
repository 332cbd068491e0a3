package api

import (
	"net/url"

	"github.com/harperreed/leadgen/models"
)

const (
	apiPrefix = "/api/v1"

	pathSearchNatural    = apiPrefix + "/search/natural"
	pathImportUpload     = apiPrefix + "/search/business/import/upload"
	pathEnrich           = apiPrefix + "/enrichment/enrich"
	pathBatchEnrich      = apiPrefix + "/enrichment/batch-enrich"
	pathEnrichmentHealth = apiPrefix + "/enrichment/health"
	pathAuthGoogle       = apiPrefix + "/auth/google"
	pathAuthMe           = apiPrefix + "/auth/me"
	pathAuthLogout       = apiPrefix + "/auth/logout"
	pathBillingCredits   = apiPrefix + "/billing/credits"
	pathBillingCheckout  = apiPrefix + "/billing/checkout"
)

// providerPath builds a CRM route such as /api/v1/hubspot/leads.
func providerPath(provider models.Provider, suffix string) string {
	return apiPrefix + "/" + url.PathEscape(string(provider)) + suffix
}
