package api

import (
	"context"
	"net/http"
)

// Enrich extracts contacts for one business from its website.
func (c *Client) Enrich(ctx context.Context, req EnrichmentRequest) (*EnrichmentResponse, error) {
	var out EnrichmentResponse
	if err := c.doJSON(ctx, http.MethodPost, pathEnrich, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EnrichBatch(ctx context.Context, reqs []EnrichmentRequest) (*BatchEnrichmentResponse, error) {
	var out BatchEnrichmentResponse
	if err := c.doJSON(ctx, http.MethodPost, pathBatchEnrich, nil, batchEnrichmentRequest{Businesses: reqs}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EnrichmentHealth(ctx context.Context) (*EnrichmentHealth, error) {
	var out EnrichmentHealth
	if err := c.doJSON(ctx, http.MethodGet, pathEnrichmentHealth, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
