package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
)

// DefaultImportFilename is used when the backend does not suggest one.
const DefaultImportFilename = "converted_businesses.json"

// SearchNatural runs a free-form business search such as "cafes in nyc".
func (c *Client) SearchNatural(ctx context.Context, query string, maxResults int) (*SearchResults, error) {
	params := url.Values{}
	params.Set("query", query)
	if maxResults > 0 {
		params.Set("max_results", strconv.Itoa(maxResults))
	}

	var out SearchResults
	if err := c.doJSON(ctx, http.MethodGet, pathSearchNatural, params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ImportFile uploads a provider export and returns the converted search
// results file produced by the backend.
func (c *Client) ImportFile(ctx context.Context, filename string, r io.Reader) (*ImportResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, &Error{Kind: KindEncode, Method: http.MethodPost, Path: pathImportUpload, Err: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, &Error{Kind: KindEncode, Method: http.MethodPost, Path: pathImportUpload, Err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &Error{Kind: KindEncode, Method: http.MethodPost, Path: pathImportUpload, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(pathImportUpload, nil), &buf)
	if err != nil {
		return nil, &Error{Kind: KindEncode, Method: http.MethodPost, Path: pathImportUpload, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.send(req, pathImportUpload)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Method: http.MethodPost, Path: pathImportUpload, Status: resp.StatusCode, Err: err}
	}

	result := &ImportResult{
		Raw:      raw,
		Filename: attachmentFilename(resp.Header.Get("Content-Disposition")),
	}
	if err := json.Unmarshal(raw, &result.Data); err != nil {
		return nil, &Error{Kind: KindDecode, Method: http.MethodPost, Path: pathImportUpload, Status: resp.StatusCode, Err: fmt.Errorf("converted file: %w", err)}
	}
	return result, nil
}

// attachmentFilename extracts the filename parameter of a Content-Disposition
// header, falling back to DefaultImportFilename.
func attachmentFilename(header string) string {
	if header == "" {
		return DefaultImportFilename
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return DefaultImportFilename
	}
	name := filepath.Base(params["filename"])
	if name == "" || name == "." || name == "/" {
		return DefaultImportFilename
	}
	return name
}
