package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/leadgen/models"
)

func TestSearchNatural(t *testing.T) {
	backend, c := newMockBackend(t)
	backend.SetBusinesses([]models.Business{
		{Name: "Cafe One", PlaceID: "p1", Types: []string{"cafe"}},
		{Name: "Cafe Two", PlaceID: "p2", Types: []string{"cafe"}},
		{Name: "Cafe Three", PlaceID: "p3", Types: []string{"cafe"}},
	})

	res, err := c.SearchNatural(context.Background(), "cafes in nyc", 5)
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalResults)
	require.Len(t, res.Results, 3)
	assert.Equal(t, "Cafe Two", res.Results[1].Name)
	assert.JSONEq(t, `{"query":"cafes in nyc","type":"natural_language"}`, string(res.Query))

	res, err = c.SearchNatural(context.Background(), "cafes in nyc", 2)
	require.NoError(t, err)
	assert.Len(t, res.Results, 2)
}

func TestSearchNaturalQueryEncoding(t *testing.T) {
	var got *http.Request
	c := newStubClient(t, func(req *http.Request) (*http.Response, error) {
		got = req
		return jsonResponse(http.StatusOK, `{"total_results":0,"results":[]}`), nil
	})

	res, err := c.SearchNatural(context.Background(), "bakeries & cafes", 0)
	require.NoError(t, err)
	assert.Empty(t, res.Results)

	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "bakeries & cafes", got.URL.Query().Get("query"))
	assert.False(t, got.URL.Query().Has("max_results"))
}

func TestSearchNaturalPassesUnknownFields(t *testing.T) {
	c := newStubClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"total_results":1,"results":[{"name":"X","place_id":"x","types":[],"rating":4.5,"user_ratings_total":10,"future_field":true}]}`), nil
	})

	res, err := c.SearchNatural(context.Background(), "x", 5)
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	require.NotNil(t, res.Results[0].Rating)
	assert.InDelta(t, 4.5, *res.Results[0].Rating, 0.0001)
	require.NotNil(t, res.Results[0].UserRatingTotal)
	assert.Equal(t, 10, *res.Results[0].UserRatingTotal)
}

func TestImportFile(t *testing.T) {
	_, c := newMockBackend(t)

	export := `[{"title":"Joe's Pizza","placeId":"abc","address":"7 Carmine St","website":"https://joespizza.example","phone":"555-0100","categoryName":"Pizza restaurant","totalScore":4.7,"reviewsCount":900,"location":{"lat":40.73,"lng":-74.0}}]`

	res, err := c.ImportFile(context.Background(), "/tmp/dataset_export.json", strings.NewReader(export))
	require.NoError(t, err)
	assert.Equal(t, "converted_businesses.json", res.Filename)
	assert.Equal(t, 1, res.Data.TotalResults)
	require.Len(t, res.Data.Results, 1)

	b := res.Data.Results[0]
	assert.Equal(t, "Joe's Pizza", b.Name)
	assert.Equal(t, "abc", b.PlaceID)
	assert.Equal(t, "Pizza restaurant", b.PrimaryType)
	assert.InDelta(t, 40.73, b.Latitude, 0.0001)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(res.Raw, &raw))
	assert.Contains(t, raw, "results")
}

func TestImportFileSendsMultipart(t *testing.T) {
	var (
		contentType string
		filename    string
		content     string
	)
	c := newStubClient(t, func(req *http.Request) (*http.Response, error) {
		contentType = req.Header.Get("Content-Type")
		file, header, err := req.FormFile("file")
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()
		data, _ := io.ReadAll(file)
		filename = header.Filename
		content = string(data)

		resp := jsonResponse(http.StatusOK, `{"total_results":0,"results":[]}`)
		resp.Header.Set("Content-Disposition", `attachment; filename="leads_2026.json"`)
		return resp, nil
	})

	res, err := c.ImportFile(context.Background(), "exports/items.json", strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(contentType, "multipart/form-data; boundary="))
	assert.Equal(t, "items.json", filename)
	assert.Equal(t, `[]`, content)
	assert.Equal(t, "leads_2026.json", res.Filename)
}

func TestImportFileRejected(t *testing.T) {
	_, c := newMockBackend(t)

	_, err := c.ImportFile(context.Background(), "notes.txt", strings.NewReader("hello"))
	require.Error(t, err)
	assert.Equal(t, "Please upload a .json file", DetailOr(err, "Import failed"))
}

func TestAttachmentFilename(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "", want: DefaultImportFilename},
		{header: "attachment", want: DefaultImportFilename},
		{header: "attachment; filename=converted.json", want: "converted.json"},
		{header: `attachment; filename="with space.json"`, want: "with space.json"},
		{header: `attachment; filename="../../etc/passwd"`, want: "passwd"},
		{header: "attachment; filename=", want: DefaultImportFilename},
		{header: ";;;", want: DefaultImportFilename},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, attachmentFilename(tt.header))
		})
	}
}
