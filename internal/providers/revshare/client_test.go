// internal/providers/revshare/client_test.go
package revshare

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func jsonServer(body string, status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestFetchStatsFirstEndpointWins(t *testing.T) {
	first := jsonServer(`{"totalDistributed":1234.5,"lastDistribution":56.7,"holders":890}`, http.StatusOK)
	defer first.Close()
	second := jsonServer(`{"totalDistributed":1}`, http.StatusOK)
	defer second.Close()

	client := NewClient([]string{first.URL, second.URL}, "")
	stats := client.FetchStats(context.Background())

	assert.Equal(t, 1234.5, stats.TotalDistributed)
	assert.Equal(t, 56.7, stats.LastDistribution)
	assert.Equal(t, int64(890), stats.HolderCount)
	assert.Equal(t, first.URL, stats.DataSource)
}

func TestFetchStatsFieldNameVariants(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"snake_case", `{"total_distributed":100,"last_distribution":5,"holder_count":10}`},
		{"nested stats", `{"stats":{"totalDistributed":100,"lastDistribution":5,"holders":10}}`},
		{"data wrapper", `{"data":{"total_distributed":100,"last_distribution":5,"holders":10}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := jsonServer(tt.body, http.StatusOK)
			defer server.Close()

			client := NewClient([]string{server.URL}, "")
			stats := client.FetchStats(context.Background())

			assert.Equal(t, 100.0, stats.TotalDistributed)
			assert.Equal(t, 5.0, stats.LastDistribution)
			assert.Equal(t, int64(10), stats.HolderCount)
		})
	}
}

func TestFetchStatsFallsThroughToSecondEndpoint(t *testing.T) {
	broken := jsonServer(`upstream exploded`, http.StatusInternalServerError)
	defer broken.Close()
	working := jsonServer(`{"totalDistributed":77}`, http.StatusOK)
	defer working.Close()

	client := NewClient([]string{broken.URL, working.URL}, "")
	stats := client.FetchStats(context.Background())

	assert.Equal(t, 77.0, stats.TotalDistributed)
	assert.Equal(t, working.URL, stats.DataSource)
}

func TestFetchStatsSkipsJSONWithoutTotal(t *testing.T) {
	// Valid JSON with no recognizable total must not be mistaken for data.
	incomplete := jsonServer(`{"holders":42}`, http.StatusOK)
	defer incomplete.Close()
	working := jsonServer(`{"total_distributed":9.5}`, http.StatusOK)
	defer working.Close()

	client := NewClient([]string{incomplete.URL, working.URL}, "")
	stats := client.FetchStats(context.Background())

	assert.Equal(t, 9.5, stats.TotalDistributed)
}

func TestFetchStatsLandingPageEmbeddedJSON(t *testing.T) {
	page := jsonServer(`<html><script>window.__DATA__ = {"totalDistributed":500,"holders":12};</script></html>`, http.StatusOK)
	defer page.Close()

	client := NewClient(nil, page.URL)
	stats := client.FetchStats(context.Background())

	assert.Equal(t, 500.0, stats.TotalDistributed)
	assert.Equal(t, int64(12), stats.HolderCount)
	assert.Equal(t, "landing_page_json", stats.DataSource)
}

func TestFetchStatsLandingPageScrape(t *testing.T) {
	page := jsonServer(`<html><p>Over 1,234,567.89 SOL distributed to holders</p></html>`, http.StatusOK)
	defer page.Close()

	client := NewClient(nil, page.URL)
	stats := client.FetchStats(context.Background())

	assert.Equal(t, 1234567.89, stats.TotalDistributed)
	assert.Equal(t, "landing_page_scrape", stats.DataSource)
}

func TestFetchStatsAllSourcesFail(t *testing.T) {
	broken := jsonServer(`nope`, http.StatusBadGateway)
	defer broken.Close()

	client := NewClient([]string{broken.URL}, broken.URL)
	stats := client.FetchStats(context.Background())

	assert.Equal(t, "error_fallback", stats.DataSource)
	assert.Equal(t, 0.0, stats.TotalDistributed)
}
