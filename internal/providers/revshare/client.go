// internal/providers/revshare/client.go
package revshare

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Stats is the normalized reward-distribution snapshot. DataSource tags
// where the numbers came from: one of the JSON endpoints, the scraped
// landing page, or "error_fallback" when everything failed.
type Stats struct {
	TotalDistributed float64 `json:"total_distributed"`
	LastDistribution float64 `json:"last_distribution"`
	HolderCount      int64   `json:"holder_count"`
	DataSource       string  `json:"data_source"`
}

type Client interface {
	// FetchStats runs the cascade and never returns an error; the worst
	// case is the fixed default payload tagged error_fallback.
	FetchStats(ctx context.Context) *Stats
}

type HTTPClient struct {
	endpoints   []string
	landingPage string
	httpClient  *http.Client
}

func NewClient(endpoints []string, landingPage string) *HTTPClient {
	return &HTTPClient{
		endpoints:   endpoints,
		landingPage: landingPage,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Partner API revisions disagree on field names; probe each candidate
// path in order and take the first that resolves.
var (
	totalPaths  = []string{"totalDistributed", "total_distributed", "stats.totalDistributed", "data.total_distributed"}
	lastPaths   = []string{"lastDistribution", "last_distribution", "stats.lastDistribution", "data.last_distribution"}
	holderPaths = []string{"holders", "holderCount", "holder_count", "stats.holders", "data.holders"}
)

func (c *HTTPClient) FetchStats(ctx context.Context) *Stats {
	for _, endpoint := range c.endpoints {
		if stats := c.fetchJSON(ctx, endpoint); stats != nil {
			return stats
		}
	}

	if c.landingPage != "" {
		if stats := c.scrapeLandingPage(ctx); stats != nil {
			return stats
		}
	}

	return &Stats{DataSource: "error_fallback"}
}

func (c *HTTPClient) fetchJSON(ctx context.Context, endpoint string) *Stats {
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil
	}

	doc := string(body)
	if !gjson.Valid(doc) {
		return nil
	}

	total := probeFloat(doc, totalPaths)
	if total == nil {
		return nil
	}

	stats := &Stats{
		TotalDistributed: *total,
		DataSource:       endpoint,
	}
	if last := probeFloat(doc, lastPaths); last != nil {
		stats.LastDistribution = *last
	}
	if holders := probeFloat(doc, holderPaths); holders != nil {
		stats.HolderCount = int64(*holders)
	}
	return stats
}

func probeFloat(doc string, paths []string) *float64 {
	for _, path := range paths {
		if result := gjson.Get(doc, path); result.Exists() {
			v := result.Float()
			return &v
		}
	}
	return nil
}

var (
	embeddedJSONRe = regexp.MustCompile(`window\.__(?:DATA|STATE)__\s*=\s*(\{.*?\})\s*[;<]`)
	distributedRe  = regexp.MustCompile(`([\d,]+(?:\.\d+)?)\s*(?:SOL|tokens?)\s+distributed`)
)

func (c *HTTPClient) scrapeLandingPage(ctx context.Context) *Stats {
	body, err := c.get(ctx, c.landingPage)
	if err != nil {
		return nil
	}
	html := string(body)

	// Embedded JSON blob first
	if m := embeddedJSONRe.FindStringSubmatch(html); len(m) == 2 && gjson.Valid(m[1]) {
		if total := probeFloat(m[1], totalPaths); total != nil {
			stats := &Stats{
				TotalDistributed: *total,
				DataSource:       "landing_page_json",
			}
			if last := probeFloat(m[1], lastPaths); last != nil {
				stats.LastDistribution = *last
			}
			if holders := probeFloat(m[1], holderPaths); holders != nil {
				stats.HolderCount = int64(*holders)
			}
			return stats
		}
	}

	// Plain numeric pattern as a last resort
	if m := distributedRe.FindStringSubmatch(html); len(m) == 2 {
		raw := strings.ReplaceAll(m[1], ",", "")
		if total, err := strconv.ParseFloat(raw, 64); err == nil {
			return &Stats{
				TotalDistributed: total,
				DataSource:       "landing_page_scrape",
			}
		}
	}

	return nil
}

func (c *HTTPClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}
