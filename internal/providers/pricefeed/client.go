// internal/providers/pricefeed/client.go
package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrPriceUnavailable = errors.New("price unavailable")

// TokenPrice is the normalized aggregator quote for one token mint.
type TokenPrice struct {
	MintAddress string  `json:"mint_address"`
	PriceUSD    float64 `json:"price_usd"`
	Change24h   float64 `json:"change_24h"`
	MarketCap   float64 `json:"market_cap"`
}

type Client interface {
	GetTokenPrice(ctx context.Context, mint string) (*TokenPrice, error)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type priceResponse struct {
	Data map[string]struct {
		Price     float64 `json:"price"`
		Change24h float64 `json:"priceChange24h"`
		MarketCap float64 `json:"marketCap"`
	} `json:"data"`
}

func (c *HTTPClient) GetTokenPrice(ctx context.Context, mint string) (*TokenPrice, error) {
	url := fmt.Sprintf("%s/price?ids=%s", c.baseURL, mint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call price aggregator: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price aggregator returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var pr priceResponse
	if err := json.Unmarshal(respBody, &pr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal price response: %w", err)
	}

	quote, ok := pr.Data[mint]
	if !ok {
		return nil, ErrPriceUnavailable
	}

	return &TokenPrice{
		MintAddress: mint,
		PriceUSD:    quote.Price,
		Change24h:   quote.Change24h,
		MarketCap:   quote.MarketCap,
	}, nil
}
