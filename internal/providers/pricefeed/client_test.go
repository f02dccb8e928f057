// internal/providers/pricefeed/client_test.go
package pricefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTokenPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/price", r.URL.Path)
		assert.Equal(t, "mint-1", r.URL.Query().Get("ids"))
		w.Write([]byte(`{"data":{"mint-1":{"price":0.042,"priceChange24h":12.5,"marketCap":420000}}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	price, err := client.GetTokenPrice(context.Background(), "mint-1")

	require.NoError(t, err)
	assert.Equal(t, "mint-1", price.MintAddress)
	assert.Equal(t, 0.042, price.PriceUSD)
	assert.Equal(t, 12.5, price.Change24h)
	assert.Equal(t, 420000.0, price.MarketCap)
}

func TestGetTokenPriceUnknownMint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.GetTokenPrice(context.Background(), "mint-x")
	assert.ErrorIs(t, err, ErrPriceUnavailable)
}

func TestGetTokenPriceUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.GetTokenPrice(context.Background(), "mint-1")
	assert.ErrorContains(t, err, "status 429")
}
