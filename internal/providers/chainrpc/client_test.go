// internal/providers/chainrpc/client_test.go
package chainrpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rpcServer(t *testing.T, handler func(method string) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Write([]byte(handler(req.Method)))
	}))
}

func TestGetTokenBalanceSumsAccounts(t *testing.T) {
	server := rpcServer(t, func(method string) string {
		assert.Equal(t, "getTokenAccountsByOwner", method)
		return `{"result":{"value":[
			{"account":{"data":{"parsed":{"info":{"tokenAmount":{"uiAmount":1000000}}}}}},
			{"account":{"data":{"parsed":{"info":{"tokenAmount":{"uiAmount":250000.5}}}}}}
		]}}`
	})
	defer server.Close()

	client := NewClient(server.URL)
	balance, err := client.GetTokenBalance(context.Background(), "wallet-1", "mint-1")

	require.NoError(t, err)
	assert.Equal(t, 1250000.5, balance)
}

func TestGetTokenBalanceNoAccounts(t *testing.T) {
	server := rpcServer(t, func(string) string {
		return `{"result":{"value":[]}}`
	})
	defer server.Close()

	client := NewClient(server.URL)
	balance, err := client.GetTokenBalance(context.Background(), "wallet-1", "mint-1")

	require.NoError(t, err)
	assert.Equal(t, 0.0, balance)
}

func TestGetTokenBalanceRPCError(t *testing.T) {
	server := rpcServer(t, func(string) string {
		return `{"error":{"code":-32602,"message":"invalid params"}}`
	})
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.GetTokenBalance(context.Background(), "wallet-1", "mint-1")
	assert.ErrorContains(t, err, "invalid params")
}

func TestGetSignatureStatus(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"finalized", `{"result":{"value":[{"confirmationStatus":"finalized","err":null}]}}`, nil},
		{"confirmed", `{"result":{"value":[{"confirmationStatus":"confirmed","err":null}]}}`, nil},
		{"still processing", `{"result":{"value":[{"confirmationStatus":"processed","err":null}]}}`, ErrTransactionNotFound},
		{"unknown signature", `{"result":{"value":[null]}}`, ErrTransactionNotFound},
		{"failed on chain", `{"result":{"value":[{"confirmationStatus":"finalized","err":{"InstructionError":[0,"Custom"]}}]}}`, ErrTransactionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := rpcServer(t, func(method string) string {
				assert.Equal(t, "getSignatureStatuses", method)
				return tt.body
			})
			defer server.Close()

			client := NewClient(server.URL)
			err := client.GetSignatureStatus(context.Background(), "sig-1")

			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}
