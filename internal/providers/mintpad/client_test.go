// internal/providers/mintpad/client_test.go
package mintpad

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintNFTSubmitsAndReturnsActionID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/nfts/mint", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))
		w.Write([]byte(`{"action_id":"act-42"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	actionID, err := client.MintNFT(context.Background(), &MintRequest{
		Name:        "Sunset",
		ImageURL:    "https://img.example/1.png",
		OwnerWallet: "wallet-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "act-42", actionID)
}

func TestMintNFTAcceptsLegacyRequestID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"request_id":"req-7"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	actionID, err := client.MintNFT(context.Background(), &MintRequest{Name: "x", OwnerWallet: "w"})

	require.NoError(t, err)
	assert.Equal(t, "req-7", actionID)
}

func TestMintNFTWithoutAPIKey(t *testing.T) {
	client := NewClient("http://unused.test", "")
	_, err := client.MintNFT(context.Background(), &MintRequest{Name: "x", OwnerWallet: "w"})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestGetStatusNormalization(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		want     ActionState
		wantMint string
		wantErr  string
	}{
		{
			name:     "succeeded with mint_address",
			body:     `{"status":"succeeded","mint_address":"mint-1"}`,
			want:     ActionStateSucceeded,
			wantMint: "mint-1",
		},
		{
			name:     "completed alias with token_address",
			body:     `{"status":"completed","token_address":"mint-2"}`,
			want:     ActionStateSucceeded,
			wantMint: "mint-2",
		},
		{
			name:     "legacy state field",
			body:     `{"state":"success","mint_address":"mint-3"}`,
			want:     ActionStateSucceeded,
			wantMint: "mint-3",
		},
		{
			name:    "failed with message fallback",
			body:    `{"status":"failed","message":"out of funds"}`,
			want:    ActionStateFailed,
			wantErr: "out of funds",
		},
		{
			name: "unknown status treated as pending",
			body: `{"status":"queued"}`,
			want: ActionStatePending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v2/actions/act-1", r.URL.Path)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, "secret")
			status, err := client.GetStatus(context.Background(), "act-1")

			require.NoError(t, err)
			assert.Equal(t, tt.want, status.State)
			assert.Equal(t, tt.wantMint, status.MintAddress)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, status.Error)
			}
		})
	}
}

func TestGetStatusUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	_, err := client.GetStatus(context.Background(), "act-1")
	assert.Error(t, err)
}
