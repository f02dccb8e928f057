// internal/providers/launchpad/launchpad_test.go
package launchpad

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendFees(t *testing.T) {
	bonding := NewBondingLauncher("http://b.test", "key", 0.25)
	amm := NewAMMLauncher("http://a.test", "key", 1.0)
	instant := NewInstantLauncher("http://i.test", "key", 2.0)

	// Flat fee ignores both amounts.
	assert.Equal(t, 0.25, bonding.Fee(1000, 1000))
	assert.Equal(t, 0.25, bonding.Fee(0, 0))

	// AMM keys off liquidity, instant off the initial buy.
	assert.Equal(t, 10.0, amm.Fee(1000, 50))
	assert.Equal(t, 1.0, instant.Fee(1000, 50))
}

func TestLaunchReturnsRequestID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/launch", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("X-API-KEY"))
		w.Write([]byte(`{"request_id":"launch-9"}`))
	}))
	defer server.Close()

	launcher := NewBondingLauncher(server.URL, "key", 0.25)
	id, err := launcher.Launch(context.Background(), &LaunchRequest{
		Name:          "Moon",
		Symbol:        "MOON",
		CreatorWallet: "wallet-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "launch-9", id)
}

func TestLaunchAcceptsInstantStyleID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"inst-3"}`))
	}))
	defer server.Close()

	launcher := NewInstantLauncher(server.URL, "key", 2.0)
	id, err := launcher.Launch(context.Background(), &LaunchRequest{Name: "Moon", Symbol: "MOON"})

	require.NoError(t, err)
	assert.Equal(t, "inst-3", id)
}

func TestStatusNormalization(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		want     LaunchState
		wantMint string
	}{
		{"mint_address field", `{"status":"succeeded","mint_address":"m1"}`, LaunchStateSucceeded, "m1"},
		{"mint field", `{"status":"confirmed","mint":"m2"}`, LaunchStateSucceeded, "m2"},
		{"token field", `{"status":"completed","token":"m3"}`, LaunchStateSucceeded, "m3"},
		{"failed", `{"status":"error","error":"rejected"}`, LaunchStateFailed, ""},
		{"pending", `{"status":"processing"}`, LaunchStatePending, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/launch/req-1", r.URL.Path)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			launcher := NewAMMLauncher(server.URL, "key", 1.0)
			status, err := launcher.Status(context.Background(), "req-1")

			require.NoError(t, err)
			assert.Equal(t, tt.want, status.State)
			assert.Equal(t, tt.wantMint, status.MintAddress)
		})
	}
}

func TestLaunchWithoutAPIKey(t *testing.T) {
	launcher := NewBondingLauncher("http://unused.test", "", 0.25)
	_, err := launcher.Launch(context.Background(), &LaunchRequest{Name: "Moon", Symbol: "MOON"})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}
