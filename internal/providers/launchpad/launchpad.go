// internal/providers/launchpad/launchpad.go
package launchpad

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lib/pq"
)

var ErrNoAPIKey = errors.New("no API key provided")

type LaunchState string

const (
	LaunchStatePending   LaunchState = "pending"
	LaunchStateSucceeded LaunchState = "succeeded"
	LaunchStateFailed    LaunchState = "failed"
)

// LaunchRequest carries everything a backend needs to create a token.
// TaxTier and DistributionMode are only honored by the bonding backend.
type LaunchRequest struct {
	Name             string         `json:"name"`
	Symbol           string         `json:"symbol"`
	Description      string         `json:"description"`
	ImageURL         string         `json:"image_url"`
	SocialLinks      pq.StringArray `json:"social_links,omitempty"`
	CreatorWallet    string         `json:"creator_wallet"`
	InitialBuy       float64        `json:"initial_buy"`
	Liquidity        float64        `json:"liquidity,omitempty"`
	TaxTier          string         `json:"tax_tier,omitempty"`
	DistributionMode string         `json:"distribution_mode,omitempty"`
}

// LaunchStatus is the normalized status of a launch job.
type LaunchStatus struct {
	State       LaunchState
	MintAddress string
	Error       string
}

// Launcher abstracts one token-launch backend.
type Launcher interface {
	// Name identifies the backend ("bonding", "amm", "instant").
	Name() string
	// Fee computes the platform fee for the given liquidity / initial buy.
	Fee(liquidity, initialBuy float64) float64
	// RequiresCustodialFunding reports whether the custodial wallet must be
	// funded before Launch is called.
	RequiresCustodialFunding() bool
	// Launch submits the token creation and returns a request id.
	Launch(ctx context.Context, req *LaunchRequest) (string, error)
	// Status checks an earlier Launch by request id.
	Status(ctx context.Context, requestID string) (*LaunchStatus, error)
}

// httpLauncher is the shared HTTP plumbing behind the three backends.
type httpLauncher struct {
	name       string
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func newHTTPLauncher(name, baseURL, apiKey string) httpLauncher {
	return httpLauncher{
		name:    name,
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (l *httpLauncher) Name() string {
	return l.name
}

type launchResponse struct {
	RequestID string `json:"request_id"`
	ID        string `json:"id"` // instant backend names it differently
	Error     string `json:"error,omitempty"`
}

func (l *httpLauncher) Launch(ctx context.Context, req *LaunchRequest) (string, error) {
	var resp launchResponse
	if err := l.post(ctx, "/launch", req, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("%s launcher error: %s", l.name, resp.Error)
	}

	id := resp.RequestID
	if id == "" {
		id = resp.ID
	}
	if id == "" {
		return "", fmt.Errorf("%s launcher returned no request id", l.name)
	}
	return id, nil
}

type launchStatusResponse struct {
	Status      string `json:"status"`
	Mint        string `json:"mint"`
	MintAddress string `json:"mint_address"`
	Token       string `json:"token"`
	Error       string `json:"error,omitempty"`
}

func (l *httpLauncher) Status(ctx context.Context, requestID string) (*LaunchStatus, error) {
	if l.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/launch/%s", l.baseURL, requestID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-KEY", l.apiKey)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s launcher: %w", l.name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s launcher returned status %d: %s", l.name, resp.StatusCode, string(respBody))
	}

	var sr launchStatusResponse
	if err := json.Unmarshal(respBody, &sr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status response: %w", err)
	}

	return sr.normalize(), nil
}

func (r *launchStatusResponse) normalize() *LaunchStatus {
	out := &LaunchStatus{Error: r.Error}

	// The backends disagree on the field carrying the mint address.
	switch {
	case r.MintAddress != "":
		out.MintAddress = r.MintAddress
	case r.Mint != "":
		out.MintAddress = r.Mint
	default:
		out.MintAddress = r.Token
	}

	switch r.Status {
	case "succeeded", "success", "completed", "confirmed":
		out.State = LaunchStateSucceeded
	case "failed", "error":
		out.State = LaunchStateFailed
	default:
		out.State = LaunchStatePending
	}
	return out
}

func (l *httpLauncher) post(ctx context.Context, path string, body, out interface{}) error {
	if l.apiKey == "" {
		return ErrNoAPIKey
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", l.apiKey)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s launcher: %w", l.name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%s launcher returned status %d: %s", l.name, resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
