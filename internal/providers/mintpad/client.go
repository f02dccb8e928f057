// internal/providers/mintpad/client.go
package mintpad

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrNoAPIKey = errors.New("no API key provided")

// ActionState is the provider-reported state of an asynchronous job.
type ActionState string

const (
	ActionStatePending   ActionState = "pending"
	ActionStateSucceeded ActionState = "succeeded"
	ActionStateFailed    ActionState = "failed"
)

type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type MintRequest struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	ImageURL     string      `json:"image_url"`
	Attributes   []Attribute `json:"attributes,omitempty"`
	CollectionID string      `json:"collection_id,omitempty"`
	OwnerWallet  string      `json:"owner_wallet"`
}

type CollectionRequest struct {
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	ImageURL      string `json:"image_url"`
	SupplyCap     *int   `json:"supply_cap,omitempty"`
	Transferable  bool   `json:"transferable"`
	CreatorWallet string `json:"creator_wallet"`
}

// ActionStatus is the normalized status of a mint or collection job. The
// upstream reports the resulting address under several field names; the
// client normalizes them before anything else sees the payload.
type ActionStatus struct {
	State        ActionState
	MintAddress  string
	CollectionID string
	Error        string
}

type Client interface {
	MintNFT(ctx context.Context, req *MintRequest) (string, error)
	CreateCollection(ctx context.Context, req *CollectionRequest) (string, error)
	GetStatus(ctx context.Context, actionID string) (*ActionStatus, error)
}

type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type submitResponse struct {
	ActionID  string `json:"action_id"`
	RequestID string `json:"request_id"` // older API revisions
	Error     string `json:"error,omitempty"`
}

func (r *submitResponse) id() string {
	if r.ActionID != "" {
		return r.ActionID
	}
	return r.RequestID
}

func (c *HTTPClient) MintNFT(ctx context.Context, req *MintRequest) (string, error) {
	var resp submitResponse
	if err := c.post(ctx, "/v2/nfts/mint", req, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("mint provider error: %s", resp.Error)
	}
	if resp.id() == "" {
		return "", errors.New("mint provider returned no action id")
	}
	return resp.id(), nil
}

func (c *HTTPClient) CreateCollection(ctx context.Context, req *CollectionRequest) (string, error) {
	var resp submitResponse
	if err := c.post(ctx, "/v2/collections", req, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("mint provider error: %s", resp.Error)
	}
	if resp.id() == "" {
		return "", errors.New("mint provider returned no action id")
	}
	return resp.id(), nil
}

type statusResponse struct {
	Status       string `json:"status"`
	State        string `json:"state"` // older API revisions
	MintAddress  string `json:"mint_address"`
	TokenAddress string `json:"token_address"`
	CollectionID string `json:"collection_id"`
	Error        string `json:"error,omitempty"`
	Message      string `json:"message,omitempty"`
}

func (c *HTTPClient) GetStatus(ctx context.Context, actionID string) (*ActionStatus, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v2/actions/%s", c.baseURL, actionID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call mint provider: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mint provider returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var sr statusResponse
	if err := json.Unmarshal(respBody, &sr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status response: %w", err)
	}

	return sr.normalize(), nil
}

func (r *statusResponse) normalize() *ActionStatus {
	state := r.Status
	if state == "" {
		state = r.State
	}

	out := &ActionStatus{
		CollectionID: r.CollectionID,
		MintAddress:  r.MintAddress,
		Error:        r.Error,
	}
	if out.MintAddress == "" {
		out.MintAddress = r.TokenAddress
	}
	if out.Error == "" && r.Message != "" {
		out.Error = r.Message
	}

	switch state {
	case "succeeded", "success", "completed":
		out.State = ActionStateSucceeded
	case "failed", "error":
		out.State = ActionStateFailed
	default:
		out.State = ActionStatePending
	}
	return out
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out interface{}) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call mint provider: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("mint provider returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
