// internal/providers/chainrpc/client.go
package chainrpc

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

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTransactionFailed   = errors.New("transaction failed on chain")
)

// Client talks to the chain's JSON-RPC endpoint.
type Client interface {
	// GetTokenBalance returns the wallet's balance of the given token
	// mint, in whole-token units.
	GetTokenBalance(ctx context.Context, wallet, mint string) (float64, error)
	// GetSignatureStatus checks whether a transaction signature is
	// confirmed. Returns ErrTransactionNotFound while still unknown.
	GetSignatureStatus(ctx context.Context, signature string) error
}

type HTTPClient struct {
	rpcURL     string
	httpClient *http.Client
}

func NewClient(rpcURL string) *HTTPClient {
	return &HTTPClient{
		rpcURL: rpcURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type tokenAccountsResponse struct {
	Result struct {
		Value []struct {
			Account struct {
				Data struct {
					Parsed struct {
						Info struct {
							TokenAmount struct {
								UIAmount float64 `json:"uiAmount"`
							} `json:"tokenAmount"`
						} `json:"info"`
					} `json:"parsed"`
				} `json:"data"`
			} `json:"account"`
		} `json:"value"`
	} `json:"result"`
	Error *rpcError `json:"error,omitempty"`
}

func (c *HTTPClient) GetTokenBalance(ctx context.Context, wallet, mint string) (float64, error) {
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "getTokenAccountsByOwner",
		Params: []interface{}{
			wallet,
			map[string]string{"mint": mint},
			map[string]string{"encoding": "jsonParsed"},
		},
	}

	var resp tokenAccountsResponse
	if err := c.call(ctx, req, &resp); err != nil {
		return 0, err
	}
	if resp.Error != nil {
		return 0, fmt.Errorf("RPC error %d: %s", resp.Error.Code, resp.Error.Message)
	}

	var total float64
	for _, v := range resp.Result.Value {
		total += v.Account.Data.Parsed.Info.TokenAmount.UIAmount
	}
	return total, nil
}

type signatureStatusResponse struct {
	Result struct {
		Value []*struct {
			ConfirmationStatus string      `json:"confirmationStatus"`
			Err                interface{} `json:"err"`
		} `json:"value"`
	} `json:"result"`
	Error *rpcError `json:"error,omitempty"`
}

func (c *HTTPClient) GetSignatureStatus(ctx context.Context, signature string) error {
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "getSignatureStatuses",
		Params: []interface{}{
			[]string{signature},
			map[string]bool{"searchTransactionHistory": true},
		},
	}

	var resp signatureStatusResponse
	if err := c.call(ctx, req, &resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("RPC error %d: %s", resp.Error.Code, resp.Error.Message)
	}

	if len(resp.Result.Value) == 0 || resp.Result.Value[0] == nil {
		return ErrTransactionNotFound
	}

	status := resp.Result.Value[0]
	if status.Err != nil {
		return ErrTransactionFailed
	}

	switch status.ConfirmationStatus {
	case "confirmed", "finalized":
		return nil
	default:
		return ErrTransactionNotFound
	}
}

func (c *HTTPClient) call(ctx context.Context, rpcReq rpcRequest, out interface{}) error {
	payload, err := json.Marshal(rpcReq)
	if err != nil {
		return fmt.Errorf("failed to marshal RPC request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call RPC endpoint: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read RPC response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("RPC endpoint returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal RPC response: %w", err)
	}

	return nil
}
