// internal/providers/aiimage/client.go
package aiimage

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

// Attribute is one AI-derived trait suggestion.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// GeneratedImage is the normalized response of the image endpoint.
type GeneratedImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// GeneratedMetadata is the normalized response of the metadata endpoint.
type GeneratedMetadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Attributes  []Attribute `json:"attributes"`
	NSFW        bool        `json:"nsfw"`
}

// Client defines the AI generation API surface used by the backend.
type Client interface {
	// GenerateImage produces an image for a free-text prompt.
	GenerateImage(ctx context.Context, prompt string) (*GeneratedImage, error)
	// GenerateMetadata derives display metadata and attributes for an image.
	GenerateMetadata(ctx context.Context, prompt, imageURL string) (*GeneratedMetadata, error)
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
			Timeout: 60 * time.Second, // image generation is slow
		},
	}
}

type imageRequest struct {
	Prompt string `json:"prompt"`
}

type imageResponse struct {
	Data struct {
		URL    string `json:"url"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"data"`
	Error string `json:"error,omitempty"`
}

func (c *HTTPClient) GenerateImage(ctx context.Context, prompt string) (*GeneratedImage, error) {
	var resp imageResponse
	if err := c.post(ctx, "/v1/images/generate", imageRequest{Prompt: prompt}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("image API error: %s", resp.Error)
	}
	if resp.Data.URL == "" {
		return nil, errors.New("image API returned no URL")
	}

	return &GeneratedImage{
		URL:    resp.Data.URL,
		Width:  resp.Data.Width,
		Height: resp.Data.Height,
	}, nil
}

type metadataRequest struct {
	Prompt   string `json:"prompt"`
	ImageURL string `json:"image_url"`
}

type metadataResponse struct {
	Data struct {
		Name        string      `json:"name"`
		Description string      `json:"description"`
		Attributes  []Attribute `json:"attributes"`
		NSFW        bool        `json:"nsfw"`
	} `json:"data"`
	Error string `json:"error,omitempty"`
}

func (c *HTTPClient) GenerateMetadata(ctx context.Context, prompt, imageURL string) (*GeneratedMetadata, error) {
	var resp metadataResponse
	if err := c.post(ctx, "/v1/metadata/generate", metadataRequest{Prompt: prompt, ImageURL: imageURL}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("metadata API error: %s", resp.Error)
	}

	return &GeneratedMetadata{
		Name:        resp.Data.Name,
		Description: resp.Data.Description,
		Attributes:  resp.Data.Attributes,
		NSFW:        resp.Data.NSFW,
	}, nil
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
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call AI image API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("AI image API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
