// internal/providers/aiimage/client_test.go
package aiimage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images/generate", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req imageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a fox in the rain", req.Prompt)

		w.Write([]byte(`{"data":{"url":"https://img.example/fox.png","width":1024,"height":1024}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	img, err := client.GenerateImage(context.Background(), "a fox in the rain")

	require.NoError(t, err)
	assert.Equal(t, "https://img.example/fox.png", img.URL)
	assert.Equal(t, 1024, img.Width)
}

func TestGenerateImageAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"prompt rejected"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	_, err := client.GenerateImage(context.Background(), "bad prompt")
	assert.ErrorContains(t, err, "prompt rejected")
}

func TestGenerateImageEmptyURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	_, err := client.GenerateImage(context.Background(), "anything")
	assert.ErrorContains(t, err, "no URL")
}

func TestGenerateImageWithoutAPIKey(t *testing.T) {
	client := NewClient("http://unused.test", "")
	_, err := client.GenerateImage(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestGenerateMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/metadata/generate", r.URL.Path)
		w.Write([]byte(`{"data":{
			"name":"Rain Fox",
			"description":"A fox caught in a downpour",
			"attributes":[{"trait_type":"Animal","value":"Fox"},{"trait_type":"Weather","value":"Rain"}],
			"nsfw":false
		}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	meta, err := client.GenerateMetadata(context.Background(), "a fox in the rain", "https://img.example/fox.png")

	require.NoError(t, err)
	assert.Equal(t, "Rain Fox", meta.Name)
	require.Len(t, meta.Attributes, 2)
	assert.Equal(t, "Animal", meta.Attributes[0].TraitType)
	assert.False(t, meta.NSFW)
}

func TestGenerateMetadataUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	_, err := client.GenerateMetadata(context.Background(), "p", "u")
	assert.ErrorContains(t, err, "status 503")
}
