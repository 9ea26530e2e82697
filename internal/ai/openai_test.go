package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)

	client, err := NewClient(ClientConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "dall-e-3",
	})
	if err != nil {
		server.Close()
		t.Fatal("Failed to create client:", err)
	}
	return client, server
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Errorf("Expected AuthError for missing key, got %v", err)
	}
}

func TestGenerateImageURL(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/generations" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Unexpected Authorization header %q", got)
		}

		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal("Failed to decode request:", err)
		}
		if req["model"] != "dall-e-3" {
			t.Errorf("Unexpected model %v", req["model"])
		}
		if req["prompt"] != "a dragon" {
			t.Errorf("Unexpected prompt %v", req["prompt"])
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"created": 1700000000,
			"data":    []map[string]string{{"url": "https://images.example.com/dragon.png"}},
		})
	})
	defer server.Close()

	result, err := client.GenerateImage(context.Background(), "a dragon", &GenerateOptions{Size: "1024x1024", Style: "vivid"})
	if err != nil {
		t.Fatal("Failed to generate image:", err)
	}

	if result.ImageURL != "https://images.example.com/dragon.png" {
		t.Errorf("Unexpected image URL %s", result.ImageURL)
	}
	if result.Model != "dall-e-3" {
		t.Errorf("Unexpected model %s", result.Model)
	}
	if result.Parameters["size"] != "1024x1024" {
		t.Errorf("Unexpected size parameter %v", result.Parameters)
	}
}

func TestGenerateImageBase64(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"created": 1700000000,
			"data":    []map[string]string{{"b64_json": "aGVsbG8="}},
		})
	})
	defer server.Close()

	result, err := client.GenerateImage(context.Background(), "a dragon", &GenerateOptions{ResponseFormat: "b64_json"})
	if err != nil {
		t.Fatal("Failed to generate image:", err)
	}
	if result.Base64Data != "aGVsbG8=" {
		t.Errorf("Unexpected payload %s", result.Base64Data)
	}
	if result.ImageURL != "" {
		t.Errorf("Expected no URL for b64 response, got %s", result.ImageURL)
	}
}

func TestGenerateImageAuthError(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "Incorrect API key provided"},
		})
	})
	defer server.Close()

	_, err := client.GenerateImage(context.Background(), "a dragon", nil)
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Errorf("Expected AuthError, got %v", err)
	}
}

func TestGenerateImageRateLimitError(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer server.Close()

	_, err := client.GenerateImage(context.Background(), "a dragon", nil)
	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		t.Errorf("Expected RateLimitError, got %v", err)
	}
}

func TestGenerateImageServerError(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := client.GenerateImage(context.Background(), "a dragon", nil)
	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Errorf("Expected ServerError, got %v", err)
	}
}

func TestGenerateImageEmptyData(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"created": 1700000000,
			"data":    []map[string]string{},
		})
	})
	defer server.Close()

	_, err := client.GenerateImage(context.Background(), "a dragon", nil)
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("Expected ValidationError for empty data, got %v", err)
	}
}

func TestGenerateImagePromptValidation(t *testing.T) {
	client, err := NewClient(ClientConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatal("Failed to create client:", err)
	}

	var valErr *ValidationError
	if _, err := client.GenerateImage(context.Background(), "", nil); !errors.As(err, &valErr) {
		t.Errorf("Expected ValidationError for empty prompt, got %v", err)
	}

	long := strings.Repeat("x", 4001)
	if _, err := client.GenerateImage(context.Background(), long, nil); !errors.As(err, &valErr) {
		t.Errorf("Expected ValidationError for overlong prompt, got %v", err)
	}
}
