package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Albert91/deck-builder/internal/logger"
)

const defaultBaseURL = "https://api.openai.com/v1"

// maxPromptLength matches the upstream prompt limit.
const maxPromptLength = 4000

// Client is a thin wrapper around the OpenAI images API. It performs no
// persistence and no retries: transient upstream failures surface
// immediately as typed errors.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

type ClientConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	// HTTPClient is optional; a client with a 60s timeout is used otherwise.
	HTTPClient *http.Client
}

// GenerateOptions tune a single generation call. Zero values fall back to
// the client defaults.
type GenerateOptions struct {
	N              int
	Size           string
	Style          string
	Quality        string
	ResponseFormat string
}

// Result carries the generated image plus the model and parameters used, so
// the caller can persist image metadata alongside the artwork.
type Result struct {
	ImageURL   string
	Base64Data string
	Model      string
	Created    int64
	Parameters map[string]string
}

type generateRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size,omitempty"`
	Style          string `json:"style,omitempty"`
	Quality        string `json:"quality,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
}

type generateResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, &AuthError{Message: "API key is required"}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "dall-e-3"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
	}, nil
}

func (c *Client) Model() string {
	return c.model
}

// GenerateImage calls the images endpoint and returns the first result.
func (c *Client) GenerateImage(ctx context.Context, prompt string, opts *GenerateOptions) (*Result, error) {
	if prompt == "" {
		return nil, &ValidationError{Message: "prompt is required"}
	}
	if len(prompt) > maxPromptLength {
		return nil, &ValidationError{Message: fmt.Sprintf("prompt exceeds %d characters", maxPromptLength)}
	}

	if opts == nil {
		opts = &GenerateOptions{}
	}
	n := opts.N
	if n < 1 {
		n = 1
	}
	responseFormat := opts.ResponseFormat
	if responseFormat == "" {
		responseFormat = "url"
	}

	reqBody := generateRequest{
		Model:          c.model,
		Prompt:         prompt,
		N:              n,
		Size:           opts.Size,
		Style:          opts.Style,
		Quality:        opts.Quality,
		ResponseFormat: responseFormat,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to encode request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ServerError{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ServerError{Message: fmt.Sprintf("failed to read response: %v", err)}
	}

	if err := c.checkStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &ValidationError{Message: "invalid response from image API"}
	}
	if len(decoded.Data) == 0 {
		return nil, &ValidationError{Message: "response contains no image data"}
	}

	result := &Result{
		Model:   c.model,
		Created: decoded.Created,
		Parameters: map[string]string{
			"size":            orDefault(opts.Size, "1024x1024"),
			"quality":         orDefault(opts.Quality, "standard"),
			"response_format": responseFormat,
		},
	}
	if responseFormat == "b64_json" {
		result.Base64Data = decoded.Data[0].B64JSON
	} else {
		result.ImageURL = decoded.Data[0].URL
	}

	if result.ImageURL == "" && result.Base64Data == "" {
		return nil, &ValidationError{Message: "response is missing the image payload"}
	}

	return result, nil
}

func (c *Client) checkStatus(status int, body []byte) error {
	if status == http.StatusOK {
		return nil
	}

	message := upstreamMessage(body)
	logger.Warn("Image API returned an error",
		"status", status,
		"message", message)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthError{Message: "invalid API key or unauthorized access"}
	case status == http.StatusTooManyRequests:
		return &RateLimitError{Message: "rate limit exceeded"}
	case status >= 500:
		return &ServerError{Message: fmt.Sprintf("upstream error (status %d)", status)}
	default:
		return &Error{Message: fmt.Sprintf("API error (status %d): %s", status, message)}
	}
}

func upstreamMessage(body []byte) string {
	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Error != nil {
		return decoded.Error.Message
	}
	return "unknown error"
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
