package ai

import "fmt"

// Error is the generic failure of the image generation API. The more
// specific types below cover the cases callers branch on.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("ai: %s", e.Message)
}

// AuthError means the configured API key was rejected upstream.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("ai: auth: %s", e.Message)
}

// RateLimitError maps upstream HTTP 429.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("ai: rate limit: %s", e.Message)
}

// ServerError maps upstream 5xx responses.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("ai: server: %s", e.Message)
}

// ValidationError covers both malformed input and well-formed upstream
// responses missing the expected image payload.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ai: validation: %s", e.Message)
}
