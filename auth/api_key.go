package auth

import (
	"context"
	"net/http"
)

// APIKeyStrategy authenticates with a static API key.
//
// Keys are issued per project in the KaiwaDB console and do not expire.
type APIKeyStrategy struct {
	key string
}

// NewAPIKeyStrategy creates a strategy around a key supplied directly.
func NewAPIKeyStrategy(key string) *APIKeyStrategy {
	return &APIKeyStrategy{key: key}
}

// Key returns the configured key.
func (s *APIKeyStrategy) Key(ctx context.Context) (string, error) {
	return s.key, nil
}

// Apply sets the Authorization header.
func (s *APIKeyStrategy) Apply(req *http.Request, key string) {
	req.Header.Set("Authorization", "Bearer "+key)
}
