package secrets

import (
	"context"
	"errors"
)

// ErrSecretNotFound is returned when a named secret has no value.
var ErrSecretNotFound = errors.New("secrets: secret not found")

// Provider resolves named secrets (API keys and the like). Implementations
// decide their own caching discipline; callers fetch once at construction
// time and never store secrets in config structs.
type Provider interface {
	Get(ctx context.Context, name string) (string, error)
}
