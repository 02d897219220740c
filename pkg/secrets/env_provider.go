package secrets

import (
	"context"
	"fmt"
	"os"
)

// EnvProvider reads secrets from process environment variables, the local
// stand-in for a managed parameter store.
type EnvProvider struct{}

func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

func (p *EnvProvider) Get(_ context.Context, name string) (string, error) {
	value, ok := os.LookupEnv(name)
	if !ok || value == "" {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	return value, nil
}
