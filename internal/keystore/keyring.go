package keystore

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Keyring is the Store backed by the OS credential facility.
type Keyring struct {
	service string
}

// NewKeyring returns a Keyring using the fixed Avocavo service name.
func NewKeyring() *Keyring {
	return &Keyring{service: ServiceName}
}

func (k *Keyring) Set(ctx context.Context, email, apiKey string) error {
	if err := keyring.Set(k.service, email, apiKey); err != nil {
		return fmt.Errorf("keyring set: %w", err)
	}
	return nil
}

func (k *Keyring) Get(ctx context.Context, email string) (string, error) {
	v, err := keyring.Get(k.service, email)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("keyring get: %w", err)
	}
	return v, nil
}

func (k *Keyring) Delete(ctx context.Context, email string) error {
	if err := keyring.Delete(k.service, email); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete: %w", err)
	}
	return nil
}
