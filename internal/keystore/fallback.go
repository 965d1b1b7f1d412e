package keystore

import (
	"context"
	"errors"
	"fmt"

	"github.com/avocavo/nutrition-go/internal/logging"
	"github.com/avocavo/nutrition-go/internal/session"
)

// Fallback wraps a Store and degrades to the session file's plaintext
// api_key_fallback field whenever the wrapped store misbehaves. A diagnostic
// is logged each time the fallback engages.
//
// "Misbehaves" means any error other than ErrNotFound: an absent key is a
// normal answer, an unreachable keyring is not.
type Fallback struct {
	primary Store
	file    *session.FileStore
	log     logging.Logger
}

// NewFallback decorates primary with file-based degradation.
func NewFallback(primary Store, file *session.FileStore, log logging.Logger) *Fallback {
	if log == nil {
		log = logging.Discard()
	}
	return &Fallback{primary: primary, file: file, log: log}
}

func (f *Fallback) Set(ctx context.Context, email, apiKey string) error {
	err := f.primary.Set(ctx, email, apiKey)
	if err == nil {
		return nil
	}
	f.log.Warn(ctx, "secure key storage unavailable, writing fallback key to config file", "error", err)
	if ferr := f.file.SetFallbackKey(apiKey); ferr != nil {
		return fmt.Errorf("fallback key write: %w", ferr)
	}
	return nil
}

func (f *Fallback) Get(ctx context.Context, email string) (string, error) {
	v, err := f.primary.Get(ctx, email)
	if err == nil {
		return v, nil
	}
	if errors.Is(err, ErrNotFound) {
		return "", ErrNotFound
	}
	f.log.Warn(ctx, "secure key storage unavailable, reading fallback key from config file", "error", err)
	if key := f.file.FallbackKey(); key != "" {
		return key, nil
	}
	return "", ErrNotFound
}

func (f *Fallback) Delete(ctx context.Context, email string) error {
	return f.primary.Delete(ctx, email)
}
