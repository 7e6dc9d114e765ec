package store

import (
	"context"
	"errors"
	"fmt"
)

// TokenKey is the fixed key the auth token is stored under.
const TokenKey = "auth_token"

// TokenStore persists the single auth token string.
type TokenStore struct {
	kv KV
}

// NewTokenStore returns a TokenStore over kv.
func NewTokenStore(kv KV) *TokenStore {
	return &TokenStore{kv: kv}
}

// Load returns the persisted token, or nil when none is stored.
func (s *TokenStore) Load(ctx context.Context) (*string, error) {
	v, err := s.kv.Get(ctx, TokenKey)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	return &v, nil
}

// Save persists value synchronously. A nil value removes the token.
func (s *TokenStore) Save(ctx context.Context, value *string) error {
	if value == nil {
		if err := s.kv.Delete(ctx, TokenKey); err != nil {
			return fmt.Errorf("clear token: %w", err)
		}
		return nil
	}
	if err := s.kv.Set(ctx, TokenKey, *value); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}
