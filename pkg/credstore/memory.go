package credstore

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]string)}
}

// GetItem implements Store.
func (s *MemoryStore) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

// SetItem implements Store.
func (s *MemoryStore) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.items[key] = value
	s.mu.Unlock()
	return nil
}

// DeleteItem implements Store.
func (s *MemoryStore) DeleteItem(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// WalletLinkToken implements provisioning.CredentialStore.
func (s *MemoryStore) WalletLinkToken(ctx context.Context) (string, bool, error) {
	return walletLinkToken(ctx, s)
}

// OwnerAddress implements provisioning.CredentialStore.
func (s *MemoryStore) OwnerAddress(ctx context.Context) (string, bool, error) {
	return ownerAddress(ctx, s)
}
