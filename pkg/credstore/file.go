package credstore

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

// FileVersion is the current version of the store file format.
const FileVersion = 1

// scrypt parameters for interactive use.
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1

	saltSize  = 16
	keySize   = 32
	nonceSize = 24
)

// sealedFile is the on-disk format.
type sealedFile struct {
	// Version is the file format version.
	Version int `json:"version"`

	// SavedAt is when the file was last written.
	SavedAt time.Time `json:"saved_at"`

	Salt  []byte `json:"salt"`
	Nonce []byte `json:"nonce"`
	Box   []byte `json:"box"`
}

// FileStore is a Store sealed in a single file. Each operation reads and
// rewrites the whole file; the item set is small.
type FileStore struct {
	mu         sync.Mutex
	path       string
	passphrase []byte
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store at path. The file is created on first write.
func NewFileStore(path, passphrase string) (*FileStore, error) {
	if passphrase == "" {
		return nil, ErrNoPassphrase
	}
	return &FileStore{path: path, passphrase: []byte(passphrase)}, nil
}

// Path returns the store file path.
func (s *FileStore) Path() string { return s.path }

// GetItem implements Store.
func (s *FileStore) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

// SetItem implements Store.
func (s *FileStore) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	items[key] = value
	return s.save(items)
}

// DeleteItem implements Store.
func (s *FileStore) DeleteItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	return s.save(items)
}

// WalletLinkToken implements provisioning.CredentialStore.
func (s *FileStore) WalletLinkToken(ctx context.Context) (string, bool, error) {
	return walletLinkToken(ctx, s)
}

// OwnerAddress implements provisioning.CredentialStore.
func (s *FileStore) OwnerAddress(ctx context.Context) (string, bool, error) {
	return ownerAddress(ctx, s)
}

// Clear removes the store file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// load returns the items, or an empty map if the file doesn't exist.
func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credential store: %w", err)
	}

	var f sealedFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if f.Version != FileVersion || len(f.Salt) != saltSize || len(f.Nonce) != nonceSize {
		return nil, fmt.Errorf("%w: unsupported header", ErrCorrupt)
	}

	key, err := s.deriveKey(f.Salt)
	if err != nil {
		return nil, err
	}
	var nonce [nonceSize]byte
	copy(nonce[:], f.Nonce)

	plain, ok := secretbox.Open(nil, f.Box, &nonce, key)
	if !ok {
		return nil, ErrWrongPassphrase
	}

	items := map[string]string{}
	if err := json.Unmarshal(plain, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return items, nil
}

// save seals items under a fresh salt and nonce and replaces the file.
func (s *FileStore) save(items map[string]string) error {
	plain, err := json.Marshal(items)
	if err != nil {
		return err
	}

	f := sealedFile{
		Version: FileVersion,
		SavedAt: time.Now().UTC(),
		Salt:    make([]byte, saltSize),
		Nonce:   make([]byte, nonceSize),
	}
	if _, err := rand.Read(f.Salt); err != nil {
		return err
	}
	if _, err := rand.Read(f.Nonce); err != nil {
		return err
	}

	key, err := s.deriveKey(f.Salt)
	if err != nil {
		return err
	}
	var nonce [nonceSize]byte
	copy(nonce[:], f.Nonce)
	f.Box = secretbox.Seal(nil, plain, &nonce, key)

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}

	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) deriveKey(salt []byte) (*[keySize]byte, error) {
	k, err := scrypt.Key(s.passphrase, salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	var key [keySize]byte
	copy(key[:], k)
	return &key, nil
}
