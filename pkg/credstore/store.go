package credstore

import (
	"context"
	"errors"

	"github.com/NebraLtd/maker-starter-app/pkg/provisioning"
)

// Item keys.
const (
	KeyWalletLinkToken = "walletLinkToken"
	KeyAddress         = "address"
)

// Store errors.
var (
	ErrWrongPassphrase = errors.New("credential store passphrase does not match")
	ErrCorrupt         = errors.New("credential store file is corrupt")
	ErrNoPassphrase    = errors.New("credential store passphrase is empty")
)

// Store is a key/value item store.
type Store interface {
	provisioning.CredentialStore

	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	DeleteItem(ctx context.Context, key string) error
}

// SaveLink stores a wallet link: the token and, when known, the owner
// address.
func SaveLink(ctx context.Context, s Store, token, address string) error {
	if err := s.SetItem(ctx, KeyWalletLinkToken, token); err != nil {
		return err
	}
	if address == "" {
		return s.DeleteItem(ctx, KeyAddress)
	}
	return s.SetItem(ctx, KeyAddress, address)
}

// ClearLink removes the stored wallet link.
func ClearLink(ctx context.Context, s Store) error {
	if err := s.DeleteItem(ctx, KeyWalletLinkToken); err != nil {
		return err
	}
	return s.DeleteItem(ctx, KeyAddress)
}

// getter is the part of Store the provisioning view needs.
type getter interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
}

func walletLinkToken(ctx context.Context, g getter) (string, bool, error) {
	v, ok, err := g.GetItem(ctx, KeyWalletLinkToken)
	if err != nil || !ok || v == "" {
		return "", false, err
	}
	return v, true, nil
}

func ownerAddress(ctx context.Context, g getter) (string, bool, error) {
	v, ok, err := g.GetItem(ctx, KeyAddress)
	if err != nil || !ok || v == "" {
		return "", false, err
	}
	return v, true, nil
}
