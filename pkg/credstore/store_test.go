package credstore

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyPassphrase", func(t *testing.T) {
		if _, err := NewFileStore(filepath.Join(t.TempDir(), "c.json"), ""); !errors.Is(err, ErrNoPassphrase) {
			t.Fatalf("NewFileStore() error = %v, want ErrNoPassphrase", err)
		}
	})

	t.Run("GetFromMissingFile", func(t *testing.T) {
		s, _ := NewFileStore(filepath.Join(t.TempDir(), "c.json"), "pw")
		_, ok, err := s.GetItem(ctx, KeyAddress)
		if err != nil || ok {
			t.Fatalf("GetItem() = ok %v err %v, want absent", ok, err)
		}
	})

	t.Run("SetGetDelete", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "c.json")
		s, _ := NewFileStore(path, "pw")

		if err := s.SetItem(ctx, KeyAddress, "13owner"); err != nil {
			t.Fatalf("SetItem() error = %v", err)
		}
		got, ok, err := s.GetItem(ctx, KeyAddress)
		if err != nil || !ok || got != "13owner" {
			t.Fatalf("GetItem() = %q %v %v", got, ok, err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("mode = %v, want 0600", info.Mode().Perm())
		}

		if err := s.DeleteItem(ctx, KeyAddress); err != nil {
			t.Fatalf("DeleteItem() error = %v", err)
		}
		if _, ok, _ := s.GetItem(ctx, KeyAddress); ok {
			t.Error("item still present after delete")
		}
		if err := s.DeleteItem(ctx, "missing"); err != nil {
			t.Errorf("DeleteItem(missing) error = %v", err)
		}
	})

	t.Run("SealedOnDisk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "c.json")
		s, _ := NewFileStore(path, "pw")
		if err := s.SetItem(ctx, KeyWalletLinkToken, "secret-token-value"); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if bytes.Contains(data, []byte("secret-token-value")) {
			t.Error("token stored in clear text")
		}
	})

	t.Run("WrongPassphrase", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "c.json")
		s, _ := NewFileStore(path, "pw")
		if err := s.SetItem(ctx, KeyAddress, "x"); err != nil {
			t.Fatal(err)
		}

		other, _ := NewFileStore(path, "not-pw")
		if _, _, err := other.GetItem(ctx, KeyAddress); !errors.Is(err, ErrWrongPassphrase) {
			t.Errorf("GetItem() error = %v, want ErrWrongPassphrase", err)
		}
	})

	t.Run("Corrupt", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "c.json")
		if err := os.WriteFile(path, []byte("{nope"), 0600); err != nil {
			t.Fatal(err)
		}
		s, _ := NewFileStore(path, "pw")
		if _, _, err := s.GetItem(ctx, KeyAddress); !errors.Is(err, ErrCorrupt) {
			t.Errorf("GetItem() error = %v, want ErrCorrupt", err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "c.json")
		s, _ := NewFileStore(path, "pw")
		if err := s.SetItem(ctx, KeyAddress, "x"); err != nil {
			t.Fatal(err)
		}
		if err := s.Clear(); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if err := s.Clear(); err != nil {
			t.Fatalf("second Clear() error = %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("file still exists")
		}
	})
}

func TestCredentialView(t *testing.T) {
	ctx := context.Background()
	stores := map[string]Store{
		"memory": NewMemoryStore(),
	}
	fs, _ := NewFileStore(filepath.Join(t.TempDir(), "c.json"), "pw")
	stores["file"] = fs

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := s.WalletLinkToken(ctx); ok || err != nil {
				t.Fatalf("WalletLinkToken() on empty store = %v %v", ok, err)
			}

			if err := SaveLink(ctx, s, "tok", "13owner"); err != nil {
				t.Fatalf("SaveLink() error = %v", err)
			}
			tok, ok, err := s.WalletLinkToken(ctx)
			if err != nil || !ok || tok != "tok" {
				t.Errorf("WalletLinkToken() = %q %v %v", tok, ok, err)
			}
			addr, ok, err := s.OwnerAddress(ctx)
			if err != nil || !ok || addr != "13owner" {
				t.Errorf("OwnerAddress() = %q %v %v", addr, ok, err)
			}

			// Relinking without an address drops the stale one.
			if err := SaveLink(ctx, s, "tok2", ""); err != nil {
				t.Fatal(err)
			}
			if _, ok, _ := s.OwnerAddress(ctx); ok {
				t.Error("stale owner address kept")
			}

			if err := s.SetItem(ctx, KeyWalletLinkToken, ""); err != nil {
				t.Fatal(err)
			}
			if _, ok, _ := s.WalletLinkToken(ctx); ok {
				t.Error("empty token reported as present")
			}

			if err := ClearLink(ctx, s); err != nil {
				t.Fatalf("ClearLink() error = %v", err)
			}
		})
	}
}
