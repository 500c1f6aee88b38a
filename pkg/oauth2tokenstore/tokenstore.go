// Package oauth2tokenstore persists oauth2 tokens in the OS keyring. Tokens
// that the keyring refuses because of their size go to encrypted files, with
// only the file key kept in the keyring.
package oauth2tokenstore

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/trichner/carlot/pkg/keyring"

	"golang.org/x/crypto/nacl/secretbox"

	"golang.org/x/oauth2"
)

// NewKeyringTokenStore returns a store for serviceName. Overflow token files
// are written to fileDir.
func NewKeyringTokenStore(serviceName, fileDir string) *KeyringTokenStore {
	return &KeyringTokenStore{
		serviceName:    serviceName,
		fileTokenStore: &secretBoxFileTokenStore{ringName: serviceName + "-keys", dir: fileDir},
	}
}

type KeyringTokenStore struct {
	serviceName    string
	fileTokenStore *secretBoxFileTokenStore
}

// Get returns the token stored under key, or nil when there is none.
func (k *KeyringTokenStore) Get(key string) (*oauth2.Token, error) {
	ring, err := keyring.Open(k.serviceName)
	if err != nil {
		return nil, err
	}

	item, err := ring.Get(key)
	if errors.Is(err, keyring.ErrNotFound) {
		return k.fileTokenStore.Get(key)
	} else if err != nil {
		return nil, fmt.Errorf("cannot read %s token for %q: %w", k.serviceName, key, err)
	}

	var token oauth2.Token
	err = json.Unmarshal([]byte(item.Secret), &token)
	if err != nil {
		return nil, fmt.Errorf("invalid %s token for %q: %w", k.serviceName, key, err)
	}

	return &token, nil
}

func (k *KeyringTokenStore) Put(key string, token *oauth2.Token) error {
	ring, err := keyring.Open(k.serviceName)
	if err != nil {
		return err
	}

	data, err := json.Marshal(token)
	if err != nil {
		return err
	}

	item := &keyring.Item{Secret: string(data)}
	err = ring.Put(key, item)
	if errors.Is(err, keyring.ErrTooBig) {
		slog.Info("token too large for keyring, storing it in an encrypted file", "key", key, "bytes", len(data))
		return k.fileTokenStore.Put(key, token)
	} else if err != nil {
		return fmt.Errorf("failed to store token for %s: %w", k.serviceName, err)
	}
	return nil
}

// Delete forgets the token stored under key, wherever it lives.
func (k *KeyringTokenStore) Delete(key string) error {
	ring, err := keyring.Open(k.serviceName)
	if err != nil {
		return err
	}
	err = ring.Delete(key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token for %s: %w", k.serviceName, err)
	}
	k.fileTokenStore.cleanupKey(key)
	return nil
}

// secretBoxFileTokenStore implements a token store that writes tokens to encrypted files while
// storing the key to them in the keyring. This is useful if the tokens are too large.
type secretBoxFileTokenStore struct {
	ringName string
	dir      string
}

func (k *secretBoxFileTokenStore) Get(key string) (*oauth2.Token, error) {
	ring, err := keyring.Open(k.ringName)
	if err != nil {
		return nil, err
	}

	item, err := ring.Get(key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		k.cleanupKey(key)
		return nil, fmt.Errorf("cannot read %s token for %q: %w", k.ringName, key, err)
	}

	var secretKey [32]byte
	_, err = hex.Decode(secretKey[:], []byte(item.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to decode key for %q: %w", k.ringName, err)
	}

	f := k.fileName(key)
	encrypted, err := os.ReadFile(f)
	if err != nil {
		k.cleanupKey(key)
		return nil, fmt.Errorf("failed to read token file %q: %w", f, err)
	}
	if len(encrypted) < 24 {
		k.cleanupKey(key)
		return nil, fmt.Errorf("token file %q is truncated", f)
	}

	// the nonce is stored in the first 24 bytes of the file
	var decryptNonce [24]byte
	copy(decryptNonce[:], encrypted[:24])
	decrypted, ok := secretbox.Open(nil, encrypted[24:], &decryptNonce, &secretKey)
	if !ok {
		k.cleanupKey(key)
		return nil, fmt.Errorf("cannot decrypt token file")
	}

	var token oauth2.Token
	err = json.Unmarshal(decrypted, &token)
	if err != nil {
		k.cleanupKey(key)
		return nil, fmt.Errorf("invalid %s token for %q: %w", k.ringName, key, err)
	}

	return &token, nil
}

func (k *secretBoxFileTokenStore) cleanupKey(key string) {
	ring, err := keyring.Open(k.ringName)
	if err == nil {
		err = ring.Delete(key)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			slog.Debug("no token passphrase to remove", "key", key, "err", err)
		}
	}

	f := k.fileName(key)
	err = os.Remove(f)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Debug("no token file to remove", "file", f, "err", err)
	}
}

func (k *secretBoxFileTokenStore) Put(key string, token *oauth2.Token) error {
	ring, err := keyring.Open(k.ringName)
	if err != nil {
		return err
	}

	data, err := json.Marshal(token)
	if err != nil {
		return err
	}

	var secretKey [32]byte
	if _, err := io.ReadFull(rand.Reader, secretKey[:]); err != nil {
		return fmt.Errorf("cannot generate cryptographic key: %w", err)
	}

	// a random 192 bit nonce makes repeats with the same key negligible
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("cannot generate cryptographic nonce: %w", err)
	}

	encrypted := secretbox.Seal(nonce[:], data, &nonce, &secretKey)

	if err := os.MkdirAll(k.dir, 0o700); err != nil {
		return fmt.Errorf("cannot create token directory %q: %w", k.dir, err)
	}
	f := k.fileName(key)
	err = os.WriteFile(f, encrypted, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write token file %q: %w", f, err)
	}

	// store key
	item := &keyring.Item{Secret: hex.EncodeToString(secretKey[:])}
	err = ring.Put(key, item)
	if errors.Is(err, keyring.ErrTooBig) {
		slog.Warn("token key too large for keyring, token not stored", "key", key)
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to store token for %s: %w", k.ringName, err)
	}
	return nil
}

func (k *secretBoxFileTokenStore) fileName(key string) string {
	return filepath.Join(k.dir, deriveFileName(k.ringName, key))
}

func deriveFileName(ring string, key string) string {
	hashed := sha256.Sum256([]byte(ring + "-" + key))
	s := hex.EncodeToString(hashed[:16])
	return fmt.Sprintf("token_%s.bin", s)
}
