package oauth2tokenstore

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	zk "github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

func TestKeyringTokenStore(t *testing.T) {
	zk.MockInit()
	s := NewKeyringTokenStore("carlot-test", t.TempDir())

	got, err := s.Get("auth_token")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Put("auth_token", &oauth2.Token{AccessToken: "abc", TokenType: "bearer"}))

	got, err = s.Get("auth_token")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "abc", got.AccessToken)
	assert.Equal(t, "Bearer", got.Type())

	require.NoError(t, s.Delete("auth_token"))
	got, err = s.Get("auth_token")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSecretBoxFileTokenStore(t *testing.T) {
	zk.MockInit()
	dir := t.TempDir()
	s := &secretBoxFileTokenStore{ringName: "carlot-test-keys", dir: dir}

	require.NoError(t, s.Put("auth_token", &oauth2.Token{AccessToken: "large"}))

	_, err := os.Stat(s.fileName("auth_token"))
	require.NoError(t, err)

	got, err := s.Get("auth_token")
	require.NoError(t, err)
	assert.Equal(t, "large", got.AccessToken)

	s.cleanupKey("auth_token")
	_, err = os.Stat(s.fileName("auth_token"))
	assert.True(t, os.IsNotExist(err))

	got, err = s.Get("auth_token")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSecretBoxFileTokenStoreTampered(t *testing.T) {
	zk.MockInit()
	s := &secretBoxFileTokenStore{ringName: "carlot-test-keys", dir: t.TempDir()}
	require.NoError(t, s.Put("auth_token", &oauth2.Token{AccessToken: "large"}))

	f := s.fileName("auth_token")
	raw, err := os.ReadFile(f)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	require.NoError(t, os.WriteFile(f, raw, 0o600))

	_, err = s.Get("auth_token")
	assert.Error(t, err)
}

func TestDeriveFileNameIsStable(t *testing.T) {
	a := deriveFileName("ring", "key")
	assert.Equal(t, a, deriveFileName("ring", "key"))
	assert.NotEqual(t, a, deriveFileName("ring", "other"))
	assert.Regexp(t, `^token_[0-9a-f]{32}\.bin$`, a)
}
