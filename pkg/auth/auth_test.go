package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	zk "github.com/zalando/go-keyring"
	"golang.org/x/oauth2"

	"github.com/trichner/carlot/pkg/carapi"
	"github.com/trichner/carlot/pkg/localstore"
	"github.com/trichner/carlot/pkg/notify"
	"github.com/trichner/carlot/pkg/oauth2tokenstore"
)

type fakeLogin struct {
	email string
	calls int
}

func (f *fakeLogin) Login(_ context.Context, email, password string) (*oauth2.Token, error) {
	f.calls++
	f.email = email
	if password != "hunter22" {
		return nil, carapi.ErrUnauthorized
	}
	return &oauth2.Token{AccessToken: "tok-" + email, TokenType: "bearer"}, nil
}

type fakeCredentials struct {
	email, password string
	gotDefault      string
	err             error
}

func (f *fakeCredentials) Credentials(defaultEmail string) (string, string, error) {
	f.gotDefault = defaultEmail
	return f.email, f.password, f.err
}

func newFlow(t *testing.T, creds *fakeCredentials) (*Flow, *notify.Recorder) {
	t.Helper()
	zk.MockInit()
	rec := &notify.Recorder{}
	return &Flow{
		Session:  NewSession(oauth2tokenstore.NewKeyringTokenStore("carlot-test", t.TempDir())),
		API:      &fakeLogin{},
		Prompt:   creds,
		Store:    localstore.NewMemoryStore(),
		Notifier: rec,
	}, rec
}

func TestSessionWithoutToken(t *testing.T) {
	zk.MockInit()
	s := NewSession(oauth2tokenstore.NewKeyringTokenStore("carlot-test", t.TempDir()))

	assert.False(t, s.LoggedIn(context.Background()))
	_, err := s.Token()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Error(t, s.Save(&oauth2.Token{}))
}

func TestFlowLoginAndLogout(t *testing.T) {
	ctx := context.Background()
	creds := &fakeCredentials{email: "jane@example.com", password: "hunter22"}
	f, rec := newFlow(t, creds)

	require.NoError(t, f.Run(ctx))

	assert.True(t, f.Session.LoggedIn(ctx))
	token, err := f.Session.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-jane@example.com", token.AccessToken)
	assert.Equal(t, notify.Success, rec.Last().Severity)

	email, ok, err := f.Store.GetItem(ctx, EmailKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "jane@example.com", email)

	// second login offers the remembered email
	require.NoError(t, f.Run(ctx))
	assert.Equal(t, "jane@example.com", creds.gotDefault)

	require.NoError(t, f.Logout(ctx))
	assert.False(t, f.Session.LoggedIn(ctx))
	_, ok, _ = f.Store.GetItem(ctx, EmailKey)
	assert.False(t, ok)
}

func TestPromptLoginReportsFailure(t *testing.T) {
	ctx := context.Background()
	f, rec := newFlow(t, &fakeCredentials{email: "jane@example.com", password: "wrong"})

	f.PromptLogin(ctx)

	assert.False(t, f.Session.LoggedIn(ctx))
	assert.Equal(t, notify.Error, rec.Last().Severity)
}

func TestPromptLoginAborted(t *testing.T) {
	ctx := context.Background()
	f, rec := newFlow(t, &fakeCredentials{err: errors.New("^C")})

	f.PromptLogin(ctx)

	assert.Equal(t, 0, f.API.(*fakeLogin).calls)
	assert.Contains(t, rec.Last().Text, "cannot read credentials")
}
