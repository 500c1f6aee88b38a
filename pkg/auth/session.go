// Package auth tracks whether the user is logged in and runs the login flow.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
)

// TokenKey names the access token in the token store.
const TokenKey = "auth_token"

var ErrNotLoggedIn = errors.New("not logged in, run 'carlot login' first")

type TokenStore interface {
	Get(key string) (*oauth2.Token, error)
	Put(key string, token *oauth2.Token) error
	Delete(key string) error
}

// Session is the user's login state. It is an oauth2.TokenSource for API
// clients.
type Session struct {
	tokens TokenStore
}

func NewSession(tokens TokenStore) *Session {
	return &Session{tokens: tokens}
}

// LoggedIn reports whether an access token is present. The token is not
// validated against the backend.
func (s *Session) LoggedIn(_ context.Context) bool {
	token, err := s.tokens.Get(TokenKey)
	if err != nil {
		slog.Warn("cannot read auth token", "err", err)
		return false
	}
	return token != nil && token.AccessToken != ""
}

// Token implements oauth2.TokenSource.
func (s *Session) Token() (*oauth2.Token, error) {
	token, err := s.tokens.Get(TokenKey)
	if err != nil {
		return nil, fmt.Errorf("cannot read auth token: %w", err)
	}
	if token == nil || token.AccessToken == "" {
		return nil, ErrNotLoggedIn
	}
	return token, nil
}

func (s *Session) Save(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return errors.New("refusing to store an empty token")
	}
	return s.tokens.Put(TokenKey, token)
}

func (s *Session) Logout() error {
	return s.tokens.Delete(TokenKey)
}
