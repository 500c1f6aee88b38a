package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"

	"github.com/trichner/carlot/pkg/localstore"
	"github.com/trichner/carlot/pkg/notify"
)

// EmailKey remembers the last login in local storage.
const EmailKey = "user_email"

type PasswordLogin interface {
	Login(ctx context.Context, email, password string) (*oauth2.Token, error)
}

type CredentialsPrompter interface {
	Credentials(defaultEmail string) (email, password string, err error)
}

// Flow logs the user in interactively.
type Flow struct {
	Session  *Session
	API      PasswordLogin
	Prompt   CredentialsPrompter
	Store    localstore.Store
	Notifier notify.Notifier
}

// Run asks for credentials, exchanges them for a token and stores it.
func (f *Flow) Run(ctx context.Context) error {
	lastEmail, _, err := f.Store.GetItem(ctx, EmailKey)
	if err != nil {
		slog.Debug("no previous login email", "err", err)
	}

	email, password, err := f.Prompt.Credentials(lastEmail)
	if err != nil {
		return fmt.Errorf("cannot read credentials: %w", err)
	}

	token, err := f.API.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := f.Session.Save(token); err != nil {
		return fmt.Errorf("cannot store auth token: %w", err)
	}
	if err := f.Store.SetItem(ctx, EmailKey, email); err != nil {
		slog.Warn("cannot remember login email", "err", err)
	}

	slog.Info("logged in", "email", email)
	f.Notifier.Notify("Logged in as "+email, notify.Success)
	return nil
}

// PromptLogin runs the flow and reports failures to the user.
func (f *Flow) PromptLogin(ctx context.Context) {
	if err := f.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		f.Notifier.Notify(err.Error(), notify.Error)
	}
}

// Logout forgets the token and the remembered email.
func (f *Flow) Logout(ctx context.Context) error {
	if err := f.Session.Logout(); err != nil {
		return fmt.Errorf("cannot remove auth token: %w", err)
	}
	if err := f.Store.RemoveItem(ctx, EmailKey); err != nil {
		slog.Warn("cannot forget login email", "err", err)
	}
	return nil
}
