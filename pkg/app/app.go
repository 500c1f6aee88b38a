// Package app wires configuration, storage, login state and the API client
// together for the sub-commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/trichner/carlot/pkg/auth"
	"github.com/trichner/carlot/pkg/carapi"
	"github.com/trichner/carlot/pkg/cfg"
	"github.com/trichner/carlot/pkg/compare"
	"github.com/trichner/carlot/pkg/localstore"
	"github.com/trichner/carlot/pkg/notify"
	"github.com/trichner/carlot/pkg/oauth2tokenstore"
	"github.com/trichner/carlot/pkg/prompt"
	"github.com/trichner/carlot/pkg/view"
)

const keyringService = "carlot"

type Prompter interface {
	compare.Prompter
	auth.CredentialsPrompter
}

type App struct {
	Config   *cfg.Config
	Store    localstore.Store
	Session  *auth.Session
	API      *carapi.Client
	Notifier notify.Notifier
	Prompter Prompter
	Login    *auth.Flow
	Stdout   io.Writer

	closers []io.Closer
}

// Open builds the App from the ConfigProvider carried in ctx.
func Open(ctx context.Context) (*App, error) {
	provider := cfg.FromContext(ctx)
	if provider == nil {
		provider = &cfg.ConfigProvider{}
	}
	conf, err := provider.Load()
	if err != nil {
		return nil, fmt.Errorf("cannot load configuration: %w", err)
	}
	dir, err := provider.Dir()
	if err != nil {
		return nil, err
	}

	store, err := localstore.OpenSQLite(ctx, conf.StoragePath)
	if err != nil {
		return nil, err
	}

	session := auth.NewSession(oauth2tokenstore.NewKeyringTokenStore(keyringService, dir))
	api, err := carapi.New(conf.BackendURL, carapi.WithTokenSource(session))
	if err != nil {
		store.Close()
		return nil, err
	}

	a := &App{
		Config:   conf,
		Store:    store,
		Session:  session,
		API:      api,
		Notifier: notify.NewTerminal(os.Stderr),
		Prompter: prompt.Terminal{},
		Stdout:   os.Stdout,
		closers:  []io.Closer{store},
	}
	a.Login = &auth.Flow{
		Session:  session,
		API:      api,
		Prompt:   a.Prompter,
		Store:    store,
		Notifier: a.Notifier,
	}
	return a, nil
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Page describes the screen a command renders. Controls are the compare
// toggles it shows; Comparison is set when the comparison itself is shown
// and is called again whenever it changes.
type Page struct {
	Controls   *view.Controls
	Comparison func(ctx context.Context, c view.Comparison)
}

// Compare returns a comparison manager bound to page.
func (a *App) Compare(page Page) (*compare.Manager, error) {
	controls := page.Controls
	if controls == nil {
		controls = view.NewControls()
	}
	return compare.NewManager(compare.Deps{
		Store:            a.Store,
		Auth:             a.Session,
		Notifier:         a.Notifier,
		Prompter:         a.Prompter,
		Login:            a.Login,
		Controls:         controls,
		Cars:             a.API,
		OnComparisonPage: page.Comparison != nil,
		Reload:           page.Comparison,
	})
}
