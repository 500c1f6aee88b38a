package favorites

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/trichner/carlot/pkg/app"
	"github.com/trichner/carlot/pkg/carapi"
	"github.com/trichner/carlot/pkg/notify"
	"github.com/trichner/carlot/pkg/view"
)

type cli struct {
	List   listCmd   `cmd:"" default:"1" help:"Show your favorite cars."`
	Add    addCmd    `cmd:"" help:"Add a car to your favorites."`
	Remove removeCmd `cmd:"" help:"Remove a car from your favorites."`
}

type env struct {
	ctx context.Context
	app *app.App
}

func Exec(ctx context.Context, args []string) {
	// kong expects only actual arguments and not the program itself
	args = args[1:]

	var flags cli

	k, err := kong.New(&flags, kong.Name("carlot favorites"))
	if err != nil {
		log.Fatalf("cannot parse arguments: %v", err)
	}
	kctx, err := k.Parse(args)
	if err != nil {
		log.Fatalf("cannot parse arguments: %v", err)
	}

	a, err := app.Open(ctx)
	if err != nil {
		slog.Error("cannot start", "err", err)
		os.Exit(1)
	}
	defer a.Close()

	e := &env{ctx: ctx, app: a}
	if !e.requireLogin() {
		return
	}

	err = kctx.Run(e)
	if errors.Is(err, carapi.ErrUnauthorized) {
		e.sessionExpired()
		return
	}
	if err != nil {
		slog.Error("favorites failed", "err", err)
		a.Close()
		os.Exit(1)
	}
}

func Completions() *complete.Command {
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"list":   {},
			"add":    {Args: predict.Nothing},
			"remove": {Args: predict.Nothing},
		},
	}
}

// requireLogin offers the login flow to anonymous users.
func (e *env) requireLogin() bool {
	if e.app.Session.LoggedIn(e.ctx) {
		return true
	}
	if e.app.Prompter.Confirm("Please login to use favorites. Go to login?") {
		e.app.Login.PromptLogin(e.ctx)
	}
	return e.app.Session.LoggedIn(e.ctx)
}

func (e *env) sessionExpired() {
	e.app.Notifier.Notify("Your session has expired. Please login again.", notify.Warning)
	if err := e.app.Login.Logout(e.ctx); err != nil {
		slog.Warn("cannot forget expired login", "err", err)
	}
}

type listCmd struct{}

func (c *listCmd) Run(e *env) error {
	favorites, err := e.app.API.ListFavorites(e.ctx)
	if err != nil {
		return err
	}

	comparison := view.Comparison{Members: len(favorites)}
	for _, f := range favorites {
		card, err := view.NewCard(&f.Car)
		if err != nil {
			slog.Warn("skipping favorite", "car", f.CarID, "err", err)
			continue
		}
		comparison.Cards = append(comparison.Cards, card)
	}
	if comparison.Empty() {
		_, err := fmt.Fprintln(e.app.Stdout, "You have no favorite cars yet.")
		return err
	}
	return view.RenderTerminal(e.app.Stdout, comparison)
}

type addCmd struct {
	ID int `arg:"" help:"Car ID."`
}

func (c *addCmd) Run(e *env) error {
	if c.ID <= 0 {
		e.app.Notifier.Notify("Invalid car ID.", notify.Error)
		return nil
	}
	if err := e.app.API.AddFavorite(e.ctx, c.ID); err != nil {
		if errors.Is(err, carapi.ErrNotFound) {
			e.app.Notifier.Notify(fmt.Sprintf("Car %d not found", c.ID), notify.Error)
			return nil
		}
		return err
	}
	e.app.Notifier.Notify("Car added to favorites", notify.Success)
	return nil
}

type removeCmd struct {
	ID int `arg:"" help:"Car ID."`
}

func (c *removeCmd) Run(e *env) error {
	err := e.app.API.RemoveFavorite(e.ctx, c.ID)
	if errors.Is(err, carapi.ErrNotFound) {
		e.app.Notifier.Notify(fmt.Sprintf("Car %d is not in your favorites", c.ID), notify.Info)
		return nil
	}
	if err != nil {
		return err
	}
	e.app.Notifier.Notify("Car removed from favorites", notify.Info)
	return nil
}
