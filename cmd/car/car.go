package car

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/trichner/carlot/pkg/app"
	"github.com/trichner/carlot/pkg/carapi"
	"github.com/trichner/carlot/pkg/notify"
	"github.com/trichner/carlot/pkg/view"
)

type cli struct {
	ID            int  `arg:"" help:"Car ID."`
	ToggleCompare bool `help:"Add the car to the comparison, or remove it if it is already there."`
}

// Exec shows a single car with its compare toggle.
func Exec(ctx context.Context, args []string) {
	// kong expects only actual arguments and not the program itself
	args = args[1:]

	var flags cli

	k, err := kong.New(&flags, kong.Name("carlot car"))
	if err != nil {
		log.Fatalf("cannot parse arguments: %v", err)
	}
	_, err = k.Parse(args)
	if err != nil {
		log.Fatalf("cannot parse arguments: %v", err)
	}

	a, err := app.Open(ctx)
	if err != nil {
		slog.Error("cannot start", "err", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := run(ctx, a, &flags); err != nil {
		slog.Error("failed to show car", "car", flags.ID, "err", err)
		a.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, opts *cli) error {
	c, err := a.API.GetCar(ctx, opts.ID)
	if errors.Is(err, carapi.ErrNotFound) {
		a.Notifier.Notify(fmt.Sprintf("Car %d not found", opts.ID), notify.Error)
		return nil
	} else if err != nil {
		return err
	}

	card, err := view.NewCard(c)
	if err != nil {
		return err
	}

	controls := view.NewControls(c.ID)
	m, err := a.Compare(app.Page{Controls: controls})
	if err != nil {
		return err
	}

	if opts.ToggleCompare {
		if m.IsMember(ctx, c.ID) {
			m.Remove(ctx, c.ID)
		} else {
			m.Add(ctx, c.ID)
		}
	}
	controls.Refresh(func(id int) bool { return m.IsMember(ctx, id) })

	if err := view.RenderTerminal(a.Stdout, view.Comparison{Members: 1, Cards: []view.Card{card}}); err != nil {
		return err
	}
	if c.Description != "" {
		fmt.Fprintf(a.Stdout, "\n%s\n\n", c.Description)
	}
	return view.RenderControls(a.Stdout, controls)
}
