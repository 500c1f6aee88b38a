package compare

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/trichner/carlot/pkg/app"
	"github.com/trichner/carlot/pkg/notify"
	"github.com/trichner/carlot/pkg/view"
)

type cli struct {
	Add    addCmd    `cmd:"" help:"Add a car to the comparison."`
	Remove removeCmd `cmd:"" help:"Remove a car from the comparison."`
	List   listCmd   `cmd:"" default:"1" help:"List the cars in the comparison."`
	Clear  clearCmd  `cmd:"" help:"Remove all cars from the comparison."`
	Show   showCmd   `cmd:"" help:"Show the cars in the comparison side by side."`
}

type env struct {
	ctx context.Context
	app *app.App
}

func Exec(ctx context.Context, args []string) {
	// kong expects only actual arguments and not the program itself
	args = args[1:]

	var flags cli

	k, err := kong.New(&flags, kong.Name("carlot compare"), kong.Description("Manage the car comparison."))
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

	if err := kctx.Run(&env{ctx: ctx, app: a}); err != nil {
		slog.Error("compare failed", "err", err)
		a.Close()
		os.Exit(1)
	}
}

// Completions describes the sub-commands for shell completion.
func Completions() *complete.Command {
	id := &complete.Command{Args: predict.Nothing}
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"add":    id,
			"remove": {Args: predict.Nothing, Flags: map[string]complete.Predictor{"show": predict.Nothing}},
			"list":   {},
			"clear":  {Flags: map[string]complete.Predictor{"show": predict.Nothing}},
			"show":   {Flags: map[string]complete.Predictor{"html": predict.Files("*.html")}},
		},
	}
}

type addCmd struct {
	ID int `arg:"" help:"Car ID."`
}

func (c *addCmd) Run(e *env) error {
	controls := view.NewControls(c.ID)
	m, err := e.app.Compare(app.Page{Controls: controls})
	if err != nil {
		return err
	}
	controls.Refresh(func(id int) bool { return m.IsMember(e.ctx, id) })

	m.Add(e.ctx, c.ID)
	return view.RenderControls(e.app.Stdout, controls)
}

type removeCmd struct {
	ID   int  `arg:"" help:"Car ID."`
	Show bool `help:"Show the comparison after removing."`
}

func (c *removeCmd) Run(e *env) error {
	controls := view.NewControls(c.ID)
	m, err := e.app.Compare(pageFor(e, controls, c.Show))
	if err != nil {
		return err
	}

	if !m.Remove(e.ctx, c.ID) {
		e.app.Notifier.Notify(fmt.Sprintf("Car %d is not in the comparison", c.ID), notify.Info)
	}
	if c.Show {
		return nil
	}
	return view.RenderControls(e.app.Stdout, controls)
}

type listCmd struct{}

func (c *listCmd) Run(e *env) error {
	m, err := e.app.Compare(app.Page{})
	if err != nil {
		return err
	}
	members := m.Members(e.ctx)
	if len(members) == 0 {
		_, err := fmt.Fprintln(e.app.Stdout, "No cars in the comparison.")
		return err
	}
	for _, id := range members {
		if _, err := fmt.Fprintf(e.app.Stdout, "#%d\n", id); err != nil {
			return err
		}
	}
	return nil
}

type clearCmd struct {
	Show bool `help:"Show the comparison after clearing."`
}

func (c *clearCmd) Run(e *env) error {
	m, err := e.app.Compare(pageFor(e, nil, c.Show))
	if err != nil {
		return err
	}
	m.Clear(e.ctx)
	return nil
}

type showCmd struct {
	HTML string `help:"Write the comparison as an HTML page to this file instead." type:"path"`
}

func (c *showCmd) Run(e *env) error {
	if !e.app.Session.LoggedIn(e.ctx) {
		e.app.Notifier.Notify("Please login to compare cars. Run 'carlot login'.", notify.Warning)
		return nil
	}

	m, err := e.app.Compare(app.Page{})
	if err != nil {
		return err
	}
	comparison := m.LoadView(e.ctx)

	if c.HTML == "" {
		return view.RenderTerminal(e.app.Stdout, comparison)
	}

	f, err := os.Create(c.HTML)
	if err != nil {
		return fmt.Errorf("cannot create %q: %w", c.HTML, err)
	}
	if err := view.RenderHTML(f, comparison); err != nil {
		f.Close()
		return fmt.Errorf("cannot render comparison: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	slog.Info("comparison written", "file", c.HTML, "cards", len(comparison.Cards))
	return nil
}

// pageFor returns the page of a command that optionally shows the comparison.
func pageFor(e *env, controls *view.Controls, show bool) app.Page {
	page := app.Page{Controls: controls}
	if show {
		page.Comparison = func(_ context.Context, c view.Comparison) {
			if err := view.RenderTerminal(e.app.Stdout, c); err != nil {
				slog.Warn("cannot render comparison", "err", err)
			}
		}
	}
	return page
}
