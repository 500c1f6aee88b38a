package login

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/trichner/carlot/pkg/app"
	"github.com/trichner/carlot/pkg/notify"
)

type cli struct{}

func parse(name string, args []string) {
	// kong expects only actual arguments and not the program itself
	args = args[1:]

	var flags cli
	k, err := kong.New(&flags, kong.Name(name))
	if err != nil {
		log.Fatalf("cannot parse arguments: %v", err)
	}
	if _, err := k.Parse(args); err != nil {
		log.Fatalf("cannot parse arguments: %v", err)
	}
}

// Exec logs the user in.
func Exec(ctx context.Context, args []string) {
	parse("carlot login", args)

	a, err := app.Open(ctx)
	if err != nil {
		slog.Error("cannot start", "err", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Login.Run(ctx); err != nil {
		a.Notifier.Notify(err.Error(), notify.Error)
		a.Close()
		os.Exit(1)
	}
}

// ExecLogout forgets the stored login.
func ExecLogout(ctx context.Context, args []string) {
	parse("carlot logout", args)

	a, err := app.Open(ctx)
	if err != nil {
		slog.Error("cannot start", "err", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Login.Logout(ctx); err != nil {
		slog.Error("logout failed", "err", err)
		a.Close()
		os.Exit(1)
	}
	a.Notifier.Notify("Logged out", notify.Info)
}
