package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/lmittmann/tint"

	"github.com/trichner/carlot/cmd/car"
	"github.com/trichner/carlot/cmd/compare"
	"github.com/trichner/carlot/cmd/favorites"
	"github.com/trichner/carlot/cmd/login"
	"github.com/trichner/carlot/pkg/cfg"
	"github.com/trichner/carlot/pkg/cmdreg"
)

func main() {
	level := new(slog.LevelVar)
	tintOpts := &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, tintOpts)))

	provider := &cfg.ConfigProvider{}
	if conf, err := provider.Load(); err != nil {
		slog.Warn("cannot load configuration", "err", err)
	} else {
		level.Set(conf.Level())
	}

	r := cmdreg.New(cmdreg.WithProgramName("carlot"))

	r.RegisterFunc("car", car.Exec)
	r.RegisterFunc("compare", compare.Exec, cmdreg.WithCompletion(compare.Completions()))
	r.RegisterFunc("favorites", favorites.Exec, cmdreg.WithCompletion(favorites.Completions()))
	r.RegisterFunc("login", login.Exec)
	r.RegisterFunc("logout", login.ExecLogout)

	r.RegisterFunc("help", help(r))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = cfg.WithConfigProvider(ctx, provider)
	r.Exec(ctx, os.Args)
}

func help(r *cmdreg.CommandRegistry) cmdreg.CommandFunc {
	return func(_ context.Context, args []string) {
		r.PrintHelp(os.Stdout)
	}
}
