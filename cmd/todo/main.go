package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/Tomlord1122/todo-tracker/internal/adapter"
	"github.com/Tomlord1122/todo-tracker/internal/cli"
	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/store"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetInterspersed(false) // everything after the command belongs to it
	fs.SetOutput(stderr)

	configPath := fs.StringP("config", "c", "", "Optional config file (yaml, toml or json)")
	userID := fs.StringP("user", "u", "", "Sign in as this user id")
	backend := fs.String("backend", "", "Backend: local or managed")
	apiURL := fs.String("api-url", "", "Base URL of the local REST proxy")
	verbose := fs.BoolP("verbose", "v", false, "Log backend activity to stderr")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: todo [flags] [command [args]]")
		fmt.Fprintln(stderr, "Without a command an interactive prompt starts.")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Flags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	log.SetOutput(io.Discard)
	if *verbose {
		log.SetOutput(stderr)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	if *backend != "" {
		cfg.Client.Backend = config.Backend(*backend)
	}
	if *apiURL != "" {
		cfg.Client.APIBaseURL = *apiURL
	}
	if err := cfg.ValidateClient(); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	loc, err := cfg.Client.Location()
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backendAdapter, closeBackend, err := adapter.New(ctx, cfg.Client)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer func() {
		if err := closeBackend(); err != nil {
			log.Printf("Error closing backend: %v", err)
		}
	}()

	app := cli.NewApp(cli.Options{
		Store:       store.New(backendAdapter),
		SessionPath: cfg.Client.SessionFile,
		Location:    loc,
		DevMode:     cfg.Client.DevMode,
	})
	if err := app.Start(ctx, *userID); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	if fs.NArg() > 0 {
		return app.Execute(ctx, cli.NewIO(stdout, stderr), fs.Args())
	}

	if err := cli.NewREPL(app).Run(ctx, stdout, stderr); err != nil && ctx.Err() == nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}
