package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/ghuser/stockledger/pkg/app"
	"github.com/ghuser/stockledger/pkg/auth"
	"github.com/ghuser/stockledger/pkg/config"
	"github.com/ghuser/stockledger/pkg/logger"
	identitysvcs "github.com/ghuser/stockledger/services/identity/application/services"
)

// env is what every command runs against. Tests replace open and render.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	open   func(ctx context.Context) (*app.Application, error)
	render func(md string) (string, error)
}

// newEnv opens the infrastructure described by the environment, logging to stderr.
func newEnv() *env {
	return &env{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		open: func(ctx context.Context) (*app.Application, error) {
			cfg, err := config.LoadEnv()
			if err != nil {
				return nil, err
			}
			if err := config.ValidateForProduction(cfg); err != nil {
				return nil, err
			}
			return app.Open(ctx, cfg, logger.NewWithWriter(os.Stderr, cfg.LogLevel), app.Options{})
		},
		render: renderTerminal,
	}
}

func renderTerminal(md string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// errUsage marks an error caused by bad arguments.
var errUsage = errors.New("usage")

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// run opens the application, runs fn and maps its error to an exit status.
func (e *env) run(ctx context.Context, fn func(ctx context.Context, a *app.Application) error) subcommands.ExitStatus {
	a, err := e.open(ctx)
	if err != nil {
		fmt.Fprintf(e.stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close() //nolint:errcheck

	if err := fn(ctx, a); err != nil {
		fmt.Fprintf(e.stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printMarkdown writes md through the terminal renderer, or verbatim when plain.
func (e *env) printMarkdown(md string, plain bool) error {
	if plain {
		_, err := io.WriteString(e.stdout, md)
		return err
	}
	out, err := e.render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(e.stdout, out)
	return err
}

// require returns the logged-in user. A non-empty role must match.
func require(ctx context.Context, a *app.Application, role string) (auth.Principal, error) {
	p, err := identitysvcs.New(a).User.CurrentPrincipal(ctx)
	if err != nil {
		return auth.Principal{}, fmt.Errorf("%w (run stockctl login)", err)
	}
	if role != "" && p.Role != role {
		return auth.Principal{}, fmt.Errorf("%w: %s role required", auth.ErrForbidden, role)
	}
	return p, nil
}
