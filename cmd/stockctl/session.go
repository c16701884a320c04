package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/ghuser/stockledger/pkg/app"
	"github.com/ghuser/stockledger/pkg/auth"
	identitysvcs "github.com/ghuser/stockledger/services/identity/application/services"
)

type loginCmd struct{ *env }

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "sign in as a user" }
func (*loginCmd) Usage() string {
	return `stockctl login <username> <password>

  Signs in and remembers the user for the following commands.
`
}
func (*loginCmd) SetFlags(*flag.FlagSet) {}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprint(c.stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	return c.run(ctx, func(ctx context.Context, a *app.Application) error {
		u, err := identitysvcs.New(a).User.Login(ctx, f.Arg(0), f.Arg(1))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "Logged in as %s (%s)\n", u.Username, u.Role)
		return nil
	})
}

type logoutCmd struct{ *env }

func (*logoutCmd) Name() string             { return "logout" }
func (*logoutCmd) Synopsis() string         { return "forget the signed-in user" }
func (*logoutCmd) Usage() string            { return "stockctl logout\n" }
func (*logoutCmd) SetFlags(*flag.FlagSet) {}

func (c *logoutCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(ctx context.Context, a *app.Application) error {
		if err := identitysvcs.New(a).User.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, "Logged out")
		return nil
	})
}

type whoamiCmd struct{ *env }

func (*whoamiCmd) Name() string             { return "whoami" }
func (*whoamiCmd) Synopsis() string         { return "print the signed-in user" }
func (*whoamiCmd) Usage() string            { return "stockctl whoami\n" }
func (*whoamiCmd) SetFlags(*flag.FlagSet) {}

func (c *whoamiCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(ctx context.Context, a *app.Application) error {
		p, err := require(ctx, a, "")
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "%s (%s, id %d)\n", p.Username, p.Role, p.UserID)
		return nil
	})
}

type usersCmd struct {
	*env
	plain bool
}

func (*usersCmd) Name() string     { return "users" }
func (*usersCmd) Synopsis() string { return "list user accounts" }
func (*usersCmd) Usage() string {
	return `stockctl users [-plain]

  Lists every account. Requires the admin role.
`
}

func (c *usersCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.plain, "plain", false, "Print Markdown instead of rendering it")
}

func (c *usersCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(ctx context.Context, a *app.Application) error {
		if _, err := require(ctx, a, auth.RoleAdmin); err != nil {
			return err
		}
		users, err := identitysvcs.New(a).User.List(ctx)
		if err != nil {
			return err
		}
		var b strings.Builder
		b.WriteString("| ID | Username | Role |\n|---:|---|---|\n")
		for _, u := range users {
			fmt.Fprintf(&b, "| %d | %s | %s |\n", u.ID, u.Username, u.Role)
		}
		return c.printMarkdown(b.String(), c.plain)
	})
}
