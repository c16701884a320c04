// Command stockctl operates the ledger from a terminal against the store
// selected by the environment (STORE_BACKEND, DATA_FILE, ...).
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

// register adds every command to c, grouped as "stockctl help" lists them.
func register(c *subcommands.Commander, e *env) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&loginCmd{env: e}, "session")
	c.Register(&logoutCmd{env: e}, "session")
	c.Register(&whoamiCmd{env: e}, "session")
	c.Register(&usersCmd{env: e}, "session")

	c.Register(&saleCmd{env: e}, "ledger")
	c.Register(&reportCmd{env: e}, "ledger")

	c.Register(&exportCmd{env: e}, "data")
	c.Register(&importCmd{env: e}, "data")
	c.Register(&resetCmd{env: e}, "data")
	c.Register(&seedCmd{env: e}, "data")
}

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	register(commander, newEnv())

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
