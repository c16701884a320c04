package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/subcommands"

	"github.com/ghuser/stockledger/pkg/app"
	ledgersvcs "github.com/ghuser/stockledger/services/ledger/application/services"
	"github.com/ghuser/stockledger/services/ledger/domain/models"
	"github.com/ghuser/stockledger/services/report/infrastructure/markdown"
	systemsvcs "github.com/ghuser/stockledger/services/system/application/services"
)

type saleCmd struct {
	*env
	customer string
	plain    bool
}

func (*saleCmd) Name() string     { return "sale" }
func (*saleCmd) Synopsis() string { return "record a sale and print its invoice" }
func (*saleCmd) Usage() string {
	return `stockctl sale [-customer <name>] [-plain] <productId>:<quantity>...

  Sells the listed products in one transaction. Nothing is recorded when a
  product is unknown or short on stock.
`
}

func (c *saleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.customer, "customer", "", "Customer name (defaults to a walk-in customer)")
	f.BoolVar(&c.plain, "plain", false, "Print Markdown instead of rendering it")
}

func (c *saleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	lines, err := parseLines(f.Args())
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return c.run(ctx, func(ctx context.Context, a *app.Application) error {
		if _, err := require(ctx, a, ""); err != nil {
			return err
		}
		svcs, err := ledgersvcs.New(a)
		if err != nil {
			return err
		}
		sale, err := svcs.Sale.CommitSale(ctx, lines, c.customer)
		if err != nil {
			return err
		}
		settings, err := systemsvcs.New(a).Settings.Get(ctx)
		if err != nil {
			return err
		}
		r := markdown.NewRenderer(settings.CompanyName, markdown.DefaultCurrency, a.Location)
		return c.printMarkdown(r.Invoice(*sale), c.plain)
	})
}

// parseLines reads "id:qty" arguments. A bare id sells one unit.
func parseLines(args []string) ([]models.Line, error) {
	if len(args) == 0 {
		return nil, usageError("at least one <productId>:<quantity> is required")
	}
	lines := make([]models.Line, 0, len(args))
	for _, arg := range args {
		idPart, qtyPart, hasQty := strings.Cut(arg, ":")
		id, err := strconv.ParseInt(idPart, 10, 64)
		if err != nil {
			return nil, usageError("invalid product id in %q", arg)
		}
		qty := 1
		if hasQty {
			if qty, err = strconv.Atoi(qtyPart); err != nil {
				return nil, usageError("invalid quantity in %q", arg)
			}
		}
		lines = append(lines, models.Line{ProductID: id, Quantity: qty})
	}
	return lines, nil
}
