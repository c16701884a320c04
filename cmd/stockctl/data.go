package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/ghuser/stockledger/pkg/app"
	"github.com/ghuser/stockledger/pkg/auth"
	catalogsvcs "github.com/ghuser/stockledger/services/catalog/application/services"
	productcsv "github.com/ghuser/stockledger/services/catalog/infrastructure/csv"
	ledgersvcs "github.com/ghuser/stockledger/services/ledger/application/services"
	salecsv "github.com/ghuser/stockledger/services/ledger/infrastructure/csv"
	systemsvcs "github.com/ghuser/stockledger/services/system/application/services"
	"github.com/ghuser/stockledger/services/system/domain/models"
)

type exportCmd struct {
	*env
	kind   string
	format string
	out    string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the backup, the products or the sales" }
func (*exportCmd) Usage() string {
	return `stockctl export [-kind backup|products|sales] [-format json|csv] [-o <file>]

  Writes the selected data to stdout or to a file. The backup is JSON only.
  Requires the admin role.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", string(models.ImportBackup), "What to export: backup, products or sales")
	f.StringVar(&c.format, "format", "json", "Output format: json or csv")
	f.StringVar(&c.out, "o", "", "Output file (defaults to stdout)")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(ctx context.Context, a *app.Application) error {
		if _, err := require(ctx, a, auth.RoleAdmin); err != nil {
			return err
		}
		kind, err := models.ParseImportKind(c.kind)
		if err != nil {
			return usageError("%v", err)
		}
		data, err := c.export(ctx, a, kind)
		if err != nil {
			return err
		}
		if c.out == "" {
			_, err = c.stdout.Write(data)
			return err
		}
		if err := os.WriteFile(c.out, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(c.stderr, "Wrote %s (%d bytes)\n", c.out, len(data))
		return nil
	})
}

func (c *exportCmd) export(ctx context.Context, a *app.Application, kind models.ImportKind) ([]byte, error) {
	switch {
	case kind == models.ImportBackup && c.format == "json":
		return systemsvcs.New(a).Backup.Export(ctx)
	case kind == models.ImportProducts && c.format == "json":
		return catalogsvcs.New(a).Product.ExportJSON(ctx)
	case kind == models.ImportProducts && c.format == "csv":
		return catalogsvcs.New(a).Product.ExportCSV(ctx, productcsv.PriceRaw)
	}
	svcs, err := ledgersvcs.New(a)
	if err != nil {
		return nil, err
	}
	switch {
	case kind == models.ImportSales && c.format == "json":
		return svcs.Sale.ExportJSON(ctx)
	case kind == models.ImportSales && c.format == "csv":
		return svcs.Sale.ExportCSV(ctx, salecsv.FlavorBackup)
	}
	return nil, usageError("%s cannot be exported as %q", kind, c.format)
}

type importCmd struct {
	*env
	kind   string
	format string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a backup, products or sales" }
func (*importCmd) Usage() string {
	return `stockctl import -kind backup|products|sales [-format json|csv] <file|->

  JSON imports replace what they contain. A products CSV is appended to the
  catalog. Invalid input changes nothing. Requires the admin role.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "", "What the file contains: backup, products or sales")
	f.StringVar(&c.format, "format", "json", "Input format: json, or csv for products")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || c.kind == "" {
		fmt.Fprint(c.stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	return c.run(ctx, func(ctx context.Context, a *app.Application) error {
		if _, err := require(ctx, a, auth.RoleAdmin); err != nil {
			return err
		}
		kind, err := models.ParseImportKind(c.kind)
		if err != nil {
			return usageError("%v", err)
		}
		data, err := c.read(f.Arg(0))
		if err != nil {
			return err
		}

		if c.format == "csv" {
			if kind != models.ImportProducts {
				return usageError("only products can be imported from CSV")
			}
			n, err := catalogsvcs.New(a).Product.ImportCSV(ctx, bytes.NewReader(data))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "Imported %d products\n", n)
			return nil
		}

		res, err := systemsvcs.New(a).Backup.Import(ctx, kind, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "Imported %s: %d products, %d sales\n", res.Kind, res.Products, res.Sales)
		return nil
	})
}

func (c *importCmd) read(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(c.stdin)
	}
	return os.ReadFile(path)
}

type resetCmd struct {
	*env
	yes bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "delete all products, sales and settings" }
func (*resetCmd) Usage() string {
	return `stockctl reset -yes

  Deletes products, sales and settings. Users are kept. Requires the admin role.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Confirm the reset")
}

func (c *resetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		fmt.Fprintln(c.stderr, "Refusing to reset without -yes")
		return subcommands.ExitUsageError
	}
	return c.run(ctx, func(ctx context.Context, a *app.Application) error {
		if _, err := require(ctx, a, auth.RoleAdmin); err != nil {
			return err
		}
		if err := systemsvcs.New(a).Backup.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, "Products, sales and settings deleted")
		return nil
	})
}

type seedCmd struct{ *env }

func (*seedCmd) Name() string             { return "seed" }
func (*seedCmd) Synopsis() string         { return "install the default users and products" }
func (*seedCmd) Usage() string            { return "stockctl seed\n\n  Only collections that are absent are written.\n" }
func (*seedCmd) SetFlags(*flag.FlagSet) {}

func (c *seedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(ctx context.Context, a *app.Application) error {
		if err := systemsvcs.New(a).Seed.Seed(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, "Defaults installed")
		return nil
	})
}
