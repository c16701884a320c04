package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/ghuser/stockledger/pkg/app"
	reportsvcs "github.com/ghuser/stockledger/services/report/application/services"
	"github.com/ghuser/stockledger/services/report/domain/models"
)

type reportCmd struct {
	*env
	kind   string
	window string
	format string
	plain  bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display a sales or inventory report" }
func (*reportCmd) Usage() string {
	return `stockctl report [-kind sales|inventory|full] [-window all|today|last7days|last30days] [-format md|json|csv] [-plain]

  Renders a report in the terminal, or prints its data as JSON or CSV.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", string(models.KindFull), "Report kind: sales, inventory or full")
	f.StringVar(&c.window, "window", string(models.WindowAll), "Sales window: all, today, last7days or last30days")
	f.StringVar(&c.format, "format", "md", "Output format: md, json or csv")
	f.BoolVar(&c.plain, "plain", false, "Print Markdown instead of rendering it")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := models.ParseKind(c.kind)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	window, err := models.ParseWindow(c.window)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	return c.run(ctx, func(ctx context.Context, a *app.Application) error {
		if _, err := require(ctx, a, ""); err != nil {
			return err
		}
		svc := reportsvcs.New(a).Report
		switch c.format {
		case "md":
			md, err := svc.Markdown(ctx, kind, window)
			if err != nil {
				return err
			}
			return c.printMarkdown(md, c.plain)
		case "json":
			data, err := svc.ExportJSON(ctx, kind, window)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.stdout, "%s\n", data)
			return err
		case "csv":
			data, err := svc.ExportCSV(ctx, kind, window)
			if err != nil {
				return err
			}
			_, err = c.stdout.Write(data)
			return err
		}
		return usageError("unknown format %q", c.format)
	})
}
