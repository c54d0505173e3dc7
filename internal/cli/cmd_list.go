package cli

import (
	"context"
	"strings"

	"redirector/internal/controller"
	"redirector/internal/domain/models"
	"redirector/internal/requests"

	flag "github.com/spf13/pflag"
)

// SearchCmd returns the search command.
func SearchCmd(env *Env) *Command {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	scope := fs.StringP("scope", "s", string(models.ScopeOldURL), "match old_url, new_url or both")
	page := fs.IntP("page", "p", 1, "page to show")
	size := fs.IntP("size", "n", 0, "page size (10, 25, 50, 100, 500 or 1000)")

	return &Command{
		Flags: fs,
		Usage: "search [flags] [query]",
		Short: "List redirects matching a query",
		Long:  "List one page of the redirects whose old or new URL contains the query.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execSearch(ctx, o, env, strings.Join(args, " "), models.SearchScope(*scope), *page, *size)
		},
	}
}

func execSearch(ctx context.Context, o *IO, env *Env, query string, scope models.SearchScope, page, size int) error {
	if size != 0 && !controller.ValidPageSize(size) {
		return models.ErrInvalidPageSize
	}

	ctl := env.Controller(size, controller.WithSearch(query, scope))
	_ = ctl.Mount(ctx)
	if err := ctl.View().Requests[requests.Get].Err; err != nil {
		return err
	}

	if page > 1 {
		if err := ctl.ChangePage(ctx, page); err != nil {
			return err
		}
	}

	v := ctl.View()
	printItems(o, v)
	printRequestErrors(o, v)
	return nil
}

// StatsCmd returns the stats command.
func StatsCmd(env *Env) *Command {
	return &Command{
		Flags: flag.NewFlagSet("stats", flag.ContinueOnError),
		Usage: "stats [query]",
		Short: "Show redirect counters",
		Long:  "Show how many redirects match the query: in total, internal, external and gone.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			st, err := env.Backend.GetStatistics(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			printStats(o, st)
			return nil
		},
	}
}
