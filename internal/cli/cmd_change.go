package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

// AddCmd returns the add command.
func AddCmd(env *Env) *Command {
	return &Command{
		Flags: flag.NewFlagSet("add", flag.ContinueOnError),
		Usage: "add <old-url> [new-url]",
		Short: "Add a redirect",
		Long: "Redirect old-url to new-url. The old URL must start with \"/\", the new one with\n" +
			"\"/\", \"http://\" or \"https://\". Without new-url the old URL is marked as gone.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return usageError("add <old-url> [new-url]")
			}
			newURL := ""
			if len(args) == 2 {
				newURL = args[1]
			}

			ctl := env.Controller(0)
			if err := ctl.SubmitAdd(ctx, args[0], newURL); err != nil {
				return warnPartial(o, err)
			}
			o.Println("Redirect has been added")
			return nil
		},
	}
}

// RmCmd returns the rm command.
func RmCmd(env *Env) *Command {
	return &Command{
		Flags: flag.NewFlagSet("rm", flag.ContinueOnError),
		Usage: "rm <old-url>...",
		Short: "Remove redirects",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return usageError("rm <old-url>...")
			}

			ctl := env.Controller(0)
			if err := ctl.SubmitRemove(ctx, args); err != nil {
				return warnPartial(o, err)
			}
			o.Println("Redirect(s) have been removed")
			return nil
		},
	}
}
