package cli

import (
	"context"
	"strconv"

	"redirector/internal/config"

	flag "github.com/spf13/pflag"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and the file it was loaded from.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			execPrintConfig(o, cfg)
			return nil
		},
	}
}

func execPrintConfig(o *IO, cfg *config.Config) {
	o.Println("backend_url=" + cfg.BackendURL)
	o.Println("timeout=" + strconv.Itoa(cfg.Timeout))
	o.Println("batch_size=" + strconv.Itoa(cfg.BatchSize))

	if cfg.DBConnection != "" {
		o.Println("database_dsn=(set)")
	}
	if cfg.JournalFile != "" {
		o.Println("file_storage_path=" + cfg.JournalFile)
	}

	o.Println("")
	o.Println("# sources")
	if cfg.ConfigPath == "" {
		o.Println("(defaults and environment only)")
	} else {
		o.Println("config=" + cfg.ConfigPath)
	}
}
