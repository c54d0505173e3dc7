// Package cli implements redirectctl, the terminal client of the redirects API.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"redirector/internal/app"
	"redirector/internal/backend"
	"redirector/internal/config"
	"redirector/internal/controller"
	"redirector/internal/domain/models"
	"redirector/internal/logger"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

// Env holds what every command needs.
type Env struct {
	Config  *config.Config
	Backend controller.Backend
	Journal controller.Journal
	Sugar   *zap.SugaredLogger
	Now     func() time.Time
}

// Controller returns a list controller over the backend. A size of 0 uses
// the configured page size.
func (e *Env) Controller(size int, opts ...controller.Option) *controller.ListController {
	if size == 0 {
		size = e.Config.BatchSize
	}
	base := []controller.Option{
		controller.WithLogger(e.Sugar),
		controller.WithPageSize(size),
		controller.WithClock(e.Now),
	}
	if e.Journal != nil {
		base = append(base, controller.WithJournal(e.Journal))
	}
	return controller.New(e.Backend, append(base, opts...)...)
}

// Commands returns every command in help order.
func Commands(env *Env) []*Command {
	return []*Command{
		SearchCmd(env),
		StatsCmd(env),
		AddCmd(env),
		RmCmd(env),
		ImportCmd(env),
		ExportCmd(env),
		ShellCmd(env),
		PrintConfigCmd(env.Config),
	}
}

type globalFlags struct {
	configPath string
	backendURL string
	timeout    int
	verbose    bool
	help       bool
}

func newGlobalFlagSet(g *globalFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("redirectctl", flag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(&strings.Builder{})
	fs.StringVarP(&g.configPath, "config", "c", "", "path to config file (json)")
	fs.StringVarP(&g.backendURL, "backend", "r", "", "site root serving the @redirects API")
	fs.IntVarP(&g.timeout, "timeout", "t", 0, "request timeout in seconds")
	fs.BoolVarP(&g.verbose, "verbose", "v", false, "log backend requests to stderr")
	fs.BoolVarP(&g.help, "help", "h", false, "show help")
	return fs
}

// LoadConfig applies the environment, the config file and the global flags
// to the defaults.
func LoadConfig(g globalFlags) (*config.Config, error) {
	c := config.NewConfig()
	config.ApplyEnv(c)

	if g.configPath != "" {
		c.ConfigPath = g.configPath
	}
	if c.ConfigPath != "" {
		if err := config.LoadFile(c, c.ConfigPath); err != nil {
			return nil, err
		}
	}

	if g.backendURL != "" {
		c.BackendURL = g.backendURL
	}
	if g.timeout > 0 {
		c.Timeout = g.timeout
	}
	return c, nil
}

// Run is the main entry point. Returns exit code.
func Run(ctx context.Context, out, errOut io.Writer, args []string) int {
	o := NewIO(out, errOut)

	var g globalFlags
	fs := newGlobalFlagSet(&g)
	if len(args) > 0 {
		args = args[1:]
	}
	if err := fs.Parse(args); err != nil {
		o.ErrPrintln("error:", err)
		printUsage(o, fs, nil)
		return 1
	}

	c, err := LoadConfig(g)
	if err != nil {
		o.ErrPrintln("error:", err)
		return 1
	}

	sugar, err := logger.NewCLILogger(g.verbose)
	if err != nil {
		o.ErrPrintln("error:", err)
		return 1
	}
	defer func() {
		_ = sugar.Sync()
	}()

	env := &Env{
		Config:  c,
		Backend: backend.NewClient(c.BackendURL, c.RequestTimeout(), sugar),
		Sugar:   sugar,
		Now:     time.Now,
	}
	commands := Commands(env)

	rest := fs.Args()
	if g.help || len(rest) == 0 {
		printUsage(o, fs, commands)
		return 0
	}

	cmd := findCommand(commands, rest[0])
	if cmd == nil {
		o.ErrPrintln("error: unknown command:", rest[0])
		printUsage(o, fs, commands)
		return 1
	}

	if needsJournal(cmd) && (c.DBConnection != "" || c.JournalFile != "") {
		journal := app.SelectStorage(c, sugar)
		defer func() {
			if err := journal.Close(); err != nil {
				sugar.Warnw("closing journal", "error", err)
			}
		}()
		env.Journal = journal
	}

	return cmd.Run(ctx, o, rest[1:])
}

func findCommand(commands []*Command, name string) *Command {
	for _, cmd := range commands {
		if cmd.Name() == name {
			return cmd
		}
	}
	return nil
}

// needsJournal reports whether cmd changes redirects.
func needsJournal(cmd *Command) bool {
	switch cmd.Name() {
	case "add", "rm", "import", "shell":
		return true
	}
	return false
}

func printUsage(o *IO, fs *flag.FlagSet, commands []*Command) {
	o.Println("Usage: redirectctl [flags] <command> [args]")
	o.Println()
	o.Println("Manage the redirects of a site from the terminal.")

	if len(commands) > 0 {
		o.Println()
		o.Println("Commands:")
		for _, cmd := range commands {
			o.Println(cmd.HelpLine())
		}
	}

	o.Println()
	o.Println("Flags:")
	var buf strings.Builder
	fs.SetOutput(&buf)
	fs.PrintDefaults()
	fs.SetOutput(&strings.Builder{})
	o.Printf("%s", buf.String())
}

// warnPartial turns a partial failure into a warning and passes every other
// error through.
func warnPartial(o *IO, err error) error {
	var partial *models.PartialFailureError
	if errors.As(err, &partial) {
		for _, f := range partial.Failed {
			if f.Message != "" {
				o.Warn("%s: %s failed: %s", partial.Op, f.Path, f.Message)
				continue
			}
			o.Warn("%s: %s failed", partial.Op, f.Path)
		}
		return nil
	}
	return err
}

// ErrUsage - wrong number of arguments.
var ErrUsage = errors.New("wrong arguments")

func usageError(usage string) error {
	return fmt.Errorf("%w, usage: %s", ErrUsage, usage)
}
