package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"redirector/internal/controller"
	"redirector/internal/domain/models"
	"redirector/internal/requests"

	"github.com/natefinch/atomic"
	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
)

// historyName is the shell history file in the home directory.
const historyName = ".redirectctl_history"

// shellCommands lists the commands of the shell, completed on tab.
var shellCommands = []string{
	"search", "page", "size", "select", "select-all", "clear", "add", "rm",
	"export", "import", "stats", "view", "help", "quit",
}

// ShellCmd returns the shell command.
func ShellCmd(env *Env) *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Browse and edit redirects interactively",
		Long: "Start an interactive session that keeps the list, the page and the\n" +
			"selection between commands. Type 'help' inside the shell for its commands.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return NewShell(env, o).Run(ctx)
		},
	}
}

// Shell is the interactive command loop over one list controller.
type Shell struct {
	env   *Env
	ctl   *controller.ListController
	o     *IO
	liner *liner.State
}

// NewShell creates a shell with a fresh list controller.
func NewShell(env *Env, o *IO) *Shell {
	return &Shell{env: env, ctl: env.Controller(0), o: o}
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyName)
}

// Run loads the first page and reads commands until quit or end of input.
func (s *Shell) Run(ctx context.Context) error {
	s.liner = liner.NewLiner()
	defer func() {
		_ = s.liner.Close()
	}()
	s.liner.SetCtrlCAborts(true)
	s.liner.SetCompleter(complete)

	if f, err := os.Open(historyFile()); err == nil {
		_, _ = s.liner.ReadHistory(f)
		_ = f.Close()
	}
	defer s.saveHistory()

	s.o.Println("Type 'help' for available commands.")
	if _, err := s.Exec(ctx, "view"); err != nil {
		s.o.ErrPrintln("error:", err)
	}

	for {
		line, err := s.liner.Prompt("redirects> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				s.o.Println()
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.liner.AppendHistory(line)

		quit, err := s.Exec(ctx, line)
		if err != nil {
			s.o.ErrPrintln("error:", err)
		}
		s.o.Finish()
		if quit {
			return nil
		}
	}
}

func (s *Shell) saveHistory() {
	path := historyFile()
	if path == "" {
		return
	}

	var buf bytes.Buffer
	if _, err := s.liner.WriteHistory(&buf); err != nil {
		s.env.Sugar.Warnw("writing shell history", "error", err)
		return
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		s.env.Sugar.Warnw("writing shell history", "path", path, "error", err)
	}
}

func complete(line string) []string {
	var out []string
	for _, c := range shellCommands {
		if strings.HasPrefix(c, strings.ToLower(line)) {
			out = append(out, c)
		}
	}
	return out
}

// Exec runs one shell line. It reports whether the shell should stop.
func (s *Shell) Exec(ctx context.Context, line string) (quit bool, err error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		s.printHelp()
		return false, nil
	case "view", "ls":
		return false, s.view(ctx)
	case "search":
		return false, s.search(ctx, args)
	case "page":
		n, err := intArg(args, "page <n>")
		if err != nil {
			return false, err
		}
		if err := s.ctl.ChangePage(ctx, n); err != nil {
			return false, err
		}
	case "size":
		n, err := intArg(args, "size <n>")
		if err != nil {
			return false, err
		}
		if err := s.ctl.ChangePageSize(ctx, n); err != nil {
			return false, err
		}
	case "select":
		if len(args) == 0 {
			return false, usageError("select <old-url>...")
		}
		for _, p := range args {
			s.ctl.ToggleSelect(p)
		}
	case "select-all":
		s.ctl.ToggleSelectAllOnPage()
	case "clear":
		s.ctl.ClearSelection()
	case "add":
		if len(args) < 1 || len(args) > 2 {
			return false, usageError("add <old-url> [new-url]")
		}
		newURL := ""
		if len(args) == 2 {
			newURL = args[1]
		}
		if err := s.ctl.SubmitAdd(ctx, args[0], newURL); err != nil {
			return false, warnPartial(s.o, err)
		}
		s.o.Println("Redirect has been added")
	case "rm":
		var rmErr error
		if len(args) > 0 {
			rmErr = s.ctl.SubmitRemove(ctx, args)
		} else {
			rmErr = s.ctl.RemoveSelected(ctx)
		}
		if rmErr != nil {
			return false, warnPartial(s.o, rmErr)
		}
		s.o.Println("Redirect(s) have been removed")
	case "export":
		if len(args) < 1 || len(args) > 2 {
			return false, usageError("export <selected|filtered|all> [file]")
		}
		scope, err := controller.ParseExportScope(args[0])
		if err != nil {
			return false, err
		}
		output := ""
		if len(args) == 2 {
			output = args[1]
		}
		return false, execExport(ctx, s.o, s.env, s.ctl, scope, output)
	case "import":
		if len(args) != 1 {
			return false, usageError("import <file.csv>")
		}
		if err := execImport(ctx, s.o, s.ctl, args[0]); err != nil {
			return false, err
		}
	case "stats":
		printStats(s.o, s.ctl.View().Statistics)
		return false, nil
	default:
		return false, errors.New("unknown command: " + cmd + ", type 'help'")
	}

	printItems(s.o, s.ctl.View())
	return false, nil
}

func (s *Shell) view(ctx context.Context) error {
	v := s.ctl.View()
	if !v.Requests[requests.Get].Loaded {
		_ = s.ctl.Mount(ctx)
		v = s.ctl.View()
	}
	printItems(s.o, v)
	printRequestErrors(s.o, v)
	return nil
}

func (s *Shell) search(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	scope := fs.StringP("scope", "s", string(models.ScopeOldURL), "")
	if err := fs.Parse(args); err != nil {
		return usageError("search [-s old_url|new_url|both] [query]")
	}

	_ = s.ctl.Search(ctx, strings.Join(fs.Args(), " "), models.SearchScope(*scope))
	v := s.ctl.View()
	printItems(s.o, v)
	printRequestErrors(s.o, v)
	return nil
}

func intArg(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, usageError(usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, usageError(usage)
	}
	return n, nil
}

func (s *Shell) printHelp() {
	s.o.Println(`Commands:
  search [-s scope] [query]   new query, scope is old_url, new_url or both
  page <n>                    go to page n
  size <n>                    page size: 10, 25, 50, 100, 500 or 1000
  select <old-url>...         toggle the selection of paths
  select-all                  toggle the selection of the current page
  clear                       clear the selection
  add <old-url> [new-url]     add a redirect, without new-url the page is gone
  rm [old-url...]             remove paths, or the selection
  export <scope> [file]       write selected, filtered or all redirects as CSV
  import <file.csv>           add every redirect of a CSV file
  stats                       show the counters of the current query
  view                        show the current page
  quit                        leave the shell`)
}
