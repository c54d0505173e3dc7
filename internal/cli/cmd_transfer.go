package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"redirector/internal/controller"
	"redirector/internal/csvcodec"
	"redirector/internal/domain/models"

	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"
)

// ImportCmd returns the import command.
func ImportCmd(env *Env) *Command {
	return &Command{
		Flags: flag.NewFlagSet("import", flag.ContinueOnError),
		Usage: "import <file.csv>",
		Short: "Add every redirect of a CSV file",
		Long: "Add every redirect of a two-column CSV file. The first line is a header\n" +
			"(\"" + csvcodec.Header + "\" in exported files) and is always skipped.\n" +
			"Rows with an empty second column mark the old URL as gone.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) != 1 {
				return usageError("import <file.csv>")
			}
			return execImport(ctx, o, env.Controller(0), args[0])
		},
	}
}

func execImport(ctx context.Context, o *IO, ctl *controller.ListController, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	n, err := ctl.ImportCSV(ctx, contentType(path), f)
	if errors.Is(err, csvcodec.ErrUnsupportedType) {
		return fmt.Errorf("%s: invalid file type, please select a CSV file", path)
	}
	if errors.Is(err, csvcodec.ErrFormat) {
		return fmt.Errorf("failed to import CSV: %w", err)
	}
	if n > 0 {
		o.Printf("Importing %d redirect(s)...\n", n)
	}
	return warnPartial(o, err)
}

// contentType guesses the upload type the panel would see for path.
func contentType(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return csvcodec.MIMEType
	}
	return "application/octet-stream"
}

// ExportCmd returns the export command.
func ExportCmd(env *Env) *Command {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	query := fs.StringP("query", "q", "", "export only redirects matching the query")
	scope := fs.StringP("scope", "s", string(models.ScopeOldURL), "search scope of --query")
	output := fs.StringP("output", "o", "", "file or directory to write (default: generated name in the current directory)")

	return &Command{
		Flags: fs,
		Usage: "export [flags]",
		Short: "Download redirects as CSV",
		Long:  "Write every redirect, or those matching --query, to a CSV file.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			exportScope := controller.ExportAll
			if *query != "" {
				exportScope = controller.ExportFiltered
			}
			ctl := env.Controller(0, controller.WithSearch(*query, models.SearchScope(*scope)))
			return execExport(ctx, o, env, ctl, exportScope, *output)
		},
	}
}

func execExport(ctx context.Context, o *IO, env *Env, ctl *controller.ListController, scope controller.ExportScope, output string) error {
	text, filename, err := ctl.Export(ctx, scope, env.Now())
	if err != nil {
		return err
	}

	path := filename
	if output != "" {
		path = output
		if st, err := os.Stat(output); err == nil && st.IsDir() {
			path = filepath.Join(output, filename)
		}
	}

	if err := atomic.WriteFile(path, strings.NewReader(text)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	o.Println(path)
	return nil
}
