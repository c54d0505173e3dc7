package controller

import (
	"context"
	"fmt"
	"io"
	"time"

	"redirector/internal/csvcodec"
	"redirector/internal/domain/models"
)

// ExportScope selects which records Export writes.
type ExportScope string

// Export scopes. The value doubles as the filename tag.
const (
	ExportSelected ExportScope = "selected"
	ExportFiltered ExportScope = "filtered"
	ExportAll      ExportScope = "all"
)

// ParseExportScope maps user input onto an export scope.
func ParseExportScope(s string) (ExportScope, error) {
	switch ExportScope(s) {
	case ExportSelected, ExportFiltered, ExportAll:
		return ExportScope(s), nil
	}
	return "", &models.ValidationError{Field: "scope", Reason: fmt.Sprintf("unknown export scope %q", s)}
}

// exportBatchSize is the largest page the backend is asked for while exporting.
const exportBatchSize = 1000

// maxImportSize limits the size of an uploaded CSV file.
const maxImportSize = 32 << 20

// ErrImportTooLarge - the upload exceeds maxImportSize.
var ErrImportTooLarge = fmt.Errorf("%w: file too large, the limit is %d MiB", csvcodec.ErrFormat, maxImportSize>>20)

// ImportCSV decodes a CSV upload and adds every record in one request.
// It returns the number of records sent.
func (c *ListController) ImportCSV(ctx context.Context, contentType string, r io.Reader) (int, error) {
	if err := csvcodec.CheckContentType(contentType); err != nil {
		return 0, err
	}

	data, err := io.ReadAll(io.LimitReader(r, maxImportSize+1))
	if err != nil {
		return 0, fmt.Errorf("reading csv: %w", err)
	}
	if len(data) > maxImportSize {
		return 0, ErrImportTooLarge
	}

	records, err := csvcodec.Decode(string(data))
	if err != nil {
		return 0, err
	}

	c.sugar.Infow("importing redirects", "count", len(records))
	return len(records), c.add(ctx, records, models.JournalImport)
}

// Export renders records as CSV and names the file after scope and now.
func (c *ListController) Export(ctx context.Context, scope ExportScope, now time.Time) (text, filename string, err error) {
	var records []models.RedirectRecord

	switch scope {
	case ExportSelected:
		records, err = c.selectedRecords()
	case ExportFiltered:
		c.mu.Lock()
		query, searchScope := c.query, c.scope
		c.mu.Unlock()
		records, err = c.fetchAll(ctx, query, searchScope)
	case ExportAll:
		records, err = c.fetchAll(ctx, "", models.ScopeOldURL)
	default:
		_, err = ParseExportScope(string(scope))
	}
	if err != nil {
		return "", "", err
	}

	text, filename = csvcodec.Encode(records, string(scope), now)
	return text, filename, nil
}

// selectedRecords resolves the selection against every record seen so far.
// Paths that were never loaded are left out.
func (c *ListController) selectedRecords() ([]models.RedirectRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selected.len() == 0 {
		return nil, models.ErrNothingSelected
	}

	records := make([]models.RedirectRecord, 0, c.selected.len())
	for _, p := range c.selected.list() {
		if rec, ok := c.known[p]; ok {
			records = append(records, rec)
			continue
		}
		c.sugar.Debugw("selected path not loaded, skipping export", "path", p)
	}
	return records, nil
}

// fetchAll pages through every record matching query.
func (c *ListController) fetchAll(ctx context.Context, query string, scope models.SearchScope) ([]models.RedirectRecord, error) {
	var out []models.RedirectRecord
	for start := 0; ; start += exportBatchSize {
		page, err := c.backend.GetRedirects(ctx, models.ListQuery{
			Query:      query,
			Scope:      scope,
			BatchSize:  exportBatchSize,
			BatchStart: start,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, page.Items...)
		if len(page.Items) == 0 || start+exportBatchSize >= page.Total {
			return out, nil
		}
	}
}
