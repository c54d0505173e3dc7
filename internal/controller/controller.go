// Package controller implements the redirect list: query and pagination
// bookkeeping, the selection, the add form and the calls to the backend that
// keep the list fresh after every change.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"redirector/internal/domain/models"
	"redirector/internal/requests"

	"go.uber.org/zap"
)

// Backend is the redirects API the list reads from and writes to.
//
//go:generate mockgen -destination=../mocks/mock_backend.go -package=mocks redirector/internal/controller Backend
type Backend interface {
	GetRedirects(ctx context.Context, q models.ListQuery) (models.Page, error)
	GetStatistics(ctx context.Context, query string) (*models.Statistics, error)
	AddRedirects(ctx context.Context, records []models.RedirectRecord) (models.MutationResult, error)
	RemoveRedirects(ctx context.Context, paths []string) (models.MutationResult, error)
}

// Journal records the outcome of every change sent to the backend.
type Journal interface {
	Record(ctx context.Context, e models.JournalEntry) error
}

// DefaultAddError is shown when a failed add carries no message.
const DefaultAddError = "An error occurred"

// ListController owns the state of one redirect list view. It is safe for
// concurrent use; backend calls run without holding the lock.
type ListController struct {
	backend Backend
	journal Journal
	sugar   *zap.SugaredLogger
	now     func() time.Time

	mu         sync.Mutex
	query      string
	scope      models.SearchScope
	page       int
	pageSize   int
	batchStart int
	items      []models.RedirectRecord
	total      int
	stats      *models.Statistics
	selected   selection
	known      map[string]models.RedirectRecord
	oldURL     string
	newURL     string
	addErr     string
	requests   requests.Tracker
	seq        map[requests.Op]uint64
}

// Option configures a ListController.
type Option func(*ListController)

// WithJournal records add, remove and import outcomes in j.
func WithJournal(j Journal) Option {
	return func(c *ListController) { c.journal = j }
}

// WithLogger sets the logger.
func WithLogger(sugar *zap.SugaredLogger) Option {
	return func(c *ListController) { c.sugar = sugar }
}

// WithPageSize sets the initial page size. Sizes not offered by the list are ignored.
func WithPageSize(size int) Option {
	return func(c *ListController) {
		if ValidPageSize(size) {
			c.pageSize = size
		}
	}
}

// WithSearch sets the initial query without loading it.
func WithSearch(query string, scope models.SearchScope) Option {
	return func(c *ListController) {
		c.query = query
		c.scope = models.ParseScope(string(scope))
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *ListController) { c.now = now }
}

// New creates a list controller showing the first page of all redirects.
func New(backend Backend, opts ...Option) *ListController {
	c := &ListController{
		backend:  backend,
		sugar:    zap.NewNop().Sugar(),
		now:      time.Now,
		scope:    models.ScopeOldURL,
		page:     1,
		pageSize: models.DefaultBatchSize,
		known:    make(map[string]models.RedirectRecord),
		seq:      make(map[requests.Op]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount loads the items and statistics for the current state.
func (c *ListController) Mount(ctx context.Context) error {
	return c.refresh(ctx)
}

// Search starts over from page one with a new query and scope. Items and
// statistics are fetched concurrently and fail independently.
func (c *ListController) Search(ctx context.Context, query string, scope models.SearchScope) error {
	c.mu.Lock()
	c.query = query
	c.scope = models.ParseScope(string(scope))
	c.page = 1
	c.batchStart = 0
	c.mu.Unlock()

	return c.refresh(ctx)
}

// ChangePage moves to a 1-based page and reloads the items.
func (c *ListController) ChangePage(ctx context.Context, page int) error {
	c.mu.Lock()
	page = min(page, max(1, Pages(c.total, c.pageSize)))
	page = max(1, page)
	c.page = page
	c.batchStart = BatchStart(page, c.pageSize, c.total)
	c.mu.Unlock()

	return c.fetchItems(ctx)
}

// ChangePageSize switches the page size, returns to page one and reloads the items.
func (c *ListController) ChangePageSize(ctx context.Context, size int) error {
	if !ValidPageSize(size) {
		return models.ErrInvalidPageSize
	}

	c.mu.Lock()
	c.pageSize = size
	c.page = 1
	c.batchStart = 0
	c.mu.Unlock()

	return c.fetchItems(ctx)
}

// ToggleSelect adds path to the selection or removes it.
func (c *ListController) ToggleSelect(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected.toggle(path)
}

// ToggleSelectAllOnPage deselects the current page when all of it is
// selected and selects all of it otherwise. Paths on other pages stay as they are.
func (c *ListController) ToggleSelectAllOnPage() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.allOnPageSelected() {
		for _, it := range c.items {
			c.selected.remove(it.Path)
		}
		return
	}
	for _, it := range c.items {
		c.selected.add(it.Path)
	}
}

// ClearSelection empties the selection.
func (c *ListController) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected.clear()
}

// EditForm stores the add form input and drops the last add error.
func (c *ListController) EditForm(oldURL, newURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.oldURL = oldURL
	c.newURL = newURL
	c.addErr = ""
}

// SubmitAdd validates and adds one redirect. On success the form is cleared
// and the list reloaded. A PartialFailureError keeps the form. Submitting
// input that differs from the stored form counts as an edit and drops the
// last add error.
func (c *ListController) SubmitAdd(ctx context.Context, oldURL, newURL string) error {
	c.mu.Lock()
	if oldURL != c.oldURL || newURL != c.newURL {
		c.addErr = ""
	}
	c.oldURL = oldURL
	c.newURL = newURL
	c.mu.Unlock()

	if err := ValidateOldURL(oldURL); err != nil {
		return err
	}
	if err := ValidateNewURL(newURL); err != nil {
		return err
	}

	record := models.RedirectRecord{Path: strings.TrimSpace(oldURL), RedirectTo: strings.TrimSpace(newURL)}
	if err := c.add(ctx, []models.RedirectRecord{record}, models.JournalAdd); err != nil {
		return err
	}

	c.mu.Lock()
	c.oldURL = ""
	c.newURL = ""
	c.mu.Unlock()
	return nil
}

// RemoveSelected removes every selected redirect.
func (c *ListController) RemoveSelected(ctx context.Context) error {
	c.mu.Lock()
	paths := c.selected.list()
	c.mu.Unlock()

	return c.SubmitRemove(ctx, paths)
}

// SubmitRemove removes the given paths. On success the selection is cleared
// and the list reloaded.
func (c *ListController) SubmitRemove(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return models.ErrNothingSelected
	}

	c.mu.Lock()
	c.requests.Start(requests.Remove)
	c.mu.Unlock()

	res, err := c.backend.RemoveRedirects(ctx, paths)

	c.mu.Lock()
	if err != nil {
		c.requests.Fail(requests.Remove, err)
		c.mu.Unlock()
		c.record(ctx, models.JournalRemove, len(paths), err)
		return err
	}
	c.requests.Succeed(requests.Remove, res.Failed)
	partialErr := c.requests.State(requests.Remove).Err
	c.selected.clear()
	for _, p := range paths {
		delete(c.known, p)
	}
	c.mu.Unlock()

	c.record(ctx, models.JournalRemove, len(paths), partialErr)
	c.reload(ctx)

	return partialErr
}

// add posts records and reloads the list when the backend accepted the request.
func (c *ListController) add(ctx context.Context, records []models.RedirectRecord, op models.JournalOp) error {
	c.mu.Lock()
	c.requests.Start(requests.Add)
	c.mu.Unlock()

	res, err := c.backend.AddRedirects(ctx, records)

	c.mu.Lock()
	if err != nil {
		c.requests.Fail(requests.Add, err)
		c.addErr = errorMessage(err)
		c.mu.Unlock()
		c.record(ctx, op, len(records), err)
		return err
	}

	c.requests.Succeed(requests.Add, res.Failed)
	partialErr := c.requests.State(requests.Add).Err
	if partialErr != nil {
		c.addErr = partialErr.Error()
	} else {
		c.addErr = ""
	}
	c.mu.Unlock()

	c.record(ctx, op, len(records), partialErr)
	c.reload(ctx)

	return partialErr
}

// reload refreshes items and statistics after a change. Failures stay in
// the request state of their operation.
func (c *ListController) reload(ctx context.Context) {
	if err := c.refresh(ctx); err != nil {
		c.sugar.Warnw("reloading redirects after change", "error", err)
	}
}

func (c *ListController) record(ctx context.Context, op models.JournalOp, count int, err error) {
	if c.journal == nil {
		return
	}

	e := models.JournalEntry{At: c.now().UTC(), Op: op, Count: count, Outcome: models.OutcomeOK}
	var partial *models.PartialFailureError
	switch {
	case errors.As(err, &partial):
		e.Outcome = models.OutcomePartial
		e.Message = err.Error()
	case err != nil:
		e.Outcome = models.OutcomeFailed
		e.Message = err.Error()
	}

	if jerr := c.journal.Record(ctx, e); jerr != nil {
		c.sugar.Errorw("recording journal entry", "op", op, "error", jerr)
	}
}

// errorMessage returns the text shown under the add form.
func errorMessage(err error) string {
	var bre *models.BackendRequestError
	if errors.As(err, &bre) && bre.Message != "" {
		return bre.Message
	}
	return DefaultAddError
}

func (c *ListController) allOnPageSelected() bool {
	if len(c.items) == 0 {
		return false
	}
	for _, it := range c.items {
		if !c.selected.has(it.Path) {
			return false
		}
	}
	return true
}
