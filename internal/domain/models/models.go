// Package models describes the redirect records, list queries and statistics
// the control panel works with.
package models

import (
	"strings"
	"time"
)

// RedirectRecord - a single redirect rule stored by the backend.
type RedirectRecord struct {
	// Path: old URL, always starts with "/".
	Path string
	// RedirectTo: new target. Absolute path, absolute URL or empty for Gone.
	RedirectTo string
}

// IsGone reports whether the record answers with 410 instead of redirecting.
func (r RedirectRecord) IsGone() bool {
	return r.RedirectTo == ""
}

// IsExternal reports whether the record points outside of the site.
func (r RedirectRecord) IsExternal() bool {
	return strings.HasPrefix(r.RedirectTo, "http://") || strings.HasPrefix(r.RedirectTo, "https://")
}

// SearchScope selects which side of a redirect the query is matched against.
type SearchScope string

// Search scopes understood by the backend.
const (
	ScopeOldURL SearchScope = "old_url"
	ScopeNewURL SearchScope = "new_url"
	ScopeBoth   SearchScope = "both"
)

// Scopes lists the search scopes in display order.
var Scopes = []SearchScope{ScopeOldURL, ScopeNewURL, ScopeBoth}

// ParseScope maps user input onto a scope. Unknown values fall back to old_url.
func ParseScope(s string) SearchScope {
	switch SearchScope(strings.TrimSpace(s)) {
	case ScopeNewURL:
		return ScopeNewURL
	case ScopeBoth:
		return ScopeBoth
	default:
		return ScopeOldURL
	}
}

// Default list parameters.
const (
	DefaultBatchSize  = 25
	DefaultBatchStart = 0
)

// PageSizes - page sizes offered by the list view.
var PageSizes = []int{10, 25, 50, 100, 500, 1000}

// ListQuery - parameters of one items fetch.
type ListQuery struct {
	Query      string
	Scope      SearchScope
	BatchSize  int
	BatchStart int
}

// WithDefaults fills unset fields with the backend defaults.
func (q ListQuery) WithDefaults() ListQuery {
	if q.BatchSize <= 0 {
		q.BatchSize = DefaultBatchSize
	}
	if q.BatchStart < 0 {
		q.BatchStart = DefaultBatchStart
	}
	if q.Scope == "" {
		q.Scope = ScopeOldURL
	}
	return q
}

// Page - one batch of redirect records plus the size of the whole result set.
type Page struct {
	Items []RedirectRecord
	Total int
}

// Statistics - aggregate counters for a query. Nil fields were not reported.
type Statistics struct {
	Total    *int
	Internal *int
	External *int
	Gone     *int
}

// FailedItem - an item the backend refused during add or remove.
type FailedItem struct {
	Path    string
	Message string
}

// MutationResult - response of an add or remove request.
type MutationResult struct {
	Failed []FailedItem
}

// JournalOp names an action recorded in the activity journal.
type JournalOp string

// Journal operations.
const (
	JournalAdd    JournalOp = "add"
	JournalRemove JournalOp = "remove"
	JournalImport JournalOp = "import"
)

// Journal outcomes.
const (
	OutcomeOK      = "ok"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"
)

// JournalEntry - one admin action and its outcome.
type JournalEntry struct {
	ID      string
	At      time.Time
	Op      JournalOp
	Count   int
	Outcome string
	Message string
}
