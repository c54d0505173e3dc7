// Package models holds the JSON shapes exchanged with the redirects backend
// and served by the panel's state endpoint.
package models

import (
	"time"

	domain "redirector/internal/domain/models"
)

// RedirectItem - redirect record as the backend serializes it.
type RedirectItem struct {
	Path       string `json:"path"`
	RedirectTo string `json:"redirect-to"`
}

// PathItem - identifies a redirect to remove.
type PathItem struct {
	Path string `json:"path"`
}

// ItemsResponse - body of GET @redirects.
type ItemsResponse struct {
	Items      []RedirectItem `json:"items"`
	ItemsTotal int            `json:"items_total"`
}

// StatisticsBody - counters of GET @redirects-statistics.
type StatisticsBody struct {
	Total    *int `json:"total,omitempty"`
	Internal *int `json:"internal,omitempty"`
	External *int `json:"external,omitempty"`
	Gone     *int `json:"gone,omitempty"`
}

// StatisticsResponse - body of GET @redirects-statistics.
type StatisticsResponse struct {
	Statistics *StatisticsBody `json:"statistics"`
}

// AddRequest - body of POST @redirects.
type AddRequest struct {
	Items []RedirectItem `json:"items"`
}

// RemoveRequest - body of DELETE @redirects.
type RemoveRequest struct {
	Items []PathItem `json:"items"`
}

// FailedItem - refused item reported by the backend.
type FailedItem struct {
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// MutationResponse - body returned by POST and DELETE @redirects.
type MutationResponse struct {
	Failed []FailedItem `json:"failed,omitempty"`
}

// ErrorResponse - error body returned by the backend.
type ErrorResponse struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ToDomain converts wire items into domain records.
func ToDomain(items []RedirectItem) []domain.RedirectRecord {
	records := make([]domain.RedirectRecord, len(items))
	for i, it := range items {
		records[i] = domain.RedirectRecord{Path: it.Path, RedirectTo: it.RedirectTo}
	}
	return records
}

// FromDomain converts domain records into wire items.
func FromDomain(records []domain.RedirectRecord) []RedirectItem {
	items := make([]RedirectItem, len(records))
	for i, r := range records {
		items[i] = RedirectItem{Path: r.Path, RedirectTo: r.RedirectTo}
	}
	return items
}

// StatisticsToDomain converts the statistics body. A missing body yields nil.
func StatisticsToDomain(b *StatisticsBody) *domain.Statistics {
	if b == nil {
		return nil
	}
	return &domain.Statistics{Total: b.Total, Internal: b.Internal, External: b.External, Gone: b.Gone}
}

// FailedToDomain converts refused items.
func FailedToDomain(failed []FailedItem) []domain.FailedItem {
	if len(failed) == 0 {
		return nil
	}
	out := make([]domain.FailedItem, len(failed))
	for i, f := range failed {
		out[i] = domain.FailedItem{Path: f.Path, Message: f.Message}
	}
	return out
}

// RequestState - one operation's lifecycle as exposed by GET /state.
type RequestState struct {
	Loading bool   `json:"loading"`
	Loaded  bool   `json:"loaded"`
	Error   string `json:"error,omitempty"`
}

// ViewItem - list row exposed by GET /state.
type ViewItem struct {
	Path       string `json:"path"`
	RedirectTo string `json:"redirect-to"`
	Selected   bool   `json:"selected"`
}

// ViewResponse - controller snapshot exposed by GET /state.
type ViewResponse struct {
	Query         string                  `json:"query"`
	SearchScope   string                  `json:"search_scope"`
	Page          int                     `json:"page"`
	Pages         int                     `json:"pages"`
	BatchSize     int                     `json:"b_size"`
	BatchStart    int                     `json:"b_start"`
	ItemsTotal    int                     `json:"items_total"`
	Items         []ViewItem              `json:"items"`
	Statistics    *StatisticsBody         `json:"statistics"`
	Selected      []string                `json:"selected"`
	AllOnPage     bool                    `json:"all_on_page_selected"`
	AddError      string                  `json:"add_error,omitempty"`
	Requests      map[string]RequestState `json:"requests"`
	OldURL        string                  `json:"old_url"`
	NewURL        string                  `json:"new_url"`
	OldURLCorrect bool                    `json:"old_url_correct"`
	NewURLCorrect bool                    `json:"new_url_correct"`
}

// JournalJSON - one line of the journal file.
type JournalJSON struct {
	ID      string    `json:"id"`
	At      time.Time `json:"at"`
	Op      string    `json:"op"`
	Count   int       `json:"count"`
	Outcome string    `json:"outcome"`
	Message string    `json:"message,omitempty"`
}

// JournalToJSON converts a journal entry into its file form.
func JournalToJSON(e domain.JournalEntry) JournalJSON {
	return JournalJSON{ID: e.ID, At: e.At, Op: string(e.Op), Count: e.Count, Outcome: e.Outcome, Message: e.Message}
}

// Domain converts a journal line back into an entry.
func (j JournalJSON) Domain() domain.JournalEntry {
	return domain.JournalEntry{ID: j.ID, At: j.At, Op: domain.JournalOp(j.Op), Count: j.Count, Outcome: j.Outcome, Message: j.Message}
}
