package controller

import (
	"redirector/internal/domain/models"
	"redirector/internal/requests"
)

// Item is a record of the current page as the list shows it.
type Item struct {
	models.RedirectRecord
	Selected bool
}

// View is a snapshot of the list state for rendering.
type View struct {
	Query      string
	Scope      models.SearchScope
	Page       int
	Pages      int
	PageSize   int
	BatchStart int
	Total      int
	Items      []Item
	Statistics *models.Statistics

	Selected          []string
	AllOnPageSelected bool

	OldURL        string
	NewURL        string
	OldURLCorrect bool
	NewURLCorrect bool
	AddError      string

	Requests map[requests.Op]requests.State
}

// Loading reports whether any request is in flight.
func (v View) Loading() bool {
	for _, s := range v.Requests {
		if s.Loading {
			return true
		}
	}
	return false
}

// View returns a copy of the current state.
func (c *ListController) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]Item, len(c.items))
	for i, it := range c.items {
		items[i] = Item{RedirectRecord: it, Selected: c.selected.has(it.Path)}
	}

	var stats *models.Statistics
	if c.stats != nil {
		s := *c.stats
		stats = &s
	}

	return View{
		Query:             c.query,
		Scope:             c.scope,
		Page:              c.page,
		Pages:             Pages(c.total, c.pageSize),
		PageSize:          c.pageSize,
		BatchStart:        c.batchStart,
		Total:             c.total,
		Items:             items,
		Statistics:        stats,
		Selected:          c.selected.list(),
		AllOnPageSelected: c.allOnPageSelected(),
		OldURL:            c.oldURL,
		NewURL:            c.newURL,
		OldURLCorrect:     ValidateOldURL(c.oldURL) == nil,
		NewURLCorrect:     ValidateNewURL(c.newURL) == nil,
		AddError:          c.addErr,
		Requests:          c.requests.Snapshot(),
	}
}
