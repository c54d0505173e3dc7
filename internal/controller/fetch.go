package controller

import (
	"context"
	"errors"
	"sync"

	"redirector/internal/domain/models"
	"redirector/internal/requests"
)

// refresh fetches items and statistics concurrently.
func (c *ListController) refresh(ctx context.Context) error {
	var (
		wg               sync.WaitGroup
		itemsErr, stsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		itemsErr = c.fetchItems(ctx)
	}()
	go func() {
		defer wg.Done()
		stsErr = c.fetchStatistics(ctx)
	}()
	wg.Wait()

	return errors.Join(itemsErr, stsErr)
}

// begin marks op as pending and returns the sequence number of the new request.
// Must be called with c.mu held.
func (c *ListController) begin(op requests.Op) uint64 {
	c.seq[op]++
	c.requests.Start(op)
	return c.seq[op]
}

// current reports whether seq is still the latest request of op.
// Must be called with c.mu held.
func (c *ListController) current(op requests.Op, seq uint64) bool {
	return c.seq[op] == seq
}

func (c *ListController) fetchItems(ctx context.Context) error {
	c.mu.Lock()
	seq := c.begin(requests.Get)
	q := models.ListQuery{
		Query:      c.query,
		Scope:      c.scope,
		BatchSize:  c.pageSize,
		BatchStart: c.batchStart,
	}
	c.mu.Unlock()

	page, err := c.backend.GetRedirects(ctx, q)

	c.mu.Lock()
	if !c.current(requests.Get, seq) {
		c.mu.Unlock()
		c.sugar.Debugw("dropping stale items response", "seq", seq)
		return nil
	}
	if err != nil {
		c.requests.Fail(requests.Get, err)
		c.mu.Unlock()
		return err
	}

	c.items = page.Items
	c.total = page.Total
	for _, it := range page.Items {
		c.known[it.Path] = it
	}
	c.requests.Succeed(requests.Get, nil)

	// The last page shrank below the current offset after a removal.
	pastEnd := len(page.Items) == 0 && c.batchStart > 0 && c.batchStart >= page.Total
	if pastEnd {
		c.page = max(1, Pages(c.total, c.pageSize))
		c.batchStart = BatchStart(c.page, c.pageSize, c.total)
	}
	c.mu.Unlock()

	if pastEnd {
		return c.fetchItems(ctx)
	}
	return nil
}

func (c *ListController) fetchStatistics(ctx context.Context) error {
	c.mu.Lock()
	seq := c.begin(requests.GetStatistics)
	c.stats = nil
	query := c.query
	c.mu.Unlock()

	stats, err := c.backend.GetStatistics(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(requests.GetStatistics, seq) {
		c.sugar.Debugw("dropping stale statistics response", "seq", seq)
		return nil
	}
	if err != nil {
		c.requests.Fail(requests.GetStatistics, err)
		return err
	}
	c.stats = stats
	c.requests.Succeed(requests.GetStatistics, nil)
	return nil
}
