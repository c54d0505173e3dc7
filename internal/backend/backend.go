// Package backend is the HTTP client of the CMS @redirects API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"redirector/internal/domain/models"
	jsonmodels "redirector/internal/domain/models/json"

	"go.uber.org/zap"
)

// API endpoints relative to the site root.
const (
	redirectsPath  = "/@redirects"
	statisticsPath = "/@redirects-statistics"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Client talks to the @redirects endpoints of one site.
type Client struct {
	baseURL string
	client  *http.Client
	sugar   *zap.SugaredLogger
}

// NewClient returns a client for the site at baseURL. Every request is
// bounded by timeout.
func NewClient(baseURL string, timeout time.Duration, sugar *zap.SugaredLogger) *Client {
	if sugar == nil {
		sugar = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		sugar:   sugar,
	}
}

// GetRedirects fetches one batch of redirects matching q.
func (c *Client) GetRedirects(ctx context.Context, q models.ListQuery) (models.Page, error) {
	q = q.WithDefaults()

	v := url.Values{}
	v.Set("q", q.Query)
	v.Set("b_size", strconv.Itoa(q.BatchSize))
	v.Set("b_start", strconv.Itoa(q.BatchStart))
	v.Set("search_scope", string(q.Scope))

	var resp jsonmodels.ItemsResponse
	if err := c.do(ctx, "get", http.MethodGet, redirectsPath+"?"+v.Encode(), nil, &resp); err != nil {
		return models.Page{}, err
	}
	return models.Page{Items: jsonmodels.ToDomain(resp.Items), Total: resp.ItemsTotal}, nil
}

// GetStatistics fetches the counters for query.
func (c *Client) GetStatistics(ctx context.Context, query string) (*models.Statistics, error) {
	v := url.Values{}
	v.Set("q", query)

	var resp jsonmodels.StatisticsResponse
	if err := c.do(ctx, "getstatistics", http.MethodGet, statisticsPath+"?"+v.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	stats := jsonmodels.StatisticsToDomain(resp.Statistics)
	if stats == nil {
		stats = &models.Statistics{}
	}
	return stats, nil
}

// AddRedirects creates or replaces redirects.
func (c *Client) AddRedirects(ctx context.Context, records []models.RedirectRecord) (models.MutationResult, error) {
	body := jsonmodels.AddRequest{Items: jsonmodels.FromDomain(records)}

	var resp jsonmodels.MutationResponse
	if err := c.do(ctx, "add", http.MethodPost, redirectsPath, body, &resp); err != nil {
		return models.MutationResult{}, err
	}
	return models.MutationResult{Failed: jsonmodels.FailedToDomain(resp.Failed)}, nil
}

// RemoveRedirects deletes the redirects of paths.
func (c *Client) RemoveRedirects(ctx context.Context, paths []string) (models.MutationResult, error) {
	body := jsonmodels.RemoveRequest{Items: make([]jsonmodels.PathItem, len(paths))}
	for i, p := range paths {
		body.Items[i] = jsonmodels.PathItem{Path: p}
	}

	var resp jsonmodels.MutationResponse
	if err := c.do(ctx, "remove", http.MethodDelete, redirectsPath, body, &resp); err != nil {
		return models.MutationResult{}, err
	}
	return models.MutationResult{Failed: jsonmodels.FailedToDomain(resp.Failed)}, nil
}

// do sends one JSON request and decodes a 2xx response into out. Empty
// bodies leave out untouched.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &models.BackendRequestError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &models.BackendRequestError{Op: op, Err: fmt.Errorf("new request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return &models.BackendRequestError{Op: op, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.sugar.Errorw("closing backend response", "op", op, "error", err)
		}
	}()

	c.sugar.Debugw("backend request",
		"op", op,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &models.BackendRequestError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &models.BackendRequestError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorMessage extracts the message of a JSON error body.
func errorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}

	var e jsonmodels.ErrorResponse
	if err := json.Unmarshal(data, &e); err != nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Error != nil {
		return e.Error.Message
	}
	return ""
}
