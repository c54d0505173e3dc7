package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"redirector/internal/config"
	"redirector/internal/domain/models"
	"redirector/internal/session"
	"redirector/internal/storage"

	"go.uber.org/zap"
)

// staticBackend serves one fixed page.
type staticBackend struct {
	page models.Page
}

func (b staticBackend) GetRedirects(context.Context, models.ListQuery) (models.Page, error) {
	return b.page, nil
}

func (b staticBackend) GetStatistics(context.Context, string) (*models.Statistics, error) {
	total := b.page.Total
	return &models.Statistics{Total: &total}, nil
}

func (staticBackend) AddRedirects(context.Context, []models.RedirectRecord) (models.MutationResult, error) {
	return models.MutationResult{}, nil
}

func (staticBackend) RemoveRedirects(context.Context, []string) (models.MutationResult, error) {
	return models.MutationResult{}, nil
}

func prepareBench() *Controller {
	sugar := zap.NewNop().Sugar()
	c := config.NewConfig()
	journal := storage.NewStorageMemory()

	var backend staticBackend
	for i := range 100 {
		backend.page.Items = append(backend.page.Items, models.RedirectRecord{
			Path:       fmt.Sprintf("/old/page-%d", i),
			RedirectTo: fmt.Sprintf("/new/page-%d", i),
		})
	}
	backend.page.Total = len(backend.page.Items)

	sessions := session.NewRegistry(nil, nil, time.Hour, NewControllerFactory(c, backend, journal, sugar), sugar)
	return NewController(c, journal, sessions, sugar)
}

func BenchmarkGone(b *testing.B) {
	controller := prepareBench()
	handler := controller.Gone()
	r := httptest.NewRequest(http.MethodGet, "/@@gone?url=https://example.com/old", nil)

	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), r)
	}
}

func BenchmarkPanel(b *testing.B) {
	controller := prepareBench()
	handler := controller.WithSession(controller.Panel())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	res := w.Result()
	_ = res.Body.Close()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range res.Cookies() {
		r.AddCookie(c)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), r)
	}
}
