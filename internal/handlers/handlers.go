// Package handlers serves the redirect control panel, the 410 Gone view and
// the proxy in front of the CMS.
package handlers

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"redirector/internal/config"
	"redirector/internal/controller"
	"redirector/internal/domain/models"
	"redirector/internal/session"
	"redirector/internal/storage"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"deref": func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	},
	"add": func(a, b int) int { return a + b },
}).ParseFS(templateFS, "templates/*.html"))

type sessionKey struct{}

// Controller holds the dependencies of the HTTP handlers.
type Controller struct {
	conf     *config.Config
	journal  storage.Journal
	sessions *session.Registry
	sugar    *zap.SugaredLogger
	now      func() time.Time
}

// NewController creates the HTTP controller.
func NewController(conf *config.Config, journal storage.Journal, sessions *session.Registry, sugar *zap.SugaredLogger) *Controller {
	return &Controller{
		conf:     conf,
		journal:  journal,
		sessions: sessions,
		sugar:    sugar,
		now:      time.Now,
	}
}

// WithSession attaches the panel session of the request, starting one if needed.
func (con *Controller) WithSession(h http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		s, err := con.sessions.Acquire(res, req)
		if err != nil {
			con.sugar.Errorw("starting session", "error", err)
			http.Error(res, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		h.ServeHTTP(res, req.WithContext(context.WithValue(req.Context(), sessionKey{}, s)))
	})
}

func sessionFrom(req *http.Request) *session.Session {
	s, _ := req.Context().Value(sessionKey{}).(*session.Session)
	return s
}

// PingHandler checks the journal storage.
func (con *Controller) PingHandler() http.HandlerFunc {
	return func(res http.ResponseWriter, _ *http.Request) {
		if err := con.journal.Ping(); err != nil {
			con.sugar.Errorw("journal ping", "error", err)
			http.Error(res, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		res.WriteHeader(http.StatusOK)
	}
}

// NewControllerFactory builds list controllers for new sessions.
func NewControllerFactory(conf *config.Config, backend controller.Backend, journal storage.Journal, sugar *zap.SugaredLogger) session.Factory {
	return func() *controller.ListController {
		return controller.New(backend,
			controller.WithJournal(journal),
			controller.WithLogger(sugar),
			controller.WithPageSize(conf.BatchSize),
		)
	}
}

// pageWindow returns up to ten page numbers around page.
func pageWindow(page, pages int) []int {
	const width = 10
	if pages <= 0 {
		return nil
	}
	start := max(1, page-width/2)
	end := min(pages, start+width-1)
	start = max(1, end-width+1)

	out := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		out = append(out, p)
	}
	return out
}

// pageSizes are the choices of the page size selector.
var pageSizes = models.PageSizes
