package app

import (
	"net/http"
	"net/url"
	"time"

	"redirector/internal/config"
	"redirector/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Panel mount points. The second one is the path the CMS links to.
var PanelPrefixes = []string{"/controlpanel/redirects", "/controlpanel/eea-redirects"}

// InitMiddleware - initializes middleware handlers for the router.
func InitMiddleware(r *chi.Mux, conf *config.Config, ctrl *handlers.Controller) {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(ctrl.LoggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(conf.RequestTimeout()))
	r.Mount("/debug", middleware.Profiler())
}

// Routing - registers the routes of the panel server.
// Registered routes:
//   - GET "/ping": journal availability check through ctrl.PingHandler().
//   - GET "/@@gone": the 410 Gone page through ctrl.Gone().
//   - the control panel under every prefix of PanelPrefixes, see panelRoutes.
//   - every other path goes to the upstream proxy when one is configured.
func Routing(r *chi.Mux, ctrl *handlers.Controller, upstream *url.URL) {
	r.Get("/ping", ctrl.PingHandler())
	r.Get("/@@gone", ctrl.Gone())

	for _, prefix := range PanelPrefixes {
		r.Get(prefix, http.RedirectHandler(prefix+"/", http.StatusMovedPermanently).ServeHTTP)
		r.Route(prefix+"/", func(r chi.Router) {
			panelRoutes(r, ctrl)
		})
	}

	if upstream != nil {
		r.NotFound(ctrl.GoneProxy(upstream).ServeHTTP)
	}
}

// panelRoutes registers the control panel:
//   - GET "/": the panel page, GET "/state": its JSON state.
//   - POST "/search", "/page", "/size", "/select", "/select-all", "/add",
//     "/remove", "/import", "/close": form actions, answered with 303 to the panel.
//   - GET "/export?scope=": CSV download.
func panelRoutes(r chi.Router, ctrl *handlers.Controller) {
	r.Use(ctrl.WithSession)
	r.Use(middleware.Compress(5, "text/html", "text/csv", "application/json"))

	r.Get("/", ctrl.Panel())
	r.Get("/state", ctrl.State())
	r.Get("/export", ctrl.Export())
	r.Post("/search", ctrl.Search())
	r.Post("/page", ctrl.ChangePage())
	r.Post("/size", ctrl.ChangePageSize())
	r.Post("/select", ctrl.Select())
	r.Post("/select-all", ctrl.SelectAll())
	r.Post("/add", ctrl.Add())
	r.Post("/remove", ctrl.Remove())
	r.Post("/import", ctrl.Import())
	r.Post("/close", ctrl.Close())
}

// NewRouter builds the complete handler of the panel server.
func NewRouter(conf *config.Config, ctrl *handlers.Controller, sugar *zap.SugaredLogger) (http.Handler, error) {
	var upstream *url.URL
	if conf.UpstreamURL != "" {
		u, err := url.Parse(conf.UpstreamURL)
		if err != nil {
			return nil, err
		}
		upstream = u
		sugar.Infow("proxying unknown paths", "upstream", u.Redacted())
	}

	r := chi.NewRouter()
	InitMiddleware(r, conf, ctrl)
	Routing(r, ctrl, upstream)
	return r, nil
}

// serverReadHeaderTimeout bounds how long a client may take to send headers.
const serverReadHeaderTimeout = 20 * time.Second
