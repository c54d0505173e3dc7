package handlers

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// WaybackURL returns the Wayback Machine listing of pageURL.
func WaybackURL(pageURL string) string {
	return "https://web.archive.org/*/" + pageURL
}

type goneData struct {
	PageURL    string
	WaybackURL string
}

// renderGone writes the Gone page for pageURL.
func renderGone(w io.Writer, pageURL string) error {
	return templates.ExecuteTemplate(w, "gone.html", goneData{PageURL: pageURL, WaybackURL: WaybackURL(pageURL)})
}

// requestURL rebuilds the absolute URL of req.
func requestURL(req *http.Request) string {
	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}
	if fwd := req.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + req.Host + req.URL.RequestURI()
}

// publicURL returns the URL of req as the visitor sees it. A non-empty base
// replaces the scheme and host taken from the request.
func publicURL(base string, req *http.Request) string {
	if base == "" {
		return requestURL(req)
	}
	return strings.TrimSuffix(base, "/") + req.URL.RequestURI()
}

func (con *Controller) baseURL() string {
	if con.conf == nil {
		return ""
	}
	return con.conf.BaseURL
}

// GoneProxy returns the proxy to upstream with the Gone page of this controller.
func (con *Controller) GoneProxy(upstream *url.URL) *httputil.ReverseProxy {
	return NewGoneProxy(upstream, con.baseURL(), con.sugar)
}

// Gone renders the 410 page. The url query parameter names the removed page;
// the request URL is used without it.
func (con *Controller) Gone() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		pageURL := req.URL.Query().Get("url")
		if pageURL == "" {
			pageURL = publicURL(con.baseURL(), req)
		}

		res.Header().Set("Content-Type", "text/html; charset=utf-8")
		res.WriteHeader(http.StatusGone)
		if err := renderGone(res, pageURL); err != nil {
			con.sugar.Errorw("rendering gone page", "error", err)
		}
	}
}

// NewGoneProxy proxies to upstream and replaces the body of 410 answers to
// HTML requests with the Gone page. Page URLs are built on baseURL when it is set.
func NewGoneProxy(upstream *url.URL, baseURL string, sugar *zap.SugaredLogger) *httputil.ReverseProxy {
	proxy := httputil.NewSingleHostReverseProxy(upstream)
	proxy.ModifyResponse = func(resp *http.Response) error {
		if resp.StatusCode != http.StatusGone || !wantsHTML(resp.Request) {
			return nil
		}

		var buf bytes.Buffer
		if err := renderGone(&buf, publicURL(baseURL, resp.Request)); err != nil {
			return err
		}
		if err := resp.Body.Close(); err != nil {
			sugar.Warnw("closing upstream body", "error", err)
		}

		resp.Body = io.NopCloser(&buf)
		resp.ContentLength = int64(buf.Len())
		resp.Header.Set("Content-Length", strconv.Itoa(buf.Len()))
		resp.Header.Set("Content-Type", "text/html; charset=utf-8")
		resp.Header.Del("Content-Encoding")
		return nil
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, req *http.Request, err error) {
		sugar.Errorw("upstream request", "uri", req.RequestURI, "error", err)
		w.WriteHeader(http.StatusBadGateway)
	}
	return proxy
}

func wantsHTML(req *http.Request) bool {
	if req == nil {
		return false
	}
	accept := req.Header.Get("Accept")
	return accept == "" || strings.Contains(accept, "text/html") || strings.Contains(accept, "*/*")
}
