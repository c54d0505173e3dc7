package app

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"redirector/internal/config"
	"redirector/internal/domain/models"
	"redirector/internal/handlers"
	"redirector/internal/mocks"
	"redirector/internal/session"
	"redirector/internal/storage"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/net/html"
)

func intPtr(n int) *int { return &n }

func prepare_(t *testing.T, c *config.Config) (*mocks.MockBackend, storage.Journal, *httptest.Server, *http.Client) {
	sugar := zaptest.NewLogger(t).Sugar()
	backend := mocks.NewMockBackend(gomock.NewController(t))
	journal := storage.NewStorageMemory()
	sessions := session.NewRegistry(nil, nil, time.Hour, handlers.NewControllerFactory(c, backend, journal, sugar), sugar)
	ctrl := handlers.NewController(c, journal, sessions, sugar)

	router, err := NewRouter(c, ctrl, sugar)
	require.NoError(t, err)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return backend, journal, srv, &http.Client{Jar: jar}
}

func parse(t *testing.T, res *http.Response) *html.Node {
	t.Helper()
	defer func() {
		_ = res.Body.Close()
	}()
	require.Equal(t, http.StatusOK, res.StatusCode)
	doc, err := html.Parse(res.Body)
	require.NoError(t, err)
	return doc
}

// classed returns the text of every element carrying class.
func classed(n *html.Node, class string) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Key == "class" && strings.Contains(" "+a.Val+" ", " "+class+" ") {
					out = append(out, textOf(n))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func TestPanelMarksExternalTargets(t *testing.T) {
	c := config.NewConfig()
	backend, _, srv, client := prepare_(t, c)

	page := models.Page{Items: []models.RedirectRecord{
		{Path: "/a", RedirectTo: "https://example.org/a"},
		{Path: "/b", RedirectTo: "/c"},
		{Path: "/g"},
	}, Total: 3}
	backend.EXPECT().GetRedirects(gomock.Any(), models.ListQuery{Scope: models.ScopeOldURL, BatchSize: c.BatchSize}).Return(page, nil)
	backend.EXPECT().GetStatistics(gomock.Any(), "").Return(&models.Statistics{Total: intPtr(3)}, nil)

	res, err := client.Get(srv.URL + PanelPrefixes[0] + "/")
	require.NoError(t, err)
	doc := parse(t, res)

	assert.Equal(t, []string{"https://example.org/a", "/c", "410 Gone"}, classed(doc, "new-url"))
	assert.Equal(t, []string{"https://example.org/a"}, classed(doc, "external"))
}

func TestPanelFlow(t *testing.T) {
	c := config.NewConfig()
	c.UpstreamURL = ""
	backend, journal, srv, client := prepare_(t, c)
	panel := srv.URL + PanelPrefixes[0]

	first := models.Page{Items: []models.RedirectRecord{{Path: "/old", RedirectTo: "/new"}}, Total: 1}
	second := models.Page{Items: []models.RedirectRecord{{Path: "/a", RedirectTo: "/b"}, {Path: "/old", RedirectTo: "/new"}}, Total: 2}
	query := models.ListQuery{Scope: models.ScopeOldURL, BatchSize: c.BatchSize}

	gomock.InOrder(
		backend.EXPECT().GetRedirects(gomock.Any(), query).Return(first, nil),
		backend.EXPECT().GetRedirects(gomock.Any(), query).Return(second, nil),
	)
	gomock.InOrder(
		backend.EXPECT().GetStatistics(gomock.Any(), "").Return(&models.Statistics{Total: intPtr(1)}, nil),
		backend.EXPECT().GetStatistics(gomock.Any(), "").Return(&models.Statistics{Total: intPtr(2)}, nil),
	)
	backend.EXPECT().
		AddRedirects(gomock.Any(), []models.RedirectRecord{{Path: "/a", RedirectTo: "/b"}}).
		Return(models.MutationResult{}, nil)

	t.Run("mount", func(t *testing.T) {
		res, err := client.Get(panel)
		require.NoError(t, err)
		doc := parse(t, res)

		assert.Equal(t, []string{"/old"}, classed(doc, "old-url"))
		assert.Empty(t, classed(doc, "toast"))
	})

	t.Run("add", func(t *testing.T) {
		res, err := client.PostForm(panel+"/add", url.Values{"old": {"/a"}, "new": {"/b"}})
		require.NoError(t, err)
		doc := parse(t, res)

		assert.Equal(t, []string{"/a", "/old"}, classed(doc, "old-url"))
		assert.Equal(t, []string{"Redirect has been added"}, classed(doc, "toast-success"))

		entries, err := journal.Recent(t.Context(), 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, models.JournalAdd, entries[0].Op)
		assert.Equal(t, models.OutcomeOK, entries[0].Outcome)
	})

	t.Run("invalid add stays local", func(t *testing.T) {
		res, err := client.PostForm(panel+"/add", url.Values{"old": {"no-slash"}, "new": {"/b"}})
		require.NoError(t, err)
		doc := parse(t, res)
		assert.Len(t, classed(doc, "toast-error"), 1)
	})

	t.Run("import rejects other types", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="redirects.txt"`)
		h.Set("Content-Type", "text/plain")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = io.WriteString(part, "/a,/b\n")
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		res, err := client.Post(panel+"/import", mw.FormDataContentType(), &body)
		require.NoError(t, err)
		doc := parse(t, res)
		assert.Equal(t, []string{"Invalid file type. Please select a CSV file"}, classed(doc, "toast-error"))
	})

	t.Run("export without selection", func(t *testing.T) {
		res, err := client.Get(panel + "/export?scope=selected")
		require.NoError(t, err)
		defer func() {
			_ = res.Body.Close()
		}()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("export bad scope", func(t *testing.T) {
		res, err := client.Get(panel + "/export?scope=everything")
		require.NoError(t, err)
		defer func() {
			_ = res.Body.Close()
		}()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestExportAll(t *testing.T) {
	c := config.NewConfig()
	backend, _, srv, client := prepare_(t, c)

	backend.EXPECT().
		GetRedirects(gomock.Any(), models.ListQuery{Scope: models.ScopeOldURL, BatchSize: 1000}).
		Return(models.Page{Items: []models.RedirectRecord{{Path: "/a", RedirectTo: "/b"}}, Total: 1}, nil)

	res, err := client.Get(srv.URL + PanelPrefixes[1] + "/export?scope=all")
	require.NoError(t, err)
	defer func() {
		_ = res.Body.Close()
	}()

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", res.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(res.Header.Get("Content-Disposition"), "attachment; filename="))

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "/a,/b")
}

func TestPanelPrefixRedirect(t *testing.T) {
	c := config.NewConfig()
	_, _, srv, _ := prepare_(t, c)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	for _, prefix := range PanelPrefixes {
		res, err := client.Get(srv.URL + prefix)
		require.NoError(t, err)
		_ = res.Body.Close()

		assert.Equal(t, http.StatusMovedPermanently, res.StatusCode, prefix)
		assert.Equal(t, prefix+"/", res.Header.Get("Location"), prefix)
	}
}

func TestRouterPing(t *testing.T) {
	_, _, srv, client := prepare_(t, config.NewConfig())

	res, err := client.Get(srv.URL + "/ping")
	require.NoError(t, err)
	_ = res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestSelectStorage(t *testing.T) {
	sugar := zaptest.NewLogger(t).Sugar()

	t.Run("memory", func(t *testing.T) {
		c := config.NewConfig()
		c.JournalFile = ""
		c.DBConnection = ""
		s := SelectStorage(c, sugar)
		defer func() {
			_ = s.Close()
		}()
		assert.IsType(t, &storage.StorageMemory{}, s)
	})

	t.Run("file", func(t *testing.T) {
		c := config.NewConfig()
		c.DBConnection = ""
		c.JournalFile = t.TempDir() + "/journal.json"
		s := SelectStorage(c, sugar)
		defer func() {
			_ = s.Close()
		}()
		assert.IsType(t, &storage.StorageFile{}, s)
	})
}

func TestNewRouterBadUpstream(t *testing.T) {
	c := config.NewConfig()
	c.UpstreamURL = "http://[::1"
	_, err := NewRouter(c, nil, zaptest.NewLogger(t).Sugar())
	assert.Error(t, err)
}
