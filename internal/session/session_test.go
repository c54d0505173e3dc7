package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"redirector/internal/controller"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(ttl time.Duration) *Registry {
	return NewRegistry([]byte("very-very-very-very-secret-key32"), []byte("a-lot-of-secret!"), ttl,
		func() *controller.ListController { return controller.New(nil) }, nil)
}

// requestWithCookies copies the cookies set on res into a new request.
func requestWithCookies(res *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range res.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSessionIDCookie(t *testing.T) {
	r := newRegistry(time.Hour)
	res := httptest.NewRecorder()

	require.NoError(t, r.SetSessionIDCookie(res, "12345"))
	assert.Contains(t, res.Header().Get("Set-Cookie"), CookieName)
	assert.Contains(t, res.Header().Get("Set-Cookie"), "HttpOnly")

	id, err := r.GetSessionIDFromCookie(requestWithCookies(res))
	require.NoError(t, err)
	assert.Equal(t, "12345", id)
}

func TestTamperedCookie(t *testing.T) {
	r := newRegistry(time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "forged"})

	_, err := r.GetSessionIDFromCookie(req)
	require.Error(t, err)
}

func TestAcquire(t *testing.T) {
	r := newRegistry(time.Hour)

	first := httptest.NewRecorder()
	s, err := r.Acquire(first, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NotNil(t, s.Controller)
	assert.Len(t, s.ID, 36)
	assert.Equal(t, 1, r.Len())

	again, err := r.Acquire(httptest.NewRecorder(), requestWithCookies(first))
	require.NoError(t, err)
	assert.Same(t, s, again)

	other, err := r.Acquire(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, other.ID)
	assert.Equal(t, 2, r.Len())
}

func TestClose(t *testing.T) {
	r := newRegistry(time.Hour)

	res := httptest.NewRecorder()
	_, err := r.Acquire(res, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	closed := httptest.NewRecorder()
	r.Close(closed, requestWithCookies(res))
	assert.Equal(t, 0, r.Len())
	assert.Contains(t, closed.Header().Get("Set-Cookie"), "Max-Age=0")

	_, ok := r.Lookup(requestWithCookies(res))
	assert.False(t, ok)
}

func TestSweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := newRegistry(30 * time.Minute)
	r.now = func() time.Time { return now }

	idle := httptest.NewRecorder()
	_, err := r.Acquire(idle, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	active := httptest.NewRecorder()
	_, err = r.Acquire(active, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, r.Sweep())

	_, ok := r.Lookup(requestWithCookies(idle))
	assert.False(t, ok)
	_, ok = r.Lookup(requestWithCookies(active))
	assert.True(t, ok)
}

func TestFlashes(t *testing.T) {
	s := &Session{}
	s.AddFlash(FlashSuccess, "Redirect has been added")
	s.AddFlash(FlashError, "Invalid file type")

	assert.Equal(t, []Flash{
		{Kind: FlashSuccess, Text: "Redirect has been added"},
		{Kind: FlashError, Text: "Invalid file type"},
	}, s.PopFlashes())
	assert.Empty(t, s.PopFlashes())
}

func TestMarkMounted(t *testing.T) {
	s := &Session{}
	assert.False(t, s.MarkMounted())
	assert.True(t, s.MarkMounted())
}
