package noctx

import (
	"context"
	"net/http"
	"net/url"
)

func requests(ctx context.Context, client *http.Client) {
	_, _ = http.NewRequest(http.MethodGet, "http://localhost/@redirects", nil) // want `noctxrequest http.NewRequest builds a request without a context`
	_, _ = http.NewRequestWithContext(ctx, http.MethodGet, "http://localhost/@redirects", nil)

	_, _ = http.Get("http://localhost/ping")                      // want `noctxrequest http.Get builds a request without a context`
	_, _ = http.PostForm("http://localhost/add", url.Values{})    // want `noctxrequest http.PostForm builds a request without a context`
	_, _ = client.Head("http://localhost/ping")                   // want `noctxrequest \(\*http.Client\).Head sends a request without a context`
	_, _ = client.Post("http://localhost/remove", "text/csv", nil) // want `noctxrequest \(\*http.Client\).Post sends a request without a context`

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "http://localhost/", nil)
	_, _ = client.Do(req)
}
