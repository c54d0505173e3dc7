package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	"redirector/internal/handlers"
)

func ExampleWaybackURL() {
	fmt.Println(handlers.WaybackURL("https://www.eea.europa.eu/themes/air"))

	// Output:
	// https://web.archive.org/*/https://www.eea.europa.eu/themes/air
}

func ExampleController_Gone() {
	con := handlers.NewController(nil, nil, nil, nil)

	w := httptest.NewRecorder()
	con.Gone().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/@@gone?url=https://example.org/a", nil))

	fmt.Println(w.Code)

	// Output:
	// 410
}
