package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}

func TestMiddleware_UsesRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Middleware)
	r.HandleFunc("/api/user/calculations/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods("GET")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/calculations/abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	body := scrape(t)
	assert.Contains(t, body, `mooring_http_requests_total{code="404",method="GET",route="/api/user/calculations/{id}"}`)
	assert.NotContains(t, body, `route="/api/user/calculations/abc"`)
}

func TestRouteLabel_Unmatched(t *testing.T) {
	assert.Equal(t, "other", routeLabel(httptest.NewRequest(http.MethodGet, "/nowhere", nil)))
}

func TestObserveCalculation(t *testing.T) {
	ObserveCalculation("cli-test", "ok", time.Millisecond)
	ObserveCalculation("cli-test", "", time.Millisecond)

	body := scrape(t)
	assert.Contains(t, body, `mooring_calculations_total{outcome="ok",source="cli-test"} 1`)
	assert.Contains(t, body, `mooring_calculations_total{outcome="error",source="cli-test"} 1`)
	assert.Contains(t, body, "mooring_calculation_duration_seconds_count")
}
