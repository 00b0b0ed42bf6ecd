package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/teapot", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String(), "the response passes through untouched")
	assert.Equal(t, float64(1),
		testutil.ToFloat64(requestsTotal.WithLabelValues(http.MethodGet, "/teapot", "418")))
	assert.Equal(t, float64(0), testutil.ToFloat64(requestsInFlight))
}

func TestMiddleware_RouteLabelUsesPattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/customers/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{"/customers/CL-1", "/customers/CL-2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, float64(2),
		testutil.ToFloat64(requestsTotal.WithLabelValues(http.MethodGet, "/customers/{id}", "200")),
		"distinct ids collapse into one series")
}
