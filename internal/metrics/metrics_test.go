package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/recipes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/api/recipes/1", "/api/recipes/2", "/nope"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/recipes/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpInFlight))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "foodgram_http_requests_total")
}

func TestDomainCounters(t *testing.T) {
	m := New()
	m.RecipeCreated()
	m.ShoppingListDownloaded("txt")
	m.ShoppingListDownloaded("txt")
	m.ShoppingListDownloaded("pdf")
	m.FeedConnected()
	m.FeedConnected()
	m.FeedDisconnected()
	m.FeedEventSent()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.recipesCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.shoppingDownloads.WithLabelValues("txt")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.shoppingDownloads.WithLabelValues("pdf")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.feedConnections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.feedEvents))
}
