package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/recetas/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", m.Handler())

	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/recetas/"+id, nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/recetas/:id", "200")))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "recetario_http_requests_total")
}

func TestBusinessCounters(t *testing.T) {
	m := NewMetrics()
	m.ObserveLike(true)
	m.ObserveLike(true)
	m.ObserveLike(false)
	m.ObserveRecipeCreated()
	m.ObserveRegistration()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LikeTogglesTotal.WithLabelValues("liked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LikeTogglesTotal.WithLabelValues("unliked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecipesCreatedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UsersRegisteredTotal))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.ObserveLike(true) })
}
