package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSubmissionCounter(t *testing.T) {
	m := New()
	m.Submission("contact", OutcomeCreated)
	m.Submission("contact", OutcomeCreated)
	m.Submission("contact", OutcomeBot)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues("contact", OutcomeCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("contact", OutcomeBot)))
}

// TestMiddlewareAndHandler expects requests to be counted under their route pattern and the
// counters to show up on the scrape endpoint.
func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	m := New()
	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/api/pdf/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	for _, id := range []string{"a", "b"} {
		request, _ := http.NewRequest("GET", "/api/pdf/"+id, nil)
		router.ServeHTTP(httptest.NewRecorder(), request)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/pdf/:id", "GET", "404")))

	m.UpstreamError("airtable", "table_not_found")
	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest("GET", "/metrics", nil)
	router.ServeHTTP(recorder, request)
	body := recorder.Body.String()
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, strings.Contains(body, `aim_summit_upstream_errors_total{kind="table_not_found",service="airtable"} 1`), body)
}
