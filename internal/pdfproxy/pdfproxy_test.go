package pdfproxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/report.pdf" {
			w.Write([]byte("%PDF-1.7 report"))
			return
		}
		http.NotFound(w, r)
	}))
	defer storage.Close()
	proxy := New(map[string]string{
		"report":  storage.URL + "/report.pdf",
		"missing": storage.URL + "/gone.pdf",
	}, storage.Client())

	data, err := proxy.Fetch(context.Background(), "report")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 report", string(data))

	_, err = proxy.Fetch(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = proxy.Fetch(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownAsset)
	assert.False(t, proxy.Has("nope"))
	assert.True(t, proxy.Has("report"))
}

// TestFetchUnreachable expects a transport failure to count as unavailable.
func TestFetchUnreachable(t *testing.T) {
	storage := httptest.NewServer(http.NotFoundHandler())
	url := storage.URL
	storage.Close()

	proxy := New(map[string]string{"report": url + "/report.pdf"}, nil)
	_, err := proxy.Fetch(context.Background(), "report")
	assert.ErrorIs(t, err, ErrUnavailable)
}

// TestNewCopiesSources expects later changes of the caller's map not to leak into the proxy.
func TestNewCopiesSources(t *testing.T) {
	src := map[string]string{"a": "http://x/a.pdf"}
	proxy := New(src, nil)
	src["b"] = "http://x/b.pdf"
	assert.False(t, proxy.Has("b"))
}
