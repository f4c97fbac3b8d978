package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTurnstileVerdicts runs a fake siteverify endpoint that accepts only the token "good".
func TestTurnstileVerdicts(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "s3cret", r.PostForm.Get("secret"))
		assert.Equal(t, "203.0.113.9", r.PostForm.Get("remoteip"))
		if r.PostForm.Get("response") == "good" {
			w.Write([]byte(`{"success": true, "hostname": "aimsummit.org"}`))
			return
		}
		w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
	}))
	defer server.Close()
	v := NewTurnstile("s3cret", server.URL, server.Client())

	verdict, err := v.Verify(context.Background(), "good", "203.0.113.9")
	require.NoError(t, err)
	assert.False(t, verdict.IsBot)

	verdict, err = v.Verify(context.Background(), "forged", "203.0.113.9")
	require.NoError(t, err)
	assert.True(t, verdict.IsBot)
	assert.Equal(t, []string{"invalid-input-response"}, verdict.Reasons)
	assert.Equal(t, 2, calls)
}

// TestTurnstileEmptyToken expects a bot verdict without reaching out to the endpoint.
func TestTurnstileEmptyToken(t *testing.T) {
	v := NewTurnstile("s3cret", "http://127.0.0.1:1/unreachable", nil)
	verdict, err := v.Verify(context.Background(), "  ", "")
	require.NoError(t, err)
	assert.True(t, verdict.IsBot)
}

// TestTurnstileServiceFailure expects an error rather than a verdict when the endpoint fails.
func TestTurnstileServiceFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	v := NewTurnstile("s3cret", server.URL, server.Client())

	_, err := v.Verify(context.Background(), "token", "")
	assert.ErrorIs(t, err, ErrVerifier)
}

func TestDisabled(t *testing.T) {
	verdict, err := Disabled{}.Verify(context.Background(), "", "")
	require.NoError(t, err)
	assert.False(t, verdict.IsBot)
}
