package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"gitlab.com/dirk.krummacker/aim-summit-service/internal/blob"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/config"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/records"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/records/recordstest"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/verify"
)

// fakeVerifier returns a fixed verdict and counts its calls.
type fakeVerifier struct {
	mu      sync.Mutex
	verdict verify.Verdict
	err     error
	tokens  []string
}

func (v *fakeVerifier) Verify(_ context.Context, token, _ string) (verify.Verdict, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tokens = append(v.tokens, token)
	return v.verdict, v.err
}

func (v *fakeVerifier) calls() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.tokens)
}

// fakeUploader keeps uploaded files in memory.
type fakeUploader struct {
	mu    sync.Mutex
	puts  map[string][]byte
	sizes []int64
	err   error
	count int
}

func (u *fakeUploader) Put(_ context.Context, pathname, contentType string, body io.Reader, size int64) (blob.Object, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.count++
	u.sizes = append(u.sizes, size)
	if u.err != nil {
		return blob.Object{}, u.err
	}
	data, _ := io.ReadAll(body)
	if u.puts == nil {
		u.puts = map[string][]byte{}
	}
	u.puts[pathname] = data
	return blob.Object{URL: "https://store.public.blob.vercel-storage.com/" + pathname, Pathname: pathname, ContentType: contentType}, nil
}

// testEnv bundles a service with its fakes.
type testEnv struct {
	cfg      *config.Config
	contact  *recordstest.Store
	project  *recordstest.Store
	verifier *fakeVerifier
	uploader *fakeUploader
	deps     Dependencies
}

// newTestEnv returns an environment with both stores configured and verification passing.
func newTestEnv() *testEnv {
	cfg := config.New()
	cfg.GinLogging = "off"
	cfg.NominationEventID = "recEVENT2026"
	env := &testEnv{
		cfg:      cfg,
		contact:  recordstest.New(),
		project:  recordstest.New(),
		verifier: &fakeVerifier{},
		uploader: &fakeUploader{},
	}
	env.deps = Dependencies{
		Contact:  records.NewBackend(env.contact, nil),
		Project:  records.NewBackend(env.project, nil),
		Verifier: env.verifier,
		Uploader: env.uploader,
		Now:      func() time.Time { return time.UnixMilli(1767225600000) },
	}
	return env
}

// router initializes the service and returns a handle to the gin engine against which requests
// can be executed.
func (e *testEnv) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	return New(e.cfg, e.deps).SetupHttpRouter()
}

// runTest executes the HTTP request with the specified arguments and returns the response.
func (e *testEnv) runTest(method string, url string, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest(method, url, strings.NewReader(body))
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	e.router().ServeHTTP(recorder, request)
	return recorder
}

// runRequest executes a prepared request.
func (e *testEnv) runRequest(request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	e.router().ServeHTTP(recorder, request)
	return recorder
}

// decode unmarshals a JSON response body.
func decode(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), target), recorder.Body.String())
}

// errorOf returns the error message of a JSON error response.
func errorOf(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	decode(t, recorder, &body)
	msg, _ := body["error"].(string)
	return msg
}

func jsonBody(t *testing.T, v any) string {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, json.NewEncoder(&b).Encode(v))
	return b.String()
}
