package webserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spboyer/tagx/internal/report"
	"github.com/spboyer/tagx/internal/session"
	"github.com/spboyer/tagx/internal/tagcounter"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	srv := New(Config{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body["id"])
	return body["id"]
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestNew_Defaults(t *testing.T) {
	srv := New(Config{})
	assert.Equal(t, "127.0.0.1:8420", srv.Addr())
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestServer(t)

	rec := do(t, handler, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestSessionWorkflow(t *testing.T) {
	handler := newTestServer(t)
	dir := t.TempDir()
	text := writeFile(t, dir, "text.txt", "The Cat sat on the MAT.")
	stop := writeFile(t, dir, "stop.txt", "the\non\n")
	out := filepath.Join(dir, "tags.txt")

	id := createSession(t, handler)
	base := "/api/sessions/" + id

	rec := do(t, handler, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var st session.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, session.State{}, st)

	rec = do(t, handler, http.MethodPut, base+"/text", map[string]string{"path": text})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, handler, http.MethodPut, base+"/stopwords", map[string]string{"path": stop})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.True(t, st.TextSelected)
	assert.True(t, st.StopWordsLoaded)
	assert.Equal(t, 2, st.StopWordCount)

	rec = do(t, handler, http.MethodPost, base+"/extract", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var doc report.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, []tagcounter.Tag{{Word: "cat", Count: 1}, {Word: "sat", Count: 1}, {Word: "mat", Count: 1}}, doc.Tags)
	assert.Equal(t, 3, doc.Distinct)
	assert.Equal(t, 3, doc.Total)

	rec = do(t, handler, http.MethodPost, base+"/save", map[string]string{"path": out})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "cat : 1\nsat : 1\nmat : 1\n", string(saved))

	rec = do(t, handler, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, handler, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorStatusCodes(t *testing.T) {
	handler := newTestServer(t)
	dir := t.TempDir()
	id := createSession(t, handler)
	base := "/api/sessions/" + id

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown session", http.MethodGet, "/api/sessions/2f1b7c8e-8a55-4d0c-9a3e-6f3e0c1d2b4a", nil, http.StatusNotFound},
		{"malformed id", http.MethodPost, "/api/sessions/not-a-uuid/extract", nil, http.StatusNotFound},
		{"delete unknown", http.MethodDelete, "/api/sessions/not-a-uuid", nil, http.StatusNotFound},
		{"bad body", http.MethodPut, base + "/text", "{not json", http.StatusBadRequest},
		{"empty path", http.MethodPut, base + "/text", map[string]string{"path": "  "}, http.StatusBadRequest},
		{"extract without inputs", http.MethodPost, base + "/extract", nil, http.StatusConflict},
		{"save before extract", http.MethodPost, base + "/save", map[string]string{"path": filepath.Join(dir, "x.txt")}, http.StatusConflict},
		{"missing text file", http.MethodPut, base + "/text", map[string]string{"path": filepath.Join(dir, "missing.txt")}, http.StatusUnprocessableEntity},
		{"missing stop words", http.MethodPut, base + "/stopwords", map[string]string{"path": filepath.Join(dir, "missing.txt")}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, handler, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	handler := newTestServer(t)
	dir := t.TempDir()
	text := writeFile(t, dir, "text.txt", "hello")

	a := createSession(t, handler)
	b := createSession(t, handler)
	require.NotEqual(t, a, b)

	rec := do(t, handler, http.MethodPut, "/api/sessions/"+a+"/text", map[string]string{"path": text})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, handler, http.MethodGet, "/api/sessions/"+b, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var st session.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.False(t, st.TextSelected)
}
