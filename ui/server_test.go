package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer(nil)
	t.Cleanup(s.Close)
	return s
}

func TestParseEndpoint(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("POST", "/parse?file=a.pss", strings.NewReader("package p { action A { } }"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc struct {
		File   string          `json:"file"`
		Tree   json.RawMessage `json:"tree"`
		Errors []any           `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Equal(t, "a.pss", doc.File)
	require.Contains(t, string(doc.Tree), "action_declaration")
	require.Empty(t, doc.Errors)
}

func TestParseEndpointRuleAndFormat(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("POST", "/parse?rule=constraint_declaration&format=sexpr", strings.NewReader("constraint x { a < b || c == d; }"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(rec.Body.String(), "(constraint_declaration"))

	for _, target := range []string{"/parse?rule=nope", "/parse?format=nope"} {
		rec = httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest("POST", target, strings.NewReader("")))
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestScanEndpoints(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.pss")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.pss"), []byte("component C { int x; }"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("action A { int ; }"), 0o644))

	s := newTestServer(t)

	body, _ := json.Marshal(map[string]any{"paths": []string{dir}})
	req := httptest.NewRequest("POST", "/scan", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get("Location")
	require.Equal(t, "/scans/1", location)

	var sum scanSummary
	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest("GET", location, nil))
		if rec.Code != http.StatusOK {
			return false
		}
		sum = scanSummary{}
		if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
			return false
		}
		return sum.Status == "completed"
	}, 10*time.Second, 10*time.Millisecond)

	require.Len(t, sum.Files, 2)
	require.Equal(t, 100, sum.Progress)
	require.Len(t, sum.Syntax, 1)
	require.Equal(t, bad, sum.Syntax[0].File)
	require.Equal(t, 16, sum.Syntax[0].Column)
	require.Equal(t, "token mismatch", sum.Syntax[0].Code)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/scans/1/file?format=outline&path="+bad, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "action\tA\t")

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/scans", nil))
	var list []scanSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
}

func TestScanEndpointErrors(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("POST", "/scan", strings.NewReader("")))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/scans/42", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/scans/42/file?path=x", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
