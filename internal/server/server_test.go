package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pylens/internal/analyzer"
	"github.com/leapstack-labs/pylens/internal/testutil"
	"github.com/leapstack-labs/pylens/pkg/report"
)

const fixtureSource = `class Shape:
    kind = "generic"

    def area(self):
        return 0


class Square(Shape):
    def area(self):
        return self.side * self.side


class Circle(Shape):
    def area(self):
        return 3
`

// newTestServer analyzes a fixture tree and returns an httptest server.
func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "models"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models", "shapes.py"), []byte(fixtureSource), 0o644))

	s := NewServer(Config{
		Analyzer:  analyzer.New(analyzer.Config{SourceDir: dir}),
		SourceDir: dir,
		Logger:    testutil.NewTestLogger(t),
	})
	require.NoError(t, s.reindex(context.Background()))

	ts := httptest.NewServer(s.routes())
	t.Cleanup(ts.Close)
	return s, ts
}

// getJSON fetches a URL and decodes the JSON body into out.
func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

// TestServer_Health verifies the health endpoint reports counts.
func TestServer_Health(t *testing.T) {
	_, ts := newTestServer(t)

	var body healthResponse
	status := getJSON(t, ts.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 1, body.Modules)
	assert.Equal(t, 3, body.Classes)
}

// TestServer_ListClasses verifies listing with and without a module filter.
func TestServer_ListClasses(t *testing.T) {
	_, ts := newTestServer(t)

	var body classListResponse
	status := getJSON(t, ts.URL+"/api/classes", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3, body.Count)

	status = getJSON(t, ts.URL+"/api/classes?module=other.py", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Zero(t, body.Count)
}

// TestServer_GetClass verifies single-class lookup and the 404 path.
func TestServer_GetClass(t *testing.T) {
	_, ts := newTestServer(t)

	var cls report.Class
	status := getJSON(t, ts.URL+"/api/classes/Square", &cls)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Square", cls.QualName)
	assert.Equal(t, []string{"Shape"}, cls.Bases)

	var errBody errorResponse
	status = getJSON(t, ts.URL+"/api/classes/Missing", &errBody)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, errBody.Error, "Missing")
}

// TestServer_MRO verifies the linearization endpoint.
func TestServer_MRO(t *testing.T) {
	_, ts := newTestServer(t)

	var body mroResponse
	status := getJSON(t, ts.URL+"/api/classes/Square/mro", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"Square", "Shape", "object"}, body.MRO)
}

// TestServer_Members verifies the member listing endpoint.
func TestServer_Members(t *testing.T) {
	_, ts := newTestServer(t)

	var body membersResponse
	status := getJSON(t, ts.URL+"/api/classes/Circle/members", &body)
	assert.Equal(t, http.StatusOK, status)

	names := make(map[string]string)
	for _, m := range body.Members {
		names[m.Name] = m.Origin
	}
	assert.Equal(t, "Circle", names["area"])
	assert.Equal(t, "Shape", names["kind"])
}

// TestServer_Hierarchy verifies the graph endpoint carries edges and levels.
func TestServer_Hierarchy(t *testing.T) {
	_, ts := newTestServer(t)

	var body hierarchyResponse
	status := getJSON(t, ts.URL+"/api/hierarchy", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3, body.Classes)
	assert.Len(t, body.Edges, 2)
	assert.Equal(t, []string{"Shape"}, body.Roots)
	require.NotEmpty(t, body.Levels)
	assert.Equal(t, []string{"Shape"}, body.Levels[0])
}

// TestServer_Diagnostics verifies the diagnostics endpoint returns a list.
func TestServer_Diagnostics(t *testing.T) {
	_, ts := newTestServer(t)

	var body diagnosticsResponse
	status := getJSON(t, ts.URL+"/api/diagnostics", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.NotNil(t, body.Diagnostics)
	assert.Zero(t, body.Count)
}

// TestServer_Reindex verifies reindexing picks up new files.
func TestServer_Reindex(t *testing.T) {
	s, ts := newTestServer(t)

	extra := filepath.Join(s.sourceDir, "models", "extra.py")
	require.NoError(t, os.WriteFile(extra, []byte("class Extra:\n    pass\n"), 0o644))

	resp, err := http.Post(ts.URL+"/api/reindex", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body reindexResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, body.Modules)
	assert.Equal(t, 4, body.Classes)
}
