package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pylens/internal/testutil"
	"github.com/leapstack-labs/pylens/pkg/inference"
	"github.com/leapstack-labs/pylens/pkg/pytree"
	"github.com/leapstack-labs/pylens/pkg/report"
)

const shapeSource = `class Shape:
    kind = "generic"

    def __init__(self):
        self.sides = 0

    def area(self):
        return 0


class Square(Shape):
    def area(self):
        return self.side * self.side
`

const circleSource = `from models.base import Shape


class Circle(Shape):
    def area(self):
        return 3
`

// writeProject materializes a source tree under a temp dir.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, src := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	}
	return dir
}

// memberByName finds one member in a collected list.
func memberByName(members []report.Member, name string) (report.Member, bool) {
	for _, m := range members {
		if m.Name == name {
			return m, true
		}
	}
	return report.Member{}, false
}

// TestDiscoverSources verifies the walk keeps Python files and skips
// excluded and hidden directories.
func TestDiscoverSources(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"models/base.py":   "",
		"models/types.pyi": "",
		"build/gen.py":     "",
		".venv/site.py":    "",
		"README.md":        "",
		"notes.txt":        "",
	})

	paths, err := discoverSources(dir, []string{"build"})
	require.NoError(t, err)
	assert.Equal(t, []string{"models/base.py", "models/types.pyi"}, paths)
}

// TestDiscoverSources_MissingRoot verifies a nonexistent root fails fast.
func TestDiscoverSources_MissingRoot(t *testing.T) {
	_, err := discoverSources(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}

// TestAnalyzer_Run verifies the full pipeline over a small project.
func TestAnalyzer_Run(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"models/base.py":   shapeSource,
		"models/circle.py": circleSource,
	})

	a := New(Config{SourceDir: dir, Logger: testutil.NewTestLogger(t)})
	analysis, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, analysis.Stats.ModuleCount)
	assert.Equal(t, 3, analysis.Stats.ClassCount)
	require.Len(t, analysis.Modules, 2)
	assert.Equal(t, "models/base.py", analysis.Modules[0].Path)
	assert.Equal(t, "models/circle.py", analysis.Modules[1].Path)

	shape, ok := analysis.Class("Shape", "")
	require.True(t, ok)
	assert.Empty(t, shape.Bases)
	assert.Equal(t, []string{"Shape", "object"}, shape.MRO)
	assert.Equal(t, "Shape()", shape.Signature)
	assert.Empty(t, shape.Params)
	assert.Equal(t, 1, shape.Line)

	square, ok := analysis.Class("Square", "")
	require.True(t, ok)
	assert.Equal(t, []string{"Shape"}, square.Bases)
	assert.Equal(t, []string{"Square", "Shape", "object"}, square.MRO)
}

// TestAnalyzer_Run_CrossModuleBaseDegrades verifies a base defined in another
// module keeps its source text and drops out of the ancestry.
func TestAnalyzer_Run_CrossModuleBaseDegrades(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"models/base.py":   shapeSource,
		"models/circle.py": circleSource,
	})

	analysis, err := New(Config{SourceDir: dir}).Run(context.Background())
	require.NoError(t, err)

	circle, ok := analysis.Class("Circle", "models/circle.py")
	require.True(t, ok)
	assert.Equal(t, []string{"Shape"}, circle.Bases)
	assert.Equal(t, []string{"Circle"}, circle.MRO)
}

// TestAnalyzer_Run_Members verifies the collected class-level members carry
// their defining class and definition kind.
func TestAnalyzer_Run_Members(t *testing.T) {
	dir := writeProject(t, map[string]string{"models/base.py": shapeSource})

	analysis, err := New(Config{SourceDir: dir}).Run(context.Background())
	require.NoError(t, err)

	square, ok := analysis.Class("Square", "")
	require.True(t, ok)

	area, ok := memberByName(square.Members, "area")
	require.True(t, ok)
	assert.Equal(t, "Square", area.Origin)
	assert.Equal(t, "function", area.Kind)

	kind, ok := memberByName(square.Members, "kind")
	require.True(t, ok)
	assert.Equal(t, "Shape", kind.Origin)
	assert.Equal(t, "assignment", kind.Kind)
	assert.Equal(t, 2, kind.Line)

	init, ok := memberByName(square.Members, "__init__")
	require.True(t, ok)
	assert.Equal(t, "Shape", init.Origin)

	mro, ok := memberByName(square.Members, "mro")
	require.True(t, ok)
	assert.Equal(t, "type", mro.Origin)

	_, ok = memberByName(square.Members, "__str__")
	assert.False(t, ok, "stub dunders stay out of the listing")
	_, ok = memberByName(square.Members, "sides")
	assert.False(t, ok, "receiver attributes belong to the instance view")
}

// TestCollectMembers_InstanceView verifies instance enumeration adds receiver
// attributes and drops class-object ones.
func TestCollectMembers_InstanceView(t *testing.T) {
	file, err := pytree.Parse(context.Background(), "models/base.py", []byte(shapeSource))
	require.NoError(t, err)
	defer file.Close()

	session, err := inference.NewSession(inference.Config{})
	require.NoError(t, err)
	defer session.Close()

	def := file.ClassByName("Square")
	require.NotNil(t, def)

	members := CollectMembers(session.ClassFor(def), true, nil)

	sides, ok := memberByName(members, "sides")
	require.True(t, ok)
	assert.Equal(t, "Shape", sides.Origin)
	assert.Equal(t, "assignment", sides.Kind)

	area, ok := memberByName(members, "area")
	require.True(t, ok)
	assert.Equal(t, "Square", area.Origin)

	_, ok = memberByName(members, "mro")
	assert.False(t, ok, "class-object attributes stay out of the instance view")
}

// TestAnalyzer_Run_ParseErrorDegrades verifies an unparseable file becomes a
// diagnostic instead of failing the run.
func TestAnalyzer_Run_ParseErrorDegrades(t *testing.T) {
	dir := writeProject(t, map[string]string{"good.py": "class Ok:\n    pass\n"})
	bad := filepath.Join(dir, "bad.py")
	require.NoError(t, os.WriteFile(bad, []byte{0xff, 0xfe, 0x80}, 0o644))

	analysis, err := New(Config{SourceDir: dir}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, analysis.Stats.ModuleCount)
	assert.Equal(t, 1, analysis.Stats.ClassCount)
	require.Len(t, analysis.Diagnostics, 1)
	assert.Equal(t, "parse-error", analysis.Diagnostics[0].Kind)
	assert.Equal(t, "bad.py", analysis.Diagnostics[0].Path)
	assert.Contains(t, analysis.Diagnostics[0].Message, "UTF-8")
}

// TestAnalyzer_Run_SyntaxErrorsFlagged verifies a module with broken syntax
// is still indexed and marked.
func TestAnalyzer_Run_SyntaxErrorsFlagged(t *testing.T) {
	src := "class Ok:\n    pass\n\ndef broken(:\n"
	dir := writeProject(t, map[string]string{"partial.py": src})

	analysis, err := New(Config{SourceDir: dir}).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, analysis.Modules, 1)
	assert.True(t, analysis.Modules[0].SyntaxErrors)
	_, ok := analysis.Class("Ok", "partial.py")
	assert.True(t, ok)
}

// TestAnalyzer_Run_EmptyTree verifies an empty source tree yields an empty
// result, not an error.
func TestAnalyzer_Run_EmptyTree(t *testing.T) {
	analysis, err := New(Config{SourceDir: t.TempDir()}).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, analysis.Stats.ModuleCount)
	assert.Zero(t, analysis.Stats.ClassCount)
	assert.False(t, analysis.GeneratedAt.IsZero())
}
