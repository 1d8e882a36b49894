package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pylens/internal/cli/output"
	"github.com/leapstack-labs/pylens/internal/cli/testutil"
	"github.com/leapstack-labs/pylens/internal/plugin"
	"github.com/leapstack-labs/pylens/pkg/report"
)

// fixtureClasses returns a small class listing used by the render tests.
func fixtureClasses() []report.Class {
	return []report.Class{
		{
			QualName:  "Shape",
			Name:      "Shape",
			Module:    "models/shapes.py",
			Line:      1,
			MRO:       []string{"Shape", "object"},
			Signature: "Shape()",
			Members: []report.Member{
				{Name: "area", Kind: "function", Origin: "Shape", Line: 7},
				{Name: "kind", Kind: "assignment", Origin: "Shape", Line: 2},
			},
		},
		{
			QualName: "Square",
			Name:     "Square",
			Module:   "models/shapes.py",
			Line:     11,
			Bases:    []string{"Shape"},
			MRO:      []string{"Square", "Shape", "object"},
		},
	}
}

func TestClassesText(t *testing.T) {
	tr := testutil.NewTestRendererText()

	err := classesText(tr.Renderer, fixtureClasses())
	require.NoError(t, err)

	out := tr.Output()
	testutil.AssertContains(t, out, "Classes (2 total)")
	testutil.AssertContains(t, out, "Shape")
	testutil.AssertContains(t, out, "models/shapes.py")
	testutil.AssertContains(t, out, "(2 rows)")
}

func TestClassesTextEmpty(t *testing.T) {
	tr := testutil.NewTestRendererText()

	err := classesText(tr.Renderer, nil)
	require.NoError(t, err)

	testutil.AssertContains(t, tr.Output(), "(0 rows)")
}

func TestClassesMarkdown(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()

	err := classesMarkdown(tr.Renderer, fixtureClasses())
	require.NoError(t, err)

	out := tr.Output()
	testutil.AssertValidMarkdown(t, out)
	testutil.AssertNoANSI(t, out)
	testutil.AssertContains(t, out, "# Classes (2 total)")
	testutil.AssertContains(t, out, "## Square")
	testutil.AssertContains(t, out, "- **Bases:** Shape")
}

func TestClassesJSON(t *testing.T) {
	tr := testutil.NewTestRendererJSON()

	err := classesJSON(tr.Renderer, fixtureClasses(), 1, "analysis")
	require.NoError(t, err)

	var decoded output.ClassListOutput
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &decoded))

	assert.Equal(t, 2, decoded.Summary.Total)
	assert.Equal(t, 1, decoded.Summary.Modules)
	assert.Equal(t, "analysis", decoded.Summary.Source)
	assert.Equal(t, "Shape", decoded.Classes[0].QualName)
	testutil.AssertNoANSI(t, tr.Output())
}

func TestInspectText(t *testing.T) {
	tr := testutil.NewTestRendererText()
	cls := fixtureClasses()[0]

	err := inspectText(tr.Renderer, &cls, &inspectOptions{})
	require.NoError(t, err)

	out := tr.Output()
	testutil.AssertContains(t, out, "Shape")
	testutil.AssertContains(t, out, "models/shapes.py:1")
	testutil.AssertContains(t, out, "Shape -> object")
	testutil.AssertContains(t, out, "class view, 2 total")
	testutil.AssertContains(t, out, "area")
}

func TestInspectTextInstanceView(t *testing.T) {
	tr := testutil.NewTestRendererText()
	cls := fixtureClasses()[1]

	err := inspectText(tr.Renderer, &cls, &inspectOptions{instance: true})
	require.NoError(t, err)

	out := tr.Output()
	testutil.AssertContains(t, out, "instance view")
	testutil.AssertContains(t, out, "(none)")
}

func TestInspectMarkdown(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	cls := fixtureClasses()[0]

	err := inspectMarkdown(tr.Renderer, &cls, &inspectOptions{})
	require.NoError(t, err)

	out := tr.Output()
	testutil.AssertValidMarkdown(t, out)
	testutil.AssertContains(t, out, "# Shape")
	testutil.AssertContains(t, out, "- **MRO:** Shape -> object")
	testutil.AssertContains(t, out, "`area` (function, from Shape)")
}

func TestInspectJSON(t *testing.T) {
	tr := testutil.NewTestRendererJSON()
	cls := fixtureClasses()[0]

	err := inspectJSON(tr.Renderer, &cls, &inspectOptions{instance: true, origin: "Square"})
	require.NoError(t, err)

	var decoded output.InspectOutput
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &decoded))

	assert.Equal(t, "Shape", decoded.Class.QualName)
	assert.True(t, decoded.InstanceView)
	assert.Equal(t, "Square", decoded.Origin)
}

func TestIndexText(t *testing.T) {
	tr := testutil.NewTestRendererText()

	err := indexText(tr.Renderer, output.IndexOutput{
		RunID:       "run-1",
		StatePath:   "/tmp/index.db",
		Modules:     2,
		Classes:     3,
		Diagnostics: 1,
		Elapsed:     "12ms",
	})
	require.NoError(t, err)

	out := tr.Output()
	testutil.AssertContains(t, out, "Indexed 3 classes across 2 modules")
	testutil.AssertContains(t, out, "1 diagnostics recorded")
	testutil.AssertContains(t, out, "run-1")
}

func TestIndexMarkdown(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()

	err := indexMarkdown(tr.Renderer, output.IndexOutput{RunID: "run-1", Modules: 2, Classes: 3})
	require.NoError(t, err)

	out := tr.Output()
	testutil.AssertValidMarkdown(t, out)
	testutil.AssertContains(t, out, "- **Run:** run-1")
	testutil.AssertContains(t, out, "- **Classes:** 3")
}

func TestPluginsTextEmpty(t *testing.T) {
	tr := testutil.NewTestRendererText()

	err := pluginsText(tr.Renderer, "plugins", &plugin.Set{})
	require.NoError(t, err)

	testutil.AssertContains(t, tr.Output(), "No plugins found in plugins")
}

func TestSplitJoined(t *testing.T) {
	assert.Nil(t, splitJoined(""))
	assert.Equal(t, []string{"Meta"}, splitJoined("Meta"))
	assert.Equal(t, []string{"A", "B"}, splitJoined("A, B"))
}
