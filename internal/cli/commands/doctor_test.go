package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/pylens/internal/cli/output"
	"github.com/leapstack-labs/pylens/pkg/report"
)

func TestCalculateHealthScore(t *testing.T) {
	tests := []struct {
		name       string
		checks     []output.HealthCheck
		classCount int
		minScore   int
		maxScore   int
	}{
		{
			name:       "no checks returns 100",
			checks:     nil,
			classCount: 10,
			minScore:   100,
			maxScore:   100,
		},
		{
			name: "all passing returns 100",
			checks: []output.HealthCheck{
				{Name: "config file", Status: "pass"},
				{Name: "python files", Status: "pass"},
			},
			classCount: 10,
			minScore:   100,
			maxScore:   100,
		},
		{
			name: "warnings reduce score",
			checks: []output.HealthCheck{
				{Name: "config file", Status: "pass"},
				{Name: "syntax errors", Status: "warn", IssueCount: 2},
			},
			classCount: 10,
			minScore:   80,
			maxScore:   99,
		},
		{
			name: "errors reduce score more",
			checks: []output.HealthCheck{
				{Name: "parse failures", Status: "error", IssueCount: 2},
			},
			classCount: 10,
			minScore:   70,
			maxScore:   95,
		},
		{
			name: "more classes means less impact per issue",
			checks: []output.HealthCheck{
				{Name: "syntax errors", Status: "warn", IssueCount: 5},
			},
			classCount: 200,
			minScore:   90,
			maxScore:   99,
		},
		{
			name: "many issues can reduce to 0",
			checks: []output.HealthCheck{
				{Name: "parse failures", Status: "error", IssueCount: 20},
				{Name: "syntax errors", Status: "error", IssueCount: 20},
			},
			classCount: 5,
			minScore:   0,
			maxScore:   0,
		},
		{
			name: "failing check without issue count still penalized",
			checks: []output.HealthCheck{
				{Name: "symbol index", Status: "warn"},
			},
			classCount: 5,
			minScore:   95,
			maxScore:   95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := calculateHealthScore(tt.checks, tt.classCount)
			assert.GreaterOrEqual(t, score, tt.minScore, "score should be >= %d", tt.minScore)
			assert.LessOrEqual(t, score, tt.maxScore, "score should be <= %d", tt.maxScore)
		})
	}
}

func TestGetRecommendation(t *testing.T) {
	tests := []struct {
		name     string
		expected bool // whether a recommendation is returned
	}{
		{"config file", true},
		{"source directory", true},
		{"parse failures", true},
		{"syntax errors", true},
		{"inference diagnostics", true},
		{"inheritance cycles", true},
		{"symbol index", true},
		{"plugins", true},
		{"nonexistent check", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := getRecommendation(tt.name)
			if tt.expected {
				assert.NotEmpty(t, rec, "expected a recommendation for %q", tt.name)
			} else {
				assert.Empty(t, rec, "expected no recommendation for %q", tt.name)
			}
		})
	}
}

func TestGenerateRecommendations(t *testing.T) {
	checks := []output.HealthCheck{
		{Name: "config file", Status: "pass"},
		{Name: "syntax errors", Status: "warn", IssueCount: 2},
		{Name: "syntax errors", Status: "warn", IssueCount: 1},
		{Name: "symbol index", Status: "warn", IssueCount: 1},
	}

	recs := generateRecommendations(checks)

	assert.Len(t, recs, 2, "passing checks are skipped and duplicates collapse")
}

func TestBuildProjectSummary(t *testing.T) {
	analysis := &report.Analysis{
		Modules: []report.Module{
			{
				Path: "models/shapes.py",
				Classes: []report.Class{
					{QualName: "Shape", Module: "models/shapes.py", MRO: []string{"Shape", "object"}},
					{QualName: "Square", Module: "models/shapes.py", Bases: []string{"Shape"}, MRO: []string{"Square", "Shape", "object"}},
				},
			},
		},
	}
	analysis.Recount()

	summary := buildProjectSummary(analysis)

	assert.Equal(t, 1, summary.Modules)
	assert.Equal(t, 2, summary.Classes)
	assert.Equal(t, 1, summary.EdgeCount)
	assert.Equal(t, 1, summary.RootCount)
	assert.Equal(t, 1, summary.LeafCount)
	assert.Equal(t, 2, summary.HierarchyDepth)
}
