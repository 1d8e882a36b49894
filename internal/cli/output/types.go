package output

import (
	"github.com/leapstack-labs/pylens/pkg/report"
)

// ListSummary summarizes a class listing.
type ListSummary struct {
	Total   int    `json:"total"`
	Modules int    `json:"modules"`
	Source  string `json:"source"`
}

// ClassListOutput is the JSON shape of the classes command.
type ClassListOutput struct {
	Classes []report.Class `json:"classes"`
	Summary ListSummary    `json:"summary"`
}

// InspectOutput is the JSON shape of the inspect command.
type InspectOutput struct {
	Class        report.Class `json:"class"`
	InstanceView bool         `json:"instance_view,omitempty"`
	Origin       string       `json:"origin,omitempty"`
}

// EdgeInfo is one base -> subclass edge in the hierarchy output.
type EdgeInfo struct {
	Base string `json:"base"`
	Sub  string `json:"sub"`
}

// HierarchyOutput is the JSON shape of the hierarchy view.
type HierarchyOutput struct {
	Classes int        `json:"classes"`
	Edges   []EdgeInfo `json:"edges"`
	Levels  [][]string `json:"levels,omitempty"`
	Cycle   []string   `json:"cycle,omitempty"`
}

// PluginFileInfo describes one loaded plugin file.
type PluginFileInfo struct {
	Namespace string   `json:"namespace"`
	Path      string   `json:"path"`
	Exports   []string `json:"exports,omitempty"`
}

// OverrideInfo describes one registered metaclass override.
type OverrideInfo struct {
	Metaclass string `json:"metaclass"`
	Function  string `json:"function"`
	Namespace string `json:"namespace"`
}

// PluginListOutput is the JSON shape of the plugins command.
type PluginListOutput struct {
	Name        string           `json:"name,omitempty"`
	Description string           `json:"description,omitempty"`
	Plugins     []PluginFileInfo `json:"plugins"`
	Overrides   []OverrideInfo   `json:"overrides"`
}

// HealthCheck is one doctor check result.
type HealthCheck struct {
	Name       string   `json:"name"`
	Group      string   `json:"group"`
	Status     string   `json:"status"` // "pass", "warn", "error"
	Message    string   `json:"message,omitempty"`
	IssueCount int      `json:"issue_count"`
	Details    []string `json:"details,omitempty"`
}

// ProjectSummary contains project-level statistics for the doctor report.
type ProjectSummary struct {
	Modules        int `json:"modules"`
	Classes        int `json:"classes"`
	Diagnostics    int `json:"diagnostics"`
	HierarchyDepth int `json:"hierarchy_depth"`
	RootCount      int `json:"root_count"`
	LeafCount      int `json:"leaf_count"`
	EdgeCount      int `json:"edge_count"`
}

// DoctorOutput is the JSON shape of the doctor command.
type DoctorOutput struct {
	Summary         ProjectSummary `json:"summary"`
	HealthChecks    []HealthCheck  `json:"health_checks"`
	Score           int            `json:"score"`
	Recommendations []string       `json:"recommendations"`
	IssueCount      int            `json:"issue_count"`
}

// IndexOutput is the JSON shape of the index command.
type IndexOutput struct {
	RunID       string `json:"run_id"`
	StatePath   string `json:"state_path"`
	Modules     int    `json:"modules"`
	Classes     int    `json:"classes"`
	Diagnostics int    `json:"diagnostics"`
	Elapsed     string `json:"elapsed"`
}

// VersionOutput is the JSON shape of the version command.
type VersionOutput struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	BuiltAt string `json:"built_at,omitempty"`
}
