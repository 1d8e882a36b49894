// Package report defines the analysis result DTOs shared by the CLI's JSON
// output and the HTTP API.
package report

import (
	"sort"
	"time"
)

// Analysis is the complete result of analyzing one project tree.
type Analysis struct {
	ProjectRoot string       `json:"project_root"`
	GeneratedAt time.Time    `json:"generated_at"`
	Modules     []Module     `json:"modules"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Stats       Stats        `json:"stats"`
}

// Module is one analyzed source file.
type Module struct {
	Path         string  `json:"path"`
	Classes      []Class `json:"classes"`
	SyntaxErrors bool    `json:"syntax_errors,omitempty"`
}

// Class is the inspectable surface of one class definition.
type Class struct {
	QualName    string   `json:"qual_name"`
	Name        string   `json:"name"`
	Module      string   `json:"module"`
	Line        int      `json:"line"`
	Column      int      `json:"column"`
	Decorated   bool     `json:"decorated,omitempty"`
	Bases       []string `json:"bases,omitempty"`
	MRO         []string `json:"mro"`
	Metaclasses []string `json:"metaclasses,omitempty"`
	TypeVars    []string `json:"type_vars,omitempty"`
	Params      []string `json:"params,omitempty"`
	Signature   string   `json:"signature,omitempty"`
	Members     []Member `json:"members,omitempty"`
}

// Member is one attribute visible on a class or instance view.
type Member struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Origin string `json:"origin,omitempty"`
	Line   int    `json:"line,omitempty"`
}

// Diagnostic is one recoverable anomaly surfaced by inference.
type Diagnostic struct {
	Kind    string `json:"kind"`
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Message string `json:"message"`
}

// Stats contains counts for summaries and the doctor command.
type Stats struct {
	ModuleCount     int           `json:"module_count"`
	ClassCount      int           `json:"class_count"`
	DiagnosticCount int           `json:"diagnostic_count"`
	Elapsed         time.Duration `json:"elapsed_ns"`
}

// Sort orders modules by path and classes by qualified name, giving JSON
// output a stable shape across runs.
func (a *Analysis) Sort() {
	sort.Slice(a.Modules, func(i, j int) bool {
		return a.Modules[i].Path < a.Modules[j].Path
	})
	for i := range a.Modules {
		m := &a.Modules[i]
		sort.Slice(m.Classes, func(x, y int) bool {
			return m.Classes[x].QualName < m.Classes[y].QualName
		})
	}
}

// Classes returns every class across all modules, in module/class order.
func (a *Analysis) Classes() []Class {
	var out []Class
	for _, m := range a.Modules {
		out = append(out, m.Classes...)
	}
	return out
}

// Class finds a class by qualified name, optionally disambiguated by module
// path. The first match wins when path is empty.
func (a *Analysis) Class(qualName, path string) (Class, bool) {
	for _, m := range a.Modules {
		if path != "" && m.Path != path {
			continue
		}
		for _, c := range m.Classes {
			if c.QualName == qualName {
				return c, true
			}
		}
	}
	return Class{}, false
}

// Recount refreshes the aggregate counts from the current content.
func (a *Analysis) Recount() {
	a.Stats.ModuleCount = len(a.Modules)
	a.Stats.DiagnosticCount = len(a.Diagnostics)
	n := 0
	for _, m := range a.Modules {
		n += len(m.Classes)
	}
	a.Stats.ClassCount = n
}
