package server

import (
	"github.com/leapstack-labs/pylens/internal/hierarchy"
	"github.com/leapstack-labs/pylens/pkg/report"
)

// healthResponse is the GET /health body.
type healthResponse struct {
	Status      string `json:"status"`
	Modules     int    `json:"modules"`
	Classes     int    `json:"classes"`
	Diagnostics int    `json:"diagnostics"`
}

// classListResponse is the GET /api/classes body.
type classListResponse struct {
	Classes []report.Class `json:"classes"`
	Count   int            `json:"count"`
}

// mroResponse is the GET /api/classes/{qualname}/mro body.
type mroResponse struct {
	QualName string   `json:"qual_name"`
	MRO      []string `json:"mro"`
}

// membersResponse is the GET /api/classes/{qualname}/members body.
type membersResponse struct {
	QualName string          `json:"qual_name"`
	Members  []report.Member `json:"members"`
}

// hierarchyResponse is the GET /api/hierarchy body.
type hierarchyResponse struct {
	Classes int              `json:"classes"`
	Edges   []hierarchy.Edge `json:"edges"`
	Levels  [][]string       `json:"levels,omitempty"`
	Cycle   []string         `json:"cycle,omitempty"`
	Roots   []string         `json:"roots,omitempty"`
	Leaves  []string         `json:"leaves,omitempty"`
}

// diagnosticsResponse is the GET /api/diagnostics body.
type diagnosticsResponse struct {
	Diagnostics []report.Diagnostic `json:"diagnostics"`
	Count       int                 `json:"count"`
}

// reindexResponse is the POST /api/reindex body.
type reindexResponse struct {
	Modules     int    `json:"modules"`
	Classes     int    `json:"classes"`
	Diagnostics int    `json:"diagnostics"`
	Elapsed     string `json:"elapsed"`
}

// errorResponse is the body of any non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}
