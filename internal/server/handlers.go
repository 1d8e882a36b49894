package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/pylens/pkg/report"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	analysis, _ := s.snapshot()
	s.respondJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Modules:     analysis.Stats.ModuleCount,
		Classes:     analysis.Stats.ClassCount,
		Diagnostics: analysis.Stats.DiagnosticCount,
	})
}

func (s *Server) handleListClasses(w http.ResponseWriter, r *http.Request) {
	analysis, _ := s.snapshot()

	module := r.URL.Query().Get("module")
	classes := make([]report.Class, 0)
	for _, m := range analysis.Modules {
		if module != "" && m.Path != module {
			continue
		}
		classes = append(classes, m.Classes...)
	}

	s.respondJSON(w, http.StatusOK, classListResponse{
		Classes: classes,
		Count:   len(classes),
	})
}

func (s *Server) handleGetClass(w http.ResponseWriter, r *http.Request) {
	cls, ok := s.lookupClass(r)
	if !ok {
		s.respondError(w, http.StatusNotFound, "class not found: "+chi.URLParam(r, "qualname"))
		return
	}
	s.respondJSON(w, http.StatusOK, cls)
}

func (s *Server) handleGetMRO(w http.ResponseWriter, r *http.Request) {
	cls, ok := s.lookupClass(r)
	if !ok {
		s.respondError(w, http.StatusNotFound, "class not found: "+chi.URLParam(r, "qualname"))
		return
	}
	s.respondJSON(w, http.StatusOK, mroResponse{QualName: cls.QualName, MRO: cls.MRO})
}

func (s *Server) handleGetMembers(w http.ResponseWriter, r *http.Request) {
	cls, ok := s.lookupClass(r)
	if !ok {
		s.respondError(w, http.StatusNotFound, "class not found: "+chi.URLParam(r, "qualname"))
		return
	}
	s.respondJSON(w, http.StatusOK, membersResponse{QualName: cls.QualName, Members: cls.Members})
}

func (s *Server) handleHierarchy(w http.ResponseWriter, _ *http.Request) {
	_, graph := s.snapshot()

	resp := hierarchyResponse{
		Classes: graph.Len(),
		Edges:   graph.Edges(),
		Roots:   graph.Roots(),
		Leaves:  graph.Leaves(),
	}
	if levels, err := graph.Levels(); err == nil {
		resp.Levels = levels
	} else if cycle, ok := graph.Cycle(); ok {
		resp.Cycle = cycle
	}

	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, _ *http.Request) {
	analysis, _ := s.snapshot()

	diags := analysis.Diagnostics
	if diags == nil {
		diags = []report.Diagnostic{}
	}
	s.respondJSON(w, http.StatusOK, diagnosticsResponse{Diagnostics: diags, Count: len(diags)})
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if err := s.reindex(r.Context()); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	analysis, _ := s.snapshot()
	s.respondJSON(w, http.StatusOK, reindexResponse{
		Modules:     analysis.Stats.ModuleCount,
		Classes:     analysis.Stats.ClassCount,
		Diagnostics: analysis.Stats.DiagnosticCount,
		Elapsed:     analysis.Stats.Elapsed.Round(time.Millisecond).String(),
	})
}

// lookupClass resolves the {qualname} URL param against the current
// analysis, optionally disambiguated by a ?module= query.
func (s *Server) lookupClass(r *http.Request) (report.Class, bool) {
	analysis, _ := s.snapshot()
	qualName := chi.URLParam(r, "qualname")
	module := r.URL.Query().Get("module")
	return analysis.Class(qualName, module)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, errorResponse{Error: msg})
}
