// Package analyzer discovers, parses, and infers over a Python source tree,
// producing the report consumed by the CLI and the API server.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/pylens/pkg/inference"
	"github.com/leapstack-labs/pylens/pkg/pytree"
	"github.com/leapstack-labs/pylens/pkg/report"
)

// Config holds analyzer settings.
type Config struct {
	// SourceDir is the root of the Python tree to analyze.
	SourceDir string
	// Exclude lists directory names skipped during discovery.
	Exclude []string
	// Workers bounds parallel parsing; <= 0 uses the CPU count.
	Workers int
	// Logger receives progress events; nil discards them.
	Logger *slog.Logger
	// Limits bounds the inference walks; zero fields take defaults.
	Limits inference.Limits
	// Plugins supplies metaclass-filter overrides; nil means none.
	Plugins *inference.PluginRegistry
}

// Analyzer runs the parse and inference pipeline over one source tree.
type Analyzer struct {
	cfg Config
	log *slog.Logger
}

// New creates an analyzer for the configured source tree.
func New(cfg Config) *Analyzer {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Analyzer{cfg: cfg, log: log}
}

// parsedModule carries one file through the pipeline.
type parsedModule struct {
	relPath string
	file    *pytree.File
	err     error
}

// Run analyzes the source tree. Per-file failures degrade to diagnostics;
// only discovery failures and context cancellation abort the run.
func (a *Analyzer) Run(ctx context.Context) (*report.Analysis, error) {
	start := time.Now()

	paths, err := discoverSources(a.cfg.SourceDir, a.cfg.Exclude)
	if err != nil {
		return nil, fmt.Errorf("source discovery failed: %w", err)
	}

	a.log.Info("starting analysis", "source_dir", a.cfg.SourceDir, "files", len(paths))

	modules, err := a.parseAll(ctx, paths)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, m := range modules {
			if m.file != nil {
				m.file.Close()
			}
		}
	}()

	session, err := inference.NewSession(inference.Config{
		Logger:  a.log,
		Limits:  a.cfg.Limits,
		Plugins: a.cfg.Plugins,
	})
	if err != nil {
		return nil, fmt.Errorf("inference session failed: %w", err)
	}
	defer session.Close()

	analysis := &report.Analysis{
		ProjectRoot: a.cfg.SourceDir,
		GeneratedAt: time.Now().UTC(),
	}

	for _, m := range modules {
		if m.err != nil {
			analysis.Diagnostics = append(analysis.Diagnostics, report.Diagnostic{
				Kind:    "parse-error",
				Path:    m.relPath,
				Message: m.err.Error(),
			})
			continue
		}

		mod := report.Module{Path: m.relPath}
		if m.file.HasSyntaxErrors() {
			mod.SyntaxErrors = true
		}

		for _, def := range m.file.Classes() {
			mod.Classes = append(mod.Classes, a.buildClass(session, m.relPath, def))
		}
		analysis.Modules = append(analysis.Modules, mod)
		a.log.Debug("analyzed module", "path", m.relPath, "classes", len(mod.Classes))
	}

	for _, d := range session.Diagnostics() {
		analysis.Diagnostics = append(analysis.Diagnostics, report.Diagnostic{
			Kind:    d.Kind.String(),
			Path:    d.Path,
			Line:    d.Pos.Line,
			Column:  d.Pos.Column,
			Message: d.Message,
		})
	}

	analysis.Sort()
	analysis.Recount()
	analysis.Stats.Elapsed = time.Since(start)

	a.log.Info("analysis completed",
		"modules", analysis.Stats.ModuleCount,
		"classes", analysis.Stats.ClassCount,
		"diagnostics", analysis.Stats.DiagnosticCount,
		"duration_ms", analysis.Stats.Elapsed.Milliseconds())

	return analysis, nil
}

// parseAll reads and parses the discovered files in parallel. Parse failures
// stay attached to their module; only context cancellation aborts.
func (a *Analyzer) parseAll(ctx context.Context, paths []string) ([]*parsedModule, error) {
	modules := make([]*parsedModule, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)

	for i, rel := range paths {
		g.Go(func() error {
			m := &parsedModule{relPath: rel}
			modules[i] = m

			src, err := os.ReadFile(filepath.Join(a.cfg.SourceDir, filepath.FromSlash(rel)))
			if err != nil {
				m.err = err
				return nil
			}

			file, err := pytree.Parse(gctx, rel, src)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				m.err = err
				return nil
			}
			m.file = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, m := range modules {
			if m != nil && m.file != nil {
				m.file.Close()
			}
		}
		return nil, err
	}
	return modules, nil
}

// buildClass renders one class definition through the inference session.
func (a *Analyzer) buildClass(s *inference.Session, modPath string, def *pytree.ClassDef) report.Class {
	cv := s.ClassFor(def)
	pos := def.Position()

	cls := report.Class{
		QualName:  def.QualName(),
		Name:      def.Name(),
		Module:    modPath,
		Line:      pos.Line,
		Column:    pos.Column,
		Decorated: def.Decorated(),
	}

	for _, lazy := range cv.Bases() {
		expr := lazy.Expr()
		if expr == nil {
			// Implicit object base
			continue
		}
		resolved := lazy.Infer().Classes()
		if len(resolved) == 0 {
			cls.Bases = append(cls.Bases, expr.Text())
			continue
		}
		for _, base := range resolved {
			cls.Bases = append(cls.Bases, base.QualName())
		}
	}

	for _, anc := range cv.MRO() {
		cls.MRO = append(cls.MRO, anc.QualName())
	}

	for _, meta := range cv.Metaclasses().Values() {
		cls.Metaclasses = append(cls.Metaclasses, meta.Name())
	}

	for _, tv := range cv.TypeVars() {
		cls.TypeVars = append(cls.TypeVars, tv.Name())
	}

	cls.Params = cv.ParamNames()
	if sigs := cv.Signatures(); len(sigs) > 0 {
		cls.Signature = sigs[0].String()
	}

	cls.Members = CollectMembers(cv, false, nil)
	return cls
}
