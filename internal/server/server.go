// Package server exposes analysis results over a JSON HTTP API with an
// optional file watcher that re-analyzes the source tree on change.
package server

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/pylens/internal/analyzer"
	"github.com/leapstack-labs/pylens/internal/hierarchy"
	"github.com/leapstack-labs/pylens/pkg/report"
)

// Config holds configuration for the API server.
type Config struct {
	Analyzer  *analyzer.Analyzer
	SourceDir string
	Host      string
	Port      int
	Watch     bool
	Logger    *slog.Logger
}

// Server serves the latest analysis over HTTP.
type Server struct {
	analyzer  *analyzer.Analyzer
	sourceDir string
	host      string
	port      int
	watch     bool
	logger    *slog.Logger

	mu       sync.RWMutex
	analysis *report.Analysis
	graph    *hierarchy.Graph
}

// NewServer creates a server instance. Nothing is analyzed until Serve.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		analyzer:  cfg.Analyzer,
		sourceDir: cfg.SourceDir,
		host:      cfg.Host,
		port:      cfg.Port,
		watch:     cfg.Watch,
		logger:    logger,
	}
}

// Serve runs the initial analysis and blocks serving HTTP until the
// context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.reindex(ctx); err != nil {
		return fmt.Errorf("initial analysis failed: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	s.logger.Info("starting API server", "addr", fmt.Sprintf("http://%s", addr))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// routes builds the chi router.
func (s *Server) routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/classes", s.handleListClasses)
		r.Get("/classes/{qualname}", s.handleGetClass)
		r.Get("/classes/{qualname}/mro", s.handleGetMRO)
		r.Get("/classes/{qualname}/members", s.handleGetMembers)
		r.Get("/hierarchy", s.handleHierarchy)
		r.Get("/diagnostics", s.handleDiagnostics)
		r.Post("/reindex", s.handleReindex)
	})

	return r
}

// reindex re-analyzes the source tree and swaps in the result.
func (s *Server) reindex(ctx context.Context) error {
	analysis, err := s.analyzer.Run(ctx)
	if err != nil {
		return err
	}
	graph := hierarchy.FromAnalysis(analysis)

	s.mu.Lock()
	s.analysis = analysis
	s.graph = graph
	s.mu.Unlock()

	s.logger.Info("analysis refreshed",
		"modules", analysis.Stats.ModuleCount,
		"classes", analysis.Stats.ClassCount,
		"diagnostics", analysis.Stats.DiagnosticCount)
	return nil
}

// snapshot returns the current analysis and graph.
func (s *Server) snapshot() (*report.Analysis, *hierarchy.Graph) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analysis, s.graph
}

// watchFiles watches the source tree and re-analyzes on change.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, s.sourceDir); err != nil {
		s.logger.Error("failed to watch source directory", "error", err)
		// Continue without watching
	}

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			ext := filepath.Ext(event.Name)
			if ext != ".py" && ext != ".pyi" {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("source changed, re-analyzing", "file", event.Name)
				if err := s.reindex(ctx); err != nil {
					s.logger.Error("re-analysis failed", "error", err)
				}
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
