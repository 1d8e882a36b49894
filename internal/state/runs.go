package state

import (
	"database/sql"
	"fmt"
	"time"
)

// CreateRun starts a new indexing run for a project root.
func (s *Store) CreateRun(projectRoot string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &Run{
		ID:          generateID(),
		ProjectRoot: projectRoot,
		Status:      RunStatusRunning,
		StartedAt:   time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, project_root, status, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.ProjectRoot, run.Status, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// CompleteRun marks a run finished with its final status and counts.
func (s *Store) CompleteRun(id string, status RunStatus, modules, classes, diagnostics int, errMsg string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	now := time.Now().UTC()
	var errorPtr *string
	if errMsg != "" {
		errorPtr = &errMsg
	}

	result, err := s.db.Exec(
		`UPDATE runs SET status = ?, completed_at = ?, module_count = ?, class_count = ?, diagnostic_count = ?, error = ?
		 WHERE id = ?`,
		status, now, modules, classes, diagnostics, errorPtr, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(id string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run, err := s.scanRun(s.db.QueryRow(
		`SELECT id, project_root, status, started_at, completed_at, module_count, class_count, diagnostic_count, error
		 FROM runs WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// LatestRun retrieves the most recent run for a project root, or nil
// when the project was never indexed.
func (s *Store) LatestRun(projectRoot string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run, err := s.scanRun(s.db.QueryRow(
		`SELECT id, project_root, status, started_at, completed_at, module_count, class_count, diagnostic_count, error
		 FROM runs WHERE project_root = ? ORDER BY started_at DESC LIMIT 1`, projectRoot))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return run, nil
}

// CountByRun returns how many modules and classes a run indexed.
func (s *Store) CountByRun(runID string) (modules, classes int, err error) {
	if s.db == nil {
		return 0, 0, fmt.Errorf("database not opened")
	}

	err = s.db.QueryRow(
		`SELECT
		   (SELECT COUNT(*) FROM modules WHERE run_id = ?),
		   (SELECT COUNT(*) FROM classes WHERE run_id = ?)`,
		runID, runID,
	).Scan(&modules, &classes)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count run contents: %w", err)
	}
	return modules, classes, nil
}

func (s *Store) scanRun(row *sql.Row) (*Run, error) {
	run := &Run{}
	var completedAt sql.NullTime
	var errMsg sql.NullString

	err := row.Scan(
		&run.ID, &run.ProjectRoot, &run.Status, &run.StartedAt, &completedAt,
		&run.ModuleCount, &run.ClassCount, &run.DiagnosticCount, &errMsg,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	if errMsg.Valid {
		run.Error = errMsg.String
	}
	return run, nil
}
