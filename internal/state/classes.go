package state

import (
	"context"
	"database/sql"
	"fmt"
)

// UpsertModule registers a module path under a run, returning the
// existing row when the path was already recorded.
func (s *Store) UpsertModule(runID, path string) (*Module, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	mod := &Module{RunID: runID, Path: path}
	err := s.db.QueryRow(
		`SELECT id FROM modules WHERE run_id = ? AND path = ?`, runID, path,
	).Scan(&mod.ID)
	if err == nil {
		return mod, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check existing module: %w", err)
	}

	mod.ID = generateID()
	if _, err := s.db.Exec(
		`INSERT INTO modules (id, run_id, path) VALUES (?, ?, ?)`,
		mod.ID, mod.RunID, mod.Path,
	); err != nil {
		return nil, fmt.Errorf("failed to insert module: %w", err)
	}
	return mod, nil
}

// InsertClass stores a class row and its ordered base edges in one
// transaction. The ID is assigned here.
func (s *Store) InsertClass(cls *Class) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if cls.ID == "" {
		cls.ID = generateID()
	}

	if _, err := tx.Exec(
		`INSERT INTO classes (id, run_id, module_id, qual_name, name, line, col, decorated, metaclasses, type_vars, signature)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cls.ID, cls.RunID, cls.ModuleID, cls.QualName, cls.Name, cls.Line, cls.Col,
		cls.Decorated, cls.Metaclasses, cls.TypeVars, cls.Signature,
	); err != nil {
		return fmt.Errorf("failed to insert class: %w", err)
	}

	for i, base := range cls.Bases {
		if _, err := tx.Exec(
			`INSERT INTO class_bases (class_id, position, base) VALUES (?, ?, ?)`,
			cls.ID, i, base,
		); err != nil {
			return fmt.Errorf("failed to insert base edge: %w", err)
		}
	}

	return tx.Commit()
}

// ListClasses returns the classes of a run ordered by module path and
// qualified name. A non-empty modulePath restricts the listing to one
// module.
func (s *Store) ListClasses(runID, modulePath string) ([]*Class, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	query := `SELECT c.id, c.run_id, c.module_id, m.path, c.qual_name, c.name, c.line, c.col, c.decorated, c.metaclasses, c.type_vars, c.signature
		 FROM classes c JOIN modules m ON m.id = c.module_id
		 WHERE c.run_id = ?`
	args := []any{runID}
	if modulePath != "" {
		query += ` AND m.path = ?`
		args = append(args, modulePath)
	}
	query += ` ORDER BY m.path, c.qual_name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	defer rows.Close()

	var classes []*Class
	byID := make(map[string]*Class)
	for rows.Next() {
		cls := &Class{}
		if err := rows.Scan(
			&cls.ID, &cls.RunID, &cls.ModuleID, &cls.Module, &cls.QualName, &cls.Name,
			&cls.Line, &cls.Col, &cls.Decorated, &cls.Metaclasses, &cls.TypeVars, &cls.Signature,
		); err != nil {
			return nil, fmt.Errorf("failed to scan class: %w", err)
		}
		classes = append(classes, cls)
		byID[cls.ID] = cls
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate classes: %w", err)
	}

	if err := s.attachBases(runID, byID); err != nil {
		return nil, err
	}
	return classes, nil
}

// GetClass retrieves one class of a run by qualified name.
func (s *Store) GetClass(runID, qualName string) (*Class, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	cls := &Class{}
	err := s.db.QueryRow(
		`SELECT c.id, c.run_id, c.module_id, m.path, c.qual_name, c.name, c.line, c.col, c.decorated, c.metaclasses, c.type_vars, c.signature
		 FROM classes c JOIN modules m ON m.id = c.module_id
		 WHERE c.run_id = ? AND c.qual_name = ?`,
		runID, qualName,
	).Scan(
		&cls.ID, &cls.RunID, &cls.ModuleID, &cls.Module, &cls.QualName, &cls.Name,
		&cls.Line, &cls.Col, &cls.Decorated, &cls.Metaclasses, &cls.TypeVars, &cls.Signature,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("class not found: %s", qualName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get class: %w", err)
	}

	if err := s.attachBases(runID, map[string]*Class{cls.ID: cls}); err != nil {
		return nil, err
	}
	return cls, nil
}

// BaseEdges returns every base declaration of a run ordered by subclass
// name and declaration position.
func (s *Store) BaseEdges(runID string) ([]BaseEdge, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT c.qual_name, b.base, b.position
		 FROM class_bases b JOIN classes c ON c.id = b.class_id
		 WHERE c.run_id = ? ORDER BY c.qual_name, b.position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list base edges: %w", err)
	}
	defer rows.Close()

	var edges []BaseEdge
	for rows.Next() {
		var e BaseEdge
		if err := rows.Scan(&e.Sub, &e.Base, &e.Position); err != nil {
			return nil, fmt.Errorf("failed to scan base edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate base edges: %w", err)
	}
	return edges, nil
}

// attachBases loads the ordered bases for every class in the map.
func (s *Store) attachBases(runID string, byID map[string]*Class) error {
	if len(byID) == 0 {
		return nil
	}

	rows, err := s.db.Query(
		`SELECT b.class_id, b.base
		 FROM class_bases b JOIN classes c ON c.id = b.class_id
		 WHERE c.run_id = ? ORDER BY b.class_id, b.position`,
		runID,
	)
	if err != nil {
		return fmt.Errorf("failed to load base edges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var classID, base string
		if err := rows.Scan(&classID, &base); err != nil {
			return fmt.Errorf("failed to scan base edge: %w", err)
		}
		if cls, ok := byID[classID]; ok {
			cls.Bases = append(cls.Bases, base)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate base edges: %w", err)
	}
	return nil
}
