package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/glyph/internal/log"
	"github.com/zjrosen/glyph/internal/workspace"
)

// workspaceColumns is the list of columns to select for workspace queries.
const workspaceColumns = `id, guid, name, spec, revision, created_at, updated_at`

// workspaceRepository implements workspace.Repository using SQLite.
type workspaceRepository struct {
	db *sql.DB
}

// newWorkspaceRepository creates a new workspaceRepository instance.
func newWorkspaceRepository(db *sql.DB) *workspaceRepository {
	return &workspaceRepository{db: db}
}

// Ensure workspaceRepository implements workspace.Repository.
var _ workspace.Repository = (*workspaceRepository)(nil)

// scanWorkspace scans a row into a WorkspaceModel.
func scanWorkspace(scanner interface{ Scan(...any) error }) (*WorkspaceModel, error) {
	var model WorkspaceModel
	err := scanner.Scan(
		&model.ID, &model.GUID, &model.Name, &model.Spec,
		&model.Revision, &model.CreatedAt, &model.UpdatedAt,
	)
	return &model, err
}

// Save appends a new revision for the workspace's name. The next revision
// number is read and the row inserted in one transaction so concurrent saves
// cannot collide.
func (r *workspaceRepository) Save(ws *workspace.Workspace) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var next int
	err = tx.QueryRow(
		`SELECT COALESCE(MAX(revision), 0) + 1 FROM workspaces WHERE name = ?`,
		ws.Name,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("reading next revision: %w", err)
	}

	now := time.Now().UTC()
	guid := uuid.New().String()
	result, err := tx.Exec(
		`INSERT INTO workspaces (guid, name, spec, revision, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		guid, ws.Name, string(ws.Spec), next, now, now,
	)
	if err != nil {
		return fmt.Errorf("inserting workspace: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}

	ws.ID = id
	ws.GUID = guid
	ws.Revision = next
	ws.CreatedAt = now
	ws.UpdatedAt = now
	log.Debug(log.CatStore, "workspace saved", "name", ws.Name, "revision", next)
	return nil
}

// FindByName returns the latest revision for a name.
func (r *workspaceRepository) FindByName(name string) (*workspace.Workspace, error) {
	row := r.db.QueryRow(
		`SELECT `+workspaceColumns+` FROM workspaces
		 WHERE name = ? ORDER BY revision DESC LIMIT 1`,
		name,
	)
	model, err := scanWorkspace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &workspace.NotFoundError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("finding workspace by name: %w", err)
	}
	return model.toDomain(), nil
}

// FindRevision returns a specific revision for a name.
func (r *workspaceRepository) FindRevision(name string, revision int) (*workspace.Workspace, error) {
	row := r.db.QueryRow(
		`SELECT `+workspaceColumns+` FROM workspaces
		 WHERE name = ? AND revision = ?`,
		name, revision,
	)
	model, err := scanWorkspace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &workspace.NotFoundError{Name: name, Revision: revision}
	}
	if err != nil {
		return nil, fmt.Errorf("finding workspace revision: %w", err)
	}
	return model.toDomain(), nil
}

// List returns the latest revision of every workspace, ordered by name.
func (r *workspaceRepository) List() ([]*workspace.Workspace, error) {
	rows, err := r.db.Query(
		`SELECT ` + workspaceColumns + ` FROM workspaces w
		 WHERE revision = (SELECT MAX(revision) FROM workspaces WHERE name = w.name)
		 ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*workspace.Workspace
	for rows.Next() {
		model, err := scanWorkspace(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workspace row: %w", err)
		}
		out = append(out, model.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating workspace rows: %w", err)
	}
	return out, nil
}
