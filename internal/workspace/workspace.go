// Package workspace defines the persisted workspace entity and its
// repository contract. A workspace is a named series of clean spec exports;
// every save appends a new revision.
package workspace

import (
	"fmt"
	"time"
)

// Workspace is one saved revision of a named spec export.
type Workspace struct {
	ID        int64
	GUID      string
	Name      string
	Spec      []byte
	Revision  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository persists workspaces.
type Repository interface {
	// Save appends a new revision for the workspace's name, assigning GUID,
	// Revision, ID and timestamps on the passed value.
	Save(ws *Workspace) error

	// FindByName returns the latest revision for a name.
	FindByName(name string) (*Workspace, error)

	// FindRevision returns a specific revision for a name.
	FindRevision(name string, revision int) (*Workspace, error)

	// List returns the latest revision of every workspace, ordered by name.
	List() ([]*Workspace, error)
}

// NotFoundError indicates no workspace matched the query.
type NotFoundError struct {
	Name     string
	Revision int
}

func (e *NotFoundError) Error() string {
	if e.Revision > 0 {
		return fmt.Sprintf("workspace %q revision %d not found", e.Name, e.Revision)
	}
	return fmt.Sprintf("workspace %q not found", e.Name)
}
