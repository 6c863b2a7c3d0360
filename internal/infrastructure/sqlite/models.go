package sqlite

import (
	"time"

	"github.com/zjrosen/glyph/internal/workspace"
)

// WorkspaceModel mirrors the workspaces table row.
type WorkspaceModel struct {
	ID        int64
	GUID      string
	Name      string
	Spec      string
	Revision  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m *WorkspaceModel) toDomain() *workspace.Workspace {
	return &workspace.Workspace{
		ID:        m.ID,
		GUID:      m.GUID,
		Name:      m.Name,
		Spec:      []byte(m.Spec),
		Revision:  m.Revision,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
