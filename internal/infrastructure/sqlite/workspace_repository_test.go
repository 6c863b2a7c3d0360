package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glyph/internal/testutil"
	"github.com/zjrosen/glyph/internal/workspace"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "workspaces.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestWorkspaceRepository_SaveAssignsIdentity(t *testing.T) {
	repo := newTestStore(t).Workspaces()

	ws := &workspace.Workspace{Name: "scatter", Spec: []byte(`{"width":500}`)}
	require.NoError(t, repo.Save(ws))

	require.NotZero(t, ws.ID)
	require.NotEmpty(t, ws.GUID)
	require.Equal(t, 1, ws.Revision)
	require.False(t, ws.CreatedAt.IsZero())
}

func TestWorkspaceRepository_SaveBumpsRevision(t *testing.T) {
	repo := newTestStore(t).Workspaces()

	first := &workspace.Workspace{Name: "scatter", Spec: []byte(`{"width":500}`)}
	require.NoError(t, repo.Save(first))

	second := &workspace.Workspace{Name: "scatter", Spec: []byte(`{"width":800}`)}
	require.NoError(t, repo.Save(second))

	require.Equal(t, 1, first.Revision)
	require.Equal(t, 2, second.Revision)
	require.NotEqual(t, first.GUID, second.GUID)

	// Revisions are per name.
	other := &workspace.Workspace{Name: "bars", Spec: []byte(`{}`)}
	require.NoError(t, repo.Save(other))
	require.Equal(t, 1, other.Revision)
}

func TestWorkspaceRepository_FindByNameReturnsLatest(t *testing.T) {
	repo := newTestStore(t).Workspaces()

	require.NoError(t, repo.Save(&workspace.Workspace{Name: "scatter", Spec: []byte(`{"width":500}`)}))
	require.NoError(t, repo.Save(&workspace.Workspace{Name: "scatter", Spec: []byte(`{"width":800}`)}))

	got, err := repo.FindByName("scatter")
	require.NoError(t, err)
	require.Equal(t, 2, got.Revision)
	require.JSONEq(t, `{"width":800}`, string(got.Spec))
}

func TestWorkspaceRepository_FindRevision(t *testing.T) {
	repo := newTestStore(t).Workspaces()

	require.NoError(t, repo.Save(&workspace.Workspace{Name: "scatter", Spec: []byte(`{"width":500}`)}))
	require.NoError(t, repo.Save(&workspace.Workspace{Name: "scatter", Spec: []byte(`{"width":800}`)}))

	got, err := repo.FindRevision("scatter", 1)
	require.NoError(t, err)
	require.JSONEq(t, `{"width":500}`, string(got.Spec))
}

func TestWorkspaceRepository_NotFound(t *testing.T) {
	repo := newTestStore(t).Workspaces()

	_, err := repo.FindByName("missing")
	var nf *workspace.NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "missing", nf.Name)

	require.NoError(t, repo.Save(&workspace.Workspace{Name: "scatter", Spec: []byte(`{}`)}))
	_, err = repo.FindRevision("scatter", 9)
	require.ErrorAs(t, err, &nf)
	require.Equal(t, 9, nf.Revision)
}

func TestWorkspaceRepository_ListLatestPerName(t *testing.T) {
	repo := newTestStore(t).Workspaces()

	require.NoError(t, repo.Save(&workspace.Workspace{Name: "scatter", Spec: []byte(`{"width":500}`)}))
	require.NoError(t, repo.Save(&workspace.Workspace{Name: "scatter", Spec: []byte(`{"width":800}`)}))
	require.NoError(t, repo.Save(&workspace.Workspace{Name: "bars", Spec: []byte(`{}`)}))

	all, err := repo.List()
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "bars", all[0].Name)
	require.Equal(t, "scatter", all[1].Name)
	require.Equal(t, 2, all[1].Revision)
}

func TestWorkspaceRepository_AgainstRawHandle(t *testing.T) {
	repo := newWorkspaceRepository(testutil.NewTestDB(t))

	ws := &workspace.Workspace{Name: "scatter", Spec: []byte(`{"width":500}`)}
	require.NoError(t, repo.Save(ws))

	got, err := repo.FindByName("scatter")
	require.NoError(t, err)
	require.Equal(t, ws.GUID, got.GUID)
	require.Equal(t, ws.ID, got.ID)
}

func TestOpen_SchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspaces.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Workspaces().Save(&workspace.Workspace{Name: "w", Spec: []byte(`{}`)}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Workspaces().FindByName("w")
	require.NoError(t, err)
	require.Equal(t, 1, got.Revision)
}
