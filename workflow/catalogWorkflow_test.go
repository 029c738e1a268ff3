package workflow

import (
	"context"
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/envreview_backend/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalogStore struct {
	mocs []models.Moc
	err  error
}

func (s *stubCatalogStore) ListMocs(ctx context.Context) ([]models.Moc, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Moc, len(s.mocs))
	copy(out, s.mocs)
	return out, nil
}

func mocWithID(identifier string) models.Moc {
	return models.Moc{
		ID:      uuid.New(),
		MocKey:  identifier,
		Columns: models.ColumnMap{"MOC ID": identifier},
	}
}

func TestCatalogLoad_OrdersDescendingAndSelectsFirst(t *testing.T) {
	store := &stubCatalogStore{mocs: []models.Moc{
		mocWithID("ML.A1 | 2025 | 10"),
		mocWithID("ML.A1 | 2025 | 3356"),
		mocWithID("no numeric tail"),
	}}
	catalog := NewCatalog(store)
	require.NoError(t, catalog.Load(context.Background()))

	mocs := catalog.Mocs()
	require.Len(t, mocs, 3)
	assert.Equal(t, "ML.A1 | 2025 | 3356", mocs[0].Identifier())
	assert.Equal(t, "ML.A1 | 2025 | 10", mocs[1].Identifier())
	assert.Equal(t, "no numeric tail", mocs[2].Identifier())

	selected := catalog.Selected()
	require.NotNil(t, selected)
	assert.Equal(t, mocs[0].ID, selected.ID)
}

func TestCatalogLoad_ErrorClearsList(t *testing.T) {
	store := &stubCatalogStore{mocs: []models.Moc{mocWithID("ML.A1 | 2025 | 1")}}
	catalog := NewCatalog(store)
	require.NoError(t, catalog.Load(context.Background()))
	require.NotNil(t, catalog.Selected())

	store.err = errors.New("store offline")
	err := catalog.Load(context.Background())
	require.Error(t, err)
	assert.Empty(t, catalog.Mocs())
	assert.Nil(t, catalog.Selected())
}

func TestCatalogSelect_ByID(t *testing.T) {
	a := mocWithID("ML.A1 | 2025 | 2")
	b := mocWithID("ML.A1 | 2025 | 1")
	store := &stubCatalogStore{mocs: []models.Moc{a, b}}
	catalog := NewCatalog(store)
	require.NoError(t, catalog.Load(context.Background()))

	got, ok := catalog.Select(b.ID)
	require.True(t, ok)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, b.ID, catalog.Selected().ID)

	_, ok = catalog.Select(uuid.New())
	assert.False(t, ok)
	// A miss leaves the selection where it was.
	assert.Equal(t, b.ID, catalog.Selected().ID)
}

func TestCatalogReload_KeepsSelectionByID(t *testing.T) {
	a := mocWithID("ML.A1 | 2025 | 5")
	b := mocWithID("ML.A1 | 2025 | 3")
	store := &stubCatalogStore{mocs: []models.Moc{a, b}}
	catalog := NewCatalog(store)
	require.NoError(t, catalog.Load(context.Background()))

	_, ok := catalog.Select(b.ID)
	require.True(t, ok)

	// A new row outranks everything; the held selection must survive the
	// reshuffle.
	store.mocs = append(store.mocs, mocWithID("ML.A1 | 2025 | 9999"))
	require.NoError(t, catalog.Load(context.Background()))
	require.NotNil(t, catalog.Selected())
	assert.Equal(t, b.ID, catalog.Selected().ID)
}

func TestCatalogReload_DroppedSelectionFallsBackToFirst(t *testing.T) {
	a := mocWithID("ML.A1 | 2025 | 5")
	b := mocWithID("ML.A1 | 2025 | 3")
	store := &stubCatalogStore{mocs: []models.Moc{a, b}}
	catalog := NewCatalog(store)
	require.NoError(t, catalog.Load(context.Background()))

	_, ok := catalog.Select(b.ID)
	require.True(t, ok)

	store.mocs = []models.Moc{a}
	require.NoError(t, catalog.Load(context.Background()))
	require.NotNil(t, catalog.Selected())
	assert.Equal(t, a.ID, catalog.Selected().ID)
}
