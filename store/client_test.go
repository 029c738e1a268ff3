package store

import (
	"context"
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/envreview_backend/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestClient creates an in-memory SQLite store with both tables migrated.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, models.MigrateTable(db))
	return NewClient(db)
}

func TestFindReviewByMoc_NoneIsNilNil(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	moc := models.Moc{MocKey: "K-1", Columns: models.ColumnMap{"MOC ID": "K-1"}}
	_, err := client.UpsertMocs(ctx, []models.Moc{moc})
	require.NoError(t, err)

	mocs, err := client.ListMocs(ctx)
	require.NoError(t, err)
	require.Len(t, mocs, 1)

	review, err := client.FindReviewByMoc(ctx, mocs[0].ID)
	require.NoError(t, err)
	assert.Nil(t, review)
}

func TestInsertReview_SecondInsertIsDuplicateKey(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.UpsertMocs(ctx, []models.Moc{{MocKey: "K-1", Columns: models.ColumnMap{"MOC ID": "K-1"}}})
	require.NoError(t, err)
	mocs, err := client.ListMocs(ctx)
	require.NoError(t, err)

	first := &models.EnvReview{MocID: mocs[0].ID, EnvStatus: models.EnvStatusNotReviewed}
	require.NoError(t, client.InsertReview(ctx, first))

	second := &models.EnvReview{MocID: mocs[0].ID, EnvStatus: models.EnvStatusNotReviewed}
	err = client.InsertReview(ctx, second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "expected duplicate-key error, got %v", err)

	found, err := client.FindReviewByMoc(ctx, mocs[0].ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)
}

func TestUpdateReview_ReturnsStoredRow(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.UpsertMocs(ctx, []models.Moc{{MocKey: "K-1", Columns: models.ColumnMap{"MOC ID": "K-1"}}})
	require.NoError(t, err)
	mocs, err := client.ListMocs(ctx)
	require.NoError(t, err)

	review := &models.EnvReview{MocID: mocs[0].ID, EnvStatus: models.EnvStatusNotReviewed}
	require.NoError(t, client.InsertReview(ctx, review))

	no := false
	stored, err := client.UpdateReview(ctx, review.ID, map[string]interface{}{
		"EnvStatus":  models.EnvStatusInProgress,
		"ModifyLdar": &no,
		"Comments":   (*string)(nil),
	})
	require.NoError(t, err)
	assert.Equal(t, models.EnvStatusInProgress, stored.EnvStatus)
	require.NotNil(t, stored.ModifyLdar)
	assert.False(t, *stored.ModifyLdar)
	assert.Nil(t, stored.Comments)
	assert.Equal(t, review.ID, stored.ID)
}

func TestUpdateReview_MissingRow(t *testing.T) {
	client := newTestClient(t)

	_, err := client.UpdateReview(context.Background(), uuid.New(), map[string]interface{}{
		"EnvStatus": models.EnvStatusCompleted,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound), "expected record-not-found, got %v", err)
}

func TestUpsertMocs_OverwritesOnNaturalKey(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	count, err := client.UpsertMocs(ctx, []models.Moc{
		{MocKey: "K-1", Columns: models.ColumnMap{"MOC ID": "K-1", "Change Title": "old"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	mocs, err := client.ListMocs(ctx)
	require.NoError(t, err)
	originalID := mocs[0].ID

	_, err = client.UpsertMocs(ctx, []models.Moc{
		{MocKey: "K-1", Columns: models.ColumnMap{"MOC ID": "K-1", "Change Title": "new"}},
	})
	require.NoError(t, err)

	mocs, err = client.ListMocs(ctx)
	require.NoError(t, err)
	require.Len(t, mocs, 1)
	assert.Equal(t, originalID, mocs[0].ID, "store-assigned id must survive upsert")
	assert.Equal(t, "new", mocs[0].Columns["Change Title"])
}

func TestUpsertMocs_InBatchDuplicateLastWins(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	// Rows apply in order inside the transaction, so the last occurrence of
	// a key is the one that sticks (sqlite and MySQL agree on this).
	count, err := client.UpsertMocs(ctx, []models.Moc{
		{MocKey: "K-1", Columns: models.ColumnMap{"MOC ID": "K-1", "Change Title": "first"}},
		{MocKey: "K-2", Columns: models.ColumnMap{"MOC ID": "K-2", "Change Title": "other"}},
		{MocKey: "K-1", Columns: models.ColumnMap{"MOC ID": "K-1", "Change Title": "last"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	mocs, err := client.ListMocs(ctx)
	require.NoError(t, err)
	require.Len(t, mocs, 2)

	byKey := map[string]models.Moc{}
	for _, m := range mocs {
		byKey[m.MocKey] = m
	}
	assert.Equal(t, "last", byKey["K-1"].Columns["Change Title"])
}

func TestUpdateMocColumn(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.UpsertMocs(ctx, []models.Moc{
		{MocKey: "K-1", Columns: models.ColumnMap{"MOC ID": "K-1", "Change Description": "before"}},
	})
	require.NoError(t, err)
	mocs, err := client.ListMocs(ctx)
	require.NoError(t, err)

	updated, err := client.UpdateMocColumn(ctx, mocs[0].ID, "Change Description", "after")
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Columns["Change Description"])
	assert.Equal(t, "K-1", updated.Columns["MOC ID"], "other columns untouched")

	reloaded, err := client.GetMoc(ctx, mocs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "after", reloaded.Columns["Change Description"])
}
