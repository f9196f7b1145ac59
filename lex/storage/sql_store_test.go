package storage

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/corpus/errors"
	corpustesting "github.com/teranos/corpus/internal/testing"
	"github.com/teranos/corpus/lex/analysis"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	return NewSQLStore(corpustesting.CreateMigratedTestDB(t), nil)
}

func TestCreateAndGetByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := analysis.NewRecord("Hello World", time.Now())
	require.NoError(t, store.Create(ctx, rec))

	got, err := store.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "Hello World", got.Value)

	// Properties survive the JSON column round trip exactly
	assert.Equal(t, rec.Properties, got.Properties)
	assert.Equal(t, 11, got.Properties.Length)
	assert.Equal(t, 1, got.Properties.CharFrequency["W"])
	assert.Equal(t, 3, got.Properties.CharFrequency["l"])
}

func TestCreateDuplicateReturnsConflict(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := analysis.NewRecord("abc", time.Now())
	require.NoError(t, store.Create(ctx, rec))

	err := store.Create(ctx, rec)
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))

	// The store still holds exactly one record
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetByValue(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := analysis.NewRecord("racecar", time.Now())
	require.NoError(t, store.Create(ctx, rec))

	got, err := store.GetByValue(ctx, "racecar")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	_, err = store.GetByValue(ctx, "never stored")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestListPreservesCreationOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	values := []string{"zebra", "apple", "mango"}
	for _, v := range values {
		require.NoError(t, store.Create(ctx, analysis.NewRecord(v, time.Now())))
	}

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, v := range values {
		assert.Equal(t, v, records[i].Value)
	}
}

func TestListEmptyStore(t *testing.T) {
	store := newTestStore(t)

	records, err := store.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := analysis.NewRecord("abc", time.Now())
	require.NoError(t, store.Create(ctx, rec))
	require.NoError(t, store.Delete(ctx, rec.ID))

	_, err := store.GetByID(ctx, rec.ID)
	assert.True(t, errors.IsNotFoundError(err))

	// Deleting again reports not found, not success
	err = store.Delete(ctx, rec.ID)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestExists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := analysis.NewRecord("abc", time.Now())

	exists, err := store.Exists(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Create(ctx, rec))

	exists, err = store.Exists(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGetByIDScanFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	// Corrupt properties column: JSON decode must fail with a wrapped error
	rows := sqlmock.NewRows([]string{"id", "value", "properties", "created_at"}).
		AddRow("someid", "value", "{not json", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, value, properties, created_at FROM strings WHERE id = ?")).
		WillReturnRows(rows)

	store := NewSQLStore(mockDB, nil)
	_, err = store.GetByID(context.Background(), "someid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal properties")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListQueryFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectQuery("SELECT id, value, properties, created_at FROM strings ORDER BY rowid ASC").
		WillReturnError(errors.New("sql: database is closed"))

	store := NewSQLStore(mockDB, nil)
	_, err = store.List(context.Background())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM strings")).
		WillReturnError(errors.New("disk I/O error"))

	store := NewSQLStore(mockDB, nil)
	_, err = store.Count(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to count strings")
}
