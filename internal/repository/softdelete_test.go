package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSoftDeleteStore(t *testing.T) (*SoftDeleteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSoftDeleteStore(db, "songs"), mock
}

func TestProbe(t *testing.T) {
	store, mock := newMockSoftDeleteStore(t)

	mock.ExpectQuery("SELECT deleted_at FROM songs WHERE id = ? LIMIT 1").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"deleted_at"}).AddRow(nil))

	deletedAt, err := store.Probe(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, deletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProbeDeletedRow(t *testing.T) {
	store, mock := newMockSoftDeleteStore(t)
	deleted := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT deleted_at FROM songs WHERE id = ? LIMIT 1").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"deleted_at"}).AddRow(deleted))

	deletedAt, err := store.Probe(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, deletedAt)
	assert.Equal(t, deleted, *deletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProbeMissingRow(t *testing.T) {
	store, mock := newMockSoftDeleteStore(t)

	mock.ExpectQuery("SELECT deleted_at FROM songs WHERE id = ? LIMIT 1").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"deleted_at"}))

	_, err := store.Probe(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteStoreUpdateGuardsLiveRows(t *testing.T) {
	store, mock := newMockSoftDeleteStore(t)

	var p Patch
	p.Set("title", "2112")

	mock.ExpectExec("UPDATE songs SET title = ?, updated_at = NOW() WHERE id = ? AND deleted_at IS NULL").
		WithArgs("2112", uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := store.Update(context.Background(), 3, p)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteStoreDeleteAtMostOnce(t *testing.T) {
	store, mock := newMockSoftDeleteStore(t)

	mock.ExpectExec("UPDATE songs SET deleted_at = NOW(), updated_at = NOW() WHERE id = ? AND deleted_at IS NULL").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := store.SoftDelete(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
