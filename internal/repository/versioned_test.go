package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*VersionedStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewVersionedStore(db, "bands"), mock
}

func TestFindRowLive(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT version, deleted_at FROM bands WHERE id = ? AND deleted_at IS NULL LIMIT 1").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"version", "deleted_at"}).AddRow(3, nil))

	rv, err := store.FindRow(context.Background(), 42, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), rv.Version)
	assert.Nil(t, rv.DeletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindRowIncludeDeleted(t *testing.T) {
	store, mock := newMockStore(t)
	deleted := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT version, deleted_at FROM bands WHERE id = ? LIMIT 1").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"version", "deleted_at"}).AddRow(5, deleted))

	rv, err := store.FindRow(context.Background(), 42, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), rv.Version)
	require.NotNil(t, rv.DeletedAt)
	assert.Equal(t, deleted, *rv.DeletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindRowNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT version, deleted_at FROM bands WHERE id = ? AND deleted_at IS NULL LIMIT 1").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"version", "deleted_at"}))

	_, err := store.FindRow(context.Background(), 99, false)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConditionalUpdateGuardsVersionInOneStatement(t *testing.T) {
	store, mock := newMockStore(t)

	var p Patch
	p.Set("name", "Tool")
	p.Set("genre", "Progressive Metal")

	mock.ExpectExec("UPDATE bands SET name = ?, genre = ?, version = version + 1, updated_at = NOW() WHERE id = ? AND version = ? AND deleted_at IS NULL").
		WithArgs("Tool", "Progressive Metal", uint64(7), uint32(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := store.ConditionalUpdate(context.Background(), 7, 2, p)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConditionalUpdateStaleVersion(t *testing.T) {
	store, mock := newMockStore(t)

	var p Patch
	p.Set("name", "Tool")

	mock.ExpectExec("UPDATE bands SET name = ?, version = version + 1, updated_at = NOW() WHERE id = ? AND version = ? AND deleted_at IS NULL").
		WithArgs("Tool", uint64(7), uint32(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := store.ConditionalUpdate(context.Background(), 7, 1, p)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConditionalUpdateEmptyPatch(t *testing.T) {
	store, _ := newMockStore(t)

	_, err := store.ConditionalUpdate(context.Background(), 7, 1, Patch{})
	assert.ErrorIs(t, err, ErrEmptyPatch)
}

func TestConditionalUpdateDuplicateKey(t *testing.T) {
	store, mock := newMockStore(t)

	var p Patch
	p.Set("name", "Tool")

	mock.ExpectExec("UPDATE bands SET name = ?, version = version + 1, updated_at = NOW() WHERE id = ? AND version = ? AND deleted_at IS NULL").
		WithArgs("Tool", uint64(7), uint32(2)).
		WillReturnError(errors.New("Error 1062: Duplicate entry 'Tool' for key 'bands.name'"))

	_, err := store.ConditionalUpdate(context.Background(), 7, 2, p)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConditionalSoftDelete(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE bands SET deleted_at = NOW(), version = version + 1, updated_at = NOW() WHERE id = ? AND version = ? AND deleted_at IS NULL").
		WithArgs(uint64(7), uint32(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := store.ConditionalSoftDelete(context.Background(), 7, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConditionalSoftDeleteLostRace(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE bands SET deleted_at = NOW(), version = version + 1, updated_at = NOW() WHERE id = ? AND version = ? AND deleted_at IS NULL").
		WithArgs(uint64(7), uint32(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := store.ConditionalSoftDelete(context.Background(), 7, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
