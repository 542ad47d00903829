package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/band-catalog/internal/repository"
)

// fakeSoftDeleteStore mirrors the unversioned tables: the only guard
// is the delete marker, checked atomically inside Update/SoftDelete.
type fakeSoftDeleteStore struct {
	mu        sync.Mutex
	exists    bool
	deletedAt *time.Time

	// raceDelete, when set, marks the row deleted between Probe and
	// the guarded write, simulating a concurrent deleter.
	raceDelete bool

	updateCalls int
	deleteCalls int
}

func (f *fakeSoftDeleteStore) Probe(ctx context.Context, id uint64) (*time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.exists {
		return nil, repository.ErrNotFound
	}
	deletedAt := f.deletedAt
	if f.raceDelete && deletedAt == nil {
		now := time.Now().UTC()
		f.deletedAt = &now
	}
	return deletedAt, nil
}

func (f *fakeSoftDeleteStore) Update(ctx context.Context, id uint64, patch repository.Patch) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if !f.exists || f.deletedAt != nil {
		return 0, nil
	}
	return 1, nil
}

func (f *fakeSoftDeleteStore) SoftDelete(ctx context.Context, id uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if !f.exists || f.deletedAt != nil {
		return 0, nil
	}
	now := time.Now().UTC()
	f.deletedAt = &now
	return 1, nil
}

func TestApplyPlainPatch(t *testing.T) {
	store := &fakeSoftDeleteStore{exists: true}

	err := applyPlainPatch(context.Background(), store, 1, namePatch("Geddy Lee"))
	require.NoError(t, err)
	assert.Equal(t, 1, store.updateCalls)
}

func TestApplyPlainPatchEmpty(t *testing.T) {
	store := &fakeSoftDeleteStore{exists: true}

	err := applyPlainPatch(context.Background(), store, 1, repository.Patch{})
	assert.ErrorIs(t, err, ErrNoFields)
	assert.Zero(t, store.updateCalls)
}

func TestApplyPlainPatchDeleted(t *testing.T) {
	now := time.Now().UTC()
	store := &fakeSoftDeleteStore{exists: true, deletedAt: &now}

	err := applyPlainPatch(context.Background(), store, 1, namePatch("Geddy Lee"))
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Zero(t, store.updateCalls)
}

// A delete that lands between the probe and the guarded update
// surfaces as a conflict, not as silent success.
func TestApplyPlainPatchLostRace(t *testing.T) {
	store := &fakeSoftDeleteStore{exists: true, raceDelete: true}

	err := applyPlainPatch(context.Background(), store, 1, namePatch("Geddy Lee"))
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestPlainSoftDeleteIdempotent(t *testing.T) {
	store := &fakeSoftDeleteStore{exists: true}

	require.NoError(t, plainSoftDelete(context.Background(), store, 1))
	require.NoError(t, plainSoftDelete(context.Background(), store, 1))
	assert.Equal(t, 1, store.deleteCalls)
	assert.NotNil(t, store.deletedAt)
}

// Losing the delete race still reports success: the row ended up in
// the requested state either way.
func TestPlainSoftDeleteLostRace(t *testing.T) {
	store := &fakeSoftDeleteStore{exists: true, raceDelete: true}

	err := plainSoftDelete(context.Background(), store, 1)
	assert.NoError(t, err)
}

func TestPlainSoftDeleteMissing(t *testing.T) {
	store := &fakeSoftDeleteStore{}

	err := plainSoftDelete(context.Background(), store, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
