package service

import (
	"context"

	"github.com/iliyamo/band-catalog/internal/repository"
)

// versionedStore is the slice of a repository the conditional write
// protocol needs. Band, album and event repositories satisfy it via
// their embedded repository.VersionedStore.
type versionedStore interface {
	FindRow(ctx context.Context, id uint64, includeDeleted bool) (repository.RowVersion, error)
	ConditionalUpdate(ctx context.Context, id uint64, expectedVersion uint32, patch repository.Patch) (int64, error)
	ConditionalSoftDelete(ctx context.Context, id uint64, expectedVersion uint32) (int64, error)
}

// applyPatch runs the optimistic update protocol against a versioned
// row:
//
//  1. discover the current version; an absent or deleted row is NotFound
//  2. issue the conditional update guarded by that version
//  3. zero affected rows means Conflict: another writer landed between
//     steps 1 and 2 and the database rejected the stale guard
//
// The read-then-write pair is not atomic and does not need to be; the
// store re-validates the version inside the final UPDATE, which is the
// only place correctness is decided. Conflicts are surfaced, never
// retried here; retry policy belongs to the caller.
func applyPatch(ctx context.Context, store versionedStore, id uint64, patch repository.Patch) error {
	if patch.Empty() {
		return ErrNoFields
	}
	row, err := store.FindRow(ctx, id, false)
	if err != nil {
		return err
	}
	affected, err := store.ConditionalUpdate(ctx, id, row.Version, patch)
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrConflict
	}
	return nil
}

// softDelete runs the idempotent delete protocol against a versioned
// row. It differs from applyPatch in exactly one step: a row that is
// already in the target state short-circuits to success instead of
// Conflict. Deleting twice is a no-op by design; repeating a plain
// update is still a version race.
func softDelete(ctx context.Context, store versionedStore, id uint64) error {
	row, err := store.FindRow(ctx, id, true)
	if err != nil {
		return err
	}
	if row.DeletedAt != nil {
		return nil
	}
	affected, err := store.ConditionalSoftDelete(ctx, id, row.Version)
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrConflict
	}
	return nil
}
