package service

import (
	"context"
	"time"

	"github.com/iliyamo/band-catalog/internal/repository"
)

// softDeleteStore is the slice of a repository the unversioned
// mutation protocol needs. Country, member and song repositories
// satisfy it via their embedded repository.SoftDeleteStore.
type softDeleteStore interface {
	Probe(ctx context.Context, id uint64) (*time.Time, error)
	Update(ctx context.Context, id uint64, patch repository.Patch) (int64, error)
	SoftDelete(ctx context.Context, id uint64) (int64, error)
}

// applyPlainPatch mirrors applyPatch for tables without a version
// column. The only guard available is `deleted_at IS NULL`, evaluated
// atomically inside the UPDATE; zero affected rows means a concurrent
// delete won the race.
func applyPlainPatch(ctx context.Context, store softDeleteStore, id uint64, patch repository.Patch) error {
	if patch.Empty() {
		return ErrNoFields
	}
	deletedAt, err := store.Probe(ctx, id)
	if err != nil {
		return err
	}
	if deletedAt != nil {
		return repository.ErrNotFound
	}
	affected, err := store.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrConflict
	}
	return nil
}

// plainSoftDelete mirrors softDelete for unversioned tables: already
// deleted short-circuits to success, a lost race to another deleter
// also counts as success (the row is in the target state either way).
func plainSoftDelete(ctx context.Context, store softDeleteStore, id uint64) error {
	deletedAt, err := store.Probe(ctx, id)
	if err != nil {
		return err
	}
	if deletedAt != nil {
		return nil
	}
	if _, err := store.SoftDelete(ctx, id); err != nil {
		return err
	}
	// Zero affected rows here means another deleter landed first,
	// which is the outcome the caller asked for.
	return nil
}
