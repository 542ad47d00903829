package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/band-catalog/internal/model"
	"github.com/iliyamo/band-catalog/internal/repository"
)

// fakeBandStore layers band records on top of fakeVersionedStore so
// BandService can be exercised end to end in memory.
type fakeBandStore struct {
	*fakeVersionedStore
	band model.Band
}

func newFakeBandStore(b model.Band) *fakeBandStore {
	return &fakeBandStore{
		fakeVersionedStore: &fakeVersionedStore{exists: true, version: b.Version},
		band:               b,
	}
}

func (f *fakeBandStore) Create(ctx context.Context, b *model.Band) error {
	b.ID = 1
	b.Version = 1
	f.band = *b
	f.exists = true
	f.version = 1
	return nil
}

func (f *fakeBandStore) GetByID(ctx context.Context, id uint64) (model.Band, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.exists || f.deletedAt != nil {
		return model.Band{}, repository.ErrNotFound
	}
	b := f.band
	b.Version = f.version
	return b, nil
}

func (f *fakeBandStore) List(ctx context.Context, limit, offset int) ([]model.Band, error) {
	return []model.Band{f.band}, nil
}

func (f *fakeBandStore) SearchByNamePattern(ctx context.Context, pattern string) ([]model.Band, error) {
	return []model.Band{f.band}, nil
}

func (f *fakeBandStore) SearchByFirstLetter(ctx context.Context, letter string) ([]model.Band, error) {
	return []model.Band{f.band}, nil
}

func (f *fakeBandStore) FindByGenre(ctx context.Context, genre string) ([]model.Band, error) {
	return []model.Band{f.band}, nil
}

func (f *fakeBandStore) FindByYear(ctx context.Context, year int) ([]model.Band, error) {
	return []model.Band{f.band}, nil
}

func (f *fakeBandStore) FindByCountry(ctx context.Context, countryName string) ([]model.Band, error) {
	return []model.Band{f.band}, nil
}

func TestBandServiceUpdateReturnsFreshVersion(t *testing.T) {
	store := newFakeBandStore(model.Band{ID: 1, Version: 2, Name: "Rush", Genre: "Progressive Rock"})
	svc := NewBandService(store)

	name := "Rush (remastered)"
	b, err := svc.Update(context.Background(), 1, BandUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, uint32(3), b.Version)
}

func TestBandServiceUpdateNoFields(t *testing.T) {
	store := newFakeBandStore(model.Band{ID: 1, Version: 1})
	svc := NewBandService(store)

	_, err := svc.Update(context.Background(), 1, BandUpdate{})
	assert.ErrorIs(t, err, ErrNoFields)
}

func TestBandServiceRemoveIdempotent(t *testing.T) {
	store := newFakeBandStore(model.Band{ID: 1, Version: 1})
	svc := NewBandService(store)

	require.NoError(t, svc.Remove(context.Background(), 1))
	require.NoError(t, svc.Remove(context.Background(), 1))
	assert.Equal(t, 1, store.deleteCalls)

	_, err := svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPageParams(t *testing.T) {
	cases := []struct {
		page, limit      int
		wantLim, wantOff int
	}{
		{0, 0, 10, 0},
		{1, 10, 10, 0},
		{3, 20, 20, 40},
		{2, 1000, 100, 100},
		{-5, -5, 10, 0},
	}
	for _, tc := range cases {
		lim, off := pageParams(tc.page, tc.limit)
		assert.Equal(t, tc.wantLim, lim)
		assert.Equal(t, tc.wantOff, off)
	}
}
