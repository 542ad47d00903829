package model

import "time"

// Album represents a row in the `albums` table. Albums are versioned
// like bands and events; see Band for the optimistic locking contract.
type Album struct {
	ID          uint64     // albums.id
	Version     uint32     // albums.version
	BandID      uint64     // albums.band_id
	Name        string     // albums.name
	ReleaseDate *time.Time // albums.release_date
	Genre       *string    // albums.genre
	Label       *string    // albums.label
	Producer    *string    // albums.producer
	Description *string    // albums.description
	TotalTracks *int       // albums.total_tracks
	CreatedAt   time.Time  // albums.created_at
	UpdatedAt   time.Time  // albums.updated_at
	DeletedAt   *time.Time // albums.deleted_at
}
