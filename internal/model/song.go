package model

import "time"

// Song represents a row in the `songs` table. Like members, songs are
// soft deletable but unversioned.
type Song struct {
	ID           uint64     // songs.id
	BandID       uint64     // songs.band_id
	Title        string     // songs.title
	DurationSecs *int       // songs.duration_secs
	TrackNumber  *int       // songs.track_number
	Lyrics       *string    // songs.lyrics
	VideoURL     *string    // songs.video_url
	CreatedAt    time.Time  // songs.created_at
	UpdatedAt    time.Time  // songs.updated_at
	DeletedAt    *time.Time // songs.deleted_at
}
