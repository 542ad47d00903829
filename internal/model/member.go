package model

import "time"

// Member represents a row in the `members` table. Members are soft
// deletable but carry no version column; they never take part in the
// conditional update protocol.
//
// Instrument is one of: Guitar, Bass, Drums, Keyboard, Vocals, Other.
type Member struct {
	ID         uint64     // members.id
	BandID     uint64     // members.band_id
	Name       string     // members.name
	Instrument string     // members.instrument
	JoinDate   *time.Time // members.join_date
	LeaveDate  *time.Time // members.leave_date
	IsActive   bool       // members.is_active
	Biography  *string    // members.biography
	CreatedAt  time.Time  // members.created_at
	UpdatedAt  time.Time  // members.updated_at
	DeletedAt  *time.Time // members.deleted_at
}
