package service

import (
	"context"
	"time"

	"github.com/iliyamo/band-catalog/internal/model"
	"github.com/iliyamo/band-catalog/internal/repository"
)

// MemberStore is everything MemberService needs from the persistence
// layer. *repository.MemberRepo satisfies it.
type MemberStore interface {
	softDeleteStore
	Create(ctx context.Context, m *model.Member) error
	GetByID(ctx context.Context, id uint64) (model.Member, error)
	List(ctx context.Context, limit, offset int) ([]model.Member, error)
	ListByBand(ctx context.Context, bandID uint64) ([]model.Member, error)
}

// MemberService implements catalog operations for band members.
type MemberService struct {
	members MemberStore
}

// NewMemberService constructs a MemberService over the given store.
func NewMemberService(members MemberStore) *MemberService {
	return &MemberService{members: members}
}

// MemberCreate carries the fields accepted when creating a member.
type MemberCreate struct {
	BandID     uint64
	Name       string
	Instrument string
	JoinDate   *time.Time
	LeaveDate  *time.Time
	IsActive   bool
	Biography  *string
}

// MemberUpdate carries the optional fields of a member update.
type MemberUpdate struct {
	Name       *string
	Instrument *string
	JoinDate   *time.Time
	LeaveDate  *time.Time
	IsActive   *bool
	Biography  *string
}

func (u MemberUpdate) patch() repository.Patch {
	var p repository.Patch
	if u.Name != nil {
		p.Set("name", *u.Name)
	}
	if u.Instrument != nil {
		p.Set("instrument", *u.Instrument)
	}
	if u.JoinDate != nil {
		p.Set("join_date", *u.JoinDate)
	}
	if u.LeaveDate != nil {
		p.Set("leave_date", *u.LeaveDate)
	}
	if u.IsActive != nil {
		p.Set("is_active", *u.IsActive)
	}
	if u.Biography != nil {
		p.Set("biography", *u.Biography)
	}
	return p
}

// Create stores a new member.
func (s *MemberService) Create(ctx context.Context, in MemberCreate) (model.Member, error) {
	m := model.Member{
		BandID:     in.BandID,
		Name:       in.Name,
		Instrument: in.Instrument,
		JoinDate:   in.JoinDate,
		LeaveDate:  in.LeaveDate,
		IsActive:   in.IsActive,
		Biography:  in.Biography,
	}
	if err := s.members.Create(ctx, &m); err != nil {
		return model.Member{}, err
	}
	return m, nil
}

// Get returns a live member or repository.ErrNotFound.
func (s *MemberService) Get(ctx context.Context, id uint64) (model.Member, error) {
	return s.members.GetByID(ctx, id)
}

// List returns one page of live members.
func (s *MemberService) List(ctx context.Context, page, limit int) ([]model.Member, error) {
	limit, offset := pageParams(page, limit)
	return s.members.List(ctx, limit, offset)
}

// ListByBand returns the live members of one band.
func (s *MemberService) ListByBand(ctx context.Context, bandID uint64) ([]model.Member, error) {
	return s.members.ListByBand(ctx, bandID)
}

// Update applies a guarded plain update and returns the fresh record.
func (s *MemberService) Update(ctx context.Context, id uint64, upd MemberUpdate) (model.Member, error) {
	if err := applyPlainPatch(ctx, s.members, id, upd.patch()); err != nil {
		return model.Member{}, err
	}
	return s.members.GetByID(ctx, id)
}

// Remove soft-deletes a member, idempotently.
func (s *MemberService) Remove(ctx context.Context, id uint64) error {
	return plainSoftDelete(ctx, s.members, id)
}
