package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/band-catalog/internal/model"
)

const eventColumns = "id, version, band_id, country_id, title, description, date, event_type, venue, city, ticket_price_cents, ticket_url, is_active, created_at, updated_at, deleted_at"

// EventRepo provides persistence for the `events` table. Events share
// the conditional write protocol with bands via VersionedStore.
type EventRepo struct {
	*VersionedStore
	db *sql.DB
}

// NewEventRepo constructs an EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{VersionedStore: NewVersionedStore(db, "events"), db: db}
}

// Create inserts an event and reloads the stored row.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO events (band_id, country_id, title, description, date, event_type, venue, city, ticket_price_cents, ticket_url, is_active) VALUES (?,?,?,?,?,?,?,?,?,?,?)",
		e.BandID, e.CountryID, e.Title, e.Description, e.Date, e.EventType,
		e.Venue, e.City, e.TicketPriceCents, e.TicketURL, e.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*e = stored
	return nil
}

// GetByID fetches a live event by id.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = ? AND deleted_at IS NULL LIMIT 1", id)
	return scanEvent(row)
}

// List returns live events in insertion order with LIMIT/OFFSET paging.
func (r *EventRepo) List(ctx context.Context, limit, offset int) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE deleted_at IS NULL ORDER BY created_at, id LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListByBand returns the live events of one band ordered by date.
func (r *EventRepo) ListByBand(ctx context.Context, bandID uint64) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE deleted_at IS NULL AND band_id = ? ORDER BY date, id",
		bandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func scanEvent(row rowScanner) (model.Event, error) {
	var e model.Event
	var countryID sql.NullInt64
	var venue, city, ticketURL sql.NullString
	var ticketPrice sql.NullInt64
	var deletedAt sql.NullTime
	err := row.Scan(&e.ID, &e.Version, &e.BandID, &countryID, &e.Title,
		&e.Description, &e.Date, &e.EventType, &venue, &city,
		&ticketPrice, &ticketURL, &e.IsActive,
		&e.CreatedAt, &e.UpdatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Event{}, ErrNotFound
		}
		return model.Event{}, err
	}
	if countryID.Valid {
		id := uint64(countryID.Int64)
		e.CountryID = &id
	}
	if venue.Valid {
		v := venue.String
		e.Venue = &v
	}
	if city.Valid {
		v := city.String
		e.City = &v
	}
	if ticketPrice.Valid {
		p := uint32(ticketPrice.Int64)
		e.TicketPriceCents = &p
	}
	if ticketURL.Valid {
		v := ticketURL.String
		e.TicketURL = &v
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		e.DeletedAt = &t
	}
	return e, nil
}

func collectEvents(rows *sql.Rows) ([]model.Event, error) {
	var out []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
