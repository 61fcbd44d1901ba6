package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/SensibleN00B/theatre-api/internal/model"
)

// PerformanceRepo provides scheduling operations: performance CRUD,
// filtered listings with live availability, and the booking-target lookup
// used by the reservation engine.  The (hall, show_time) uniqueness is
// enforced by the database key and surfaced as ErrShowTimeTaken.
type PerformanceRepo struct {
	db *sql.DB
}

// NewPerformanceRepo returns a PerformanceRepo bound to the given database.
func NewPerformanceRepo(db *sql.DB) *PerformanceRepo { return &PerformanceRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span repositories.
func (r *PerformanceRepo) DB() *sql.DB { return r.db }

// PerformanceFilter narrows List results.  DateFrom/DateTo compare
// against the calendar date of show_time; nil or zero values disable the
// corresponding predicate.
type PerformanceFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	PlayID   uint64
	HallID   uint64
}

// PerformanceListRow is the denormalized shape used by performance
// listings.  TicketsAvailable is computed from live ticket counts in the
// query itself, never from a stored counter, so it reflects concurrent
// bookings at read time.
type PerformanceListRow struct {
	ID               uint64    `json:"id"`
	ShowTime         time.Time `json:"show_time"`
	PlayTitle        string    `json:"play_title"`
	PlayImage        *string   `json:"play_image"`
	HallName         string    `json:"hall_name"`
	HallCapacity     uint32    `json:"hall_capacity"`
	TicketsAvailable int64     `json:"tickets_available"`
}

// SeatRef identifies one taken seat in a performance detail view.
type SeatRef struct {
	Row  uint32 `json:"row"`
	Seat uint32 `json:"seat"`
}

// PerformanceDetail nests the play listing row, the hall and the list of
// already-taken seats so clients can render a seat map without follow-up
// lookups.
type PerformanceDetail struct {
	ID          uint64            `json:"id"`
	ShowTime    time.Time         `json:"show_time"`
	Play        PlayListRow       `json:"play"`
	Hall        model.TheatreHall `json:"theatre_hall"`
	TakenPlaces []SeatRef         `json:"taken_places"`
}

// BookingTarget carries what the reservation engine needs to validate one
// ticket request and describe it in the confirmation event: the
// performance's show time, its play title and the geometry of its hall.
type BookingTarget struct {
	PerformanceID uint64
	ShowTime      time.Time
	PlayTitle     string
	Hall          model.TheatreHall
}

// Create inserts a performance.  Double-booking a hall at the same
// timestamp maps to ErrShowTimeTaken; an unknown play or hall id maps to
// ErrBadReference.
func (r *PerformanceRepo) Create(ctx context.Context, p *model.Performance) error {
	const q = `INSERT INTO performances (play_id, hall_id, show_time) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.PlayID, p.HallID, p.ShowTime.UTC())
	if err != nil {
		if isDuplicateKey(err) {
			return ErrShowTimeTaken
		}
		if isFKViolation(err) {
			return ErrBadReference
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID returns the raw performance row or ErrNotFound.
func (r *PerformanceRepo) GetByID(ctx context.Context, id uint64) (*model.Performance, error) {
	const q = `SELECT id, play_id, hall_id, show_time FROM performances WHERE id = ?`
	var p model.Performance
	err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.PlayID, &p.HallID, &p.ShowTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns performances matching the filter ordered by show time,
// each with denormalized play/hall fields and live availability:
// seat_rows * seats_in_row minus the current ticket count.
func (r *PerformanceRepo) List(ctx context.Context, f PerformanceFilter) ([]PerformanceListRow, error) {
	where := []string{}
	args := []interface{}{}
	if f.DateFrom != nil {
		where = append(where, "DATE(p.show_time) >= ?")
		args = append(args, f.DateFrom.Format("2006-01-02"))
	}
	if f.DateTo != nil {
		where = append(where, "DATE(p.show_time) <= ?")
		args = append(args, f.DateTo.Format("2006-01-02"))
	}
	if f.PlayID != 0 {
		where = append(where, "p.play_id = ?")
		args = append(args, f.PlayID)
	}
	if f.HallID != 0 {
		where = append(where, "p.hall_id = ?")
		args = append(args, f.HallID)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	query := `SELECT p.id, p.show_time, pl.title, pl.image, h.name,
	                 h.seat_rows * h.seats_in_row,
	                 h.seat_rows * h.seats_in_row - COUNT(t.id)
	          FROM performances p
	          JOIN plays pl ON pl.id = p.play_id
	          JOIN theatre_halls h ON h.id = p.hall_id
	          LEFT JOIN tickets t ON t.performance_id = p.id
	          WHERE ` + cond + `
	          GROUP BY p.id, p.show_time, pl.title, pl.image, h.name, h.seat_rows, h.seats_in_row
	          ORDER BY p.show_time`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PerformanceListRow, 0)
	for rows.Next() {
		var row PerformanceListRow
		var image sql.NullString
		if err := rows.Scan(&row.ID, &row.ShowTime, &row.PlayTitle, &image,
			&row.HallName, &row.HallCapacity, &row.TicketsAvailable); err != nil {
			return nil, err
		}
		if image.Valid {
			img := image.String
			row.PlayImage = &img
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetDetail returns one performance with its nested play, hall and the
// seats already taken (ordered by row then seat), or ErrNotFound.
func (r *PerformanceRepo) GetDetail(ctx context.Context, id uint64) (*PerformanceDetail, error) {
	const q = `SELECT p.id, p.show_time,
	                  pl.id, pl.title, pl.duration_min,
	                  h.id, h.name, h.seat_rows, h.seats_in_row
	           FROM performances p
	           JOIN plays pl ON pl.id = p.play_id
	           JOIN theatre_halls h ON h.id = p.hall_id
	           WHERE p.id = ?`
	var det PerformanceDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&det.ID, &det.ShowTime,
		&det.Play.ID, &det.Play.Title, &det.Play.DurationMin,
		&det.Hall.ID, &det.Hall.Name, &det.Hall.Rows, &det.Hall.SeatsInRow,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	det.Play.Actors = []string{}
	det.Play.Genres = []string{}
	const actorQ = `SELECT a.first_name, a.last_name
	                FROM play_actors pa
	                JOIN actors a ON a.id = pa.actor_id
	                WHERE pa.play_id = ?
	                ORDER BY a.last_name, a.first_name`
	arows, err := r.db.QueryContext(ctx, actorQ, det.Play.ID)
	if err != nil {
		return nil, err
	}
	defer arows.Close()
	for arows.Next() {
		var a model.Actor
		if err := arows.Scan(&a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		det.Play.Actors = append(det.Play.Actors, a.FullName())
	}
	if err := arows.Err(); err != nil {
		return nil, err
	}

	const genreQ = `SELECT g.name
	                FROM play_genres pg
	                JOIN genres g ON g.id = pg.genre_id
	                WHERE pg.play_id = ?
	                ORDER BY g.name`
	grows, err := r.db.QueryContext(ctx, genreQ, det.Play.ID)
	if err != nil {
		return nil, err
	}
	defer grows.Close()
	for grows.Next() {
		var name string
		if err := grows.Scan(&name); err != nil {
			return nil, err
		}
		det.Play.Genres = append(det.Play.Genres, name)
	}
	if err := grows.Err(); err != nil {
		return nil, err
	}

	det.TakenPlaces = []SeatRef{}
	const seatQ = `SELECT row_num, seat_num FROM tickets
	               WHERE performance_id = ?
	               ORDER BY row_num, seat_num`
	srows, err := r.db.QueryContext(ctx, seatQ, id)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var s SeatRef
		if err := srows.Scan(&s.Row, &s.Seat); err != nil {
			return nil, err
		}
		det.TakenPlaces = append(det.TakenPlaces, s)
	}
	return &det, srows.Err()
}

// GetForBooking resolves a performance to its show time and hall geometry
// for ticket validation.  Returns ErrNotFound when the id does not exist.
func (r *PerformanceRepo) GetForBooking(ctx context.Context, id uint64) (*BookingTarget, error) {
	const q = `SELECT p.id, p.show_time, pl.title, h.id, h.name, h.seat_rows, h.seats_in_row
	           FROM performances p
	           JOIN plays pl ON pl.id = p.play_id
	           JOIN theatre_halls h ON h.id = p.hall_id
	           WHERE p.id = ?`
	var t BookingTarget
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.PerformanceID, &t.ShowTime, &t.PlayTitle,
		&t.Hall.ID, &t.Hall.Name, &t.Hall.Rows, &t.Hall.SeatsInRow,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Update overwrites a performance's play, hall and show time with the
// same constraint translation as Create.
func (r *PerformanceRepo) Update(ctx context.Context, p *model.Performance) error {
	const q = `UPDATE performances SET play_id = ?, hall_id = ?, show_time = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, p.PlayID, p.HallID, p.ShowTime.UTC(), p.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrShowTimeTaken
		}
		if isFKViolation(err) {
			return ErrBadReference
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a performance; its tickets cascade away.
func (r *PerformanceRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM performances WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountUpcomingByHall reports how many future performances a hall still
// has.  Hall deletion is refused while this is non-zero.
func (r *PerformanceRepo) CountUpcomingByHall(ctx context.Context, hallID uint64) (int64, error) {
	const q = `SELECT COUNT(*) FROM performances WHERE hall_id = ? AND show_time > UTC_TIMESTAMP()`
	var n int64
	err := r.db.QueryRowContext(ctx, q, hallID).Scan(&n)
	return n, err
}
