package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/SensibleN00B/theatre-api/internal/model"
)

// ReservationRepo persists reservations and their tickets.  The write
// path is a single transaction around the reservation insert and the
// multi-row ticket insert: the uniq_seat_per_performance key decides seat
// contention at commit time, and a violation rolls the whole batch back.
// There is deliberately no check-then-insert of seat occupancy here; a
// pre-check would race against concurrent requests for the same seat.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// CreateWithTickets atomically persists one reservation owning all given
// tickets for the user.  Either every ticket exists under the new
// reservation afterwards, or nothing was written.  A duplicate-seat
// violation maps to ErrSeatTaken; the reservation insert is rolled back
// with it so no empty reservation survives.
func (r *ReservationRepo) CreateWithTickets(ctx context.Context, userID uint64, tickets []model.Ticket) (*model.Reservation, []model.Ticket, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res := &model.Reservation{UserID: userID}
	ins, err := tx.ExecContext(ctx, `INSERT INTO reservations (user_id) VALUES (?)`, userID)
	if err != nil {
		return nil, nil, err
	}
	id, err := ins.LastInsertId()
	if err != nil {
		return nil, nil, err
	}
	res.ID = uint64(id)
	if err := tx.QueryRowContext(ctx,
		`SELECT created_at FROM reservations WHERE id = ?`, res.ID).
		Scan(&res.CreatedAt); err != nil {
		return nil, nil, err
	}

	query := `INSERT INTO tickets (reservation_id, performance_id, row_num, seat_num) VALUES `
	args := make([]interface{}, 0, len(tickets)*4)
	for i, t := range tickets {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, res.ID, t.PerformanceID, t.Row, t.Seat)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateKey(err) {
			return nil, nil, ErrSeatTaken
		}
		return nil, nil, err
	}

	// Read the tickets back so the response carries generated ids.
	const sel = `SELECT id, performance_id, row_num, seat_num FROM tickets
	             WHERE reservation_id = ? ORDER BY id`
	rows, err := tx.QueryContext(ctx, sel, res.ID)
	if err != nil {
		return nil, nil, err
	}
	created := make([]model.Ticket, 0, len(tickets))
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.PerformanceID, &t.Row, &t.Seat); err != nil {
			rows.Close()
			return nil, nil, err
		}
		t.ReservationID = res.ID
		created = append(created, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, nil, err
	}
	rows.Close()

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	committed = true
	return res, created, nil
}

// ReservationTicket is one booked seat in a reservation listing, with the
// performance rendered in its denormalized list shape.
type ReservationTicket struct {
	ID          uint64             `json:"id"`
	Row         uint32             `json:"row"`
	Seat        uint32             `json:"seat"`
	Performance PerformanceListRow `json:"performance"`
}

// ReservationDetail is one reservation with its tickets, as returned by
// ListByUser.
type ReservationDetail struct {
	ID        uint64              `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	Tickets   []ReservationTicket `json:"tickets"`
}

// ListByUser returns the user's reservations, newest first.  The scoping
// by user id is unconditional; there is no variant that lists across
// users.  Availability on the nested performance rows is computed live,
// same as the performance listing.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT id, created_at FROM reservations
	           WHERE user_id = ?
	           ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]ReservationDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d ReservationDetail
		if err := rows.Scan(&d.ID, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Tickets = []ReservationTicket{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}

	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	ticketQ := `SELECT t.reservation_id, t.id, t.row_num, t.seat_num,
	                   p.id, p.show_time, pl.title, pl.image, h.name,
	                   h.seat_rows * h.seats_in_row,
	                   h.seat_rows * h.seats_in_row -
	                       (SELECT COUNT(*) FROM tickets t2 WHERE t2.performance_id = p.id)
	            FROM tickets t
	            JOIN performances p ON p.id = t.performance_id
	            JOIN plays pl ON pl.id = p.play_id
	            JOIN theatre_halls h ON h.id = p.hall_id
	            WHERE t.reservation_id IN (` + strings.Join(placeholders, ",") + `)
	            ORDER BY t.reservation_id, t.row_num, t.seat_num`
	trows, err := r.db.QueryContext(ctx, ticketQ, ids...)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var resID uint64
		var tk ReservationTicket
		var image sql.NullString
		if err := trows.Scan(
			&resID, &tk.ID, &tk.Row, &tk.Seat,
			&tk.Performance.ID, &tk.Performance.ShowTime,
			&tk.Performance.PlayTitle, &image, &tk.Performance.HallName,
			&tk.Performance.HallCapacity, &tk.Performance.TicketsAvailable,
		); err != nil {
			return nil, err
		}
		if image.Valid {
			img := image.String
			tk.Performance.PlayImage = &img
		}
		if i, ok := index[resID]; ok {
			details[i].Tickets = append(details[i].Tickets, tk)
		}
	}
	return details, trows.Err()
}
