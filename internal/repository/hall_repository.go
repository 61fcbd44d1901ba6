package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SensibleN00B/theatre-api/internal/model"
)

// HallRepo provides CRUD operations for theatre halls.  Hall geometry
// (rows, seats per row) is what ticket requests are validated against, so
// downstream code assumes it is stable while performances are bookable.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo returns a HallRepo bound to the given database.
func NewHallRepo(db *sql.DB) *HallRepo { return &HallRepo{db: db} }

// Create inserts a hall and populates its generated ID.  Duplicate names
// map to ErrDuplicateName.
func (r *HallRepo) Create(ctx context.Context, h *model.TheatreHall) error {
	const q = `INSERT INTO theatre_halls (name, seat_rows, seats_in_row) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, h.Name, h.Rows, h.SeatsInRow)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateName
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// GetByID returns one hall or ErrNotFound.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.TheatreHall, error) {
	const q = `SELECT id, name, seat_rows, seats_in_row FROM theatre_halls WHERE id = ?`
	var h model.TheatreHall
	err := r.db.QueryRowContext(ctx, q, id).Scan(&h.ID, &h.Name, &h.Rows, &h.SeatsInRow)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

// List returns all halls ordered by name.
func (r *HallRepo) List(ctx context.Context) ([]model.TheatreHall, error) {
	const q = `SELECT id, name, seat_rows, seats_in_row FROM theatre_halls ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.TheatreHall, 0)
	for rows.Next() {
		var h model.TheatreHall
		if err := rows.Scan(&h.ID, &h.Name, &h.Rows, &h.SeatsInRow); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Update overwrites hall fields.  Duplicate names map to ErrDuplicateName.
func (r *HallRepo) Update(ctx context.Context, h *model.TheatreHall) error {
	const q = `UPDATE theatre_halls SET name = ?, seat_rows = ?, seats_in_row = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, h.Name, h.Rows, h.SeatsInRow, h.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateName
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, h.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a hall.  Performances in the hall cascade away, together
// with their tickets; the handler refuses the delete while future
// performances exist so paid-for seats cannot vanish silently.
func (r *HallRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM theatre_halls WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
