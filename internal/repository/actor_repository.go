package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SensibleN00B/theatre-api/internal/model"
)

// ActorRepo provides CRUD operations for actors.  Actors are plain
// reference data; the only ordering contract is last name then first name
// on listings.
type ActorRepo struct {
	db *sql.DB
}

// NewActorRepo returns an ActorRepo bound to the given database.
func NewActorRepo(db *sql.DB) *ActorRepo { return &ActorRepo{db: db} }

// Create inserts an actor and populates its generated ID.
func (r *ActorRepo) Create(ctx context.Context, a *model.Actor) error {
	const q = `INSERT INTO actors (first_name, last_name) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.FirstName, a.LastName)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID returns one actor or ErrNotFound.
func (r *ActorRepo) GetByID(ctx context.Context, id uint64) (*model.Actor, error) {
	const q = `SELECT id, first_name, last_name FROM actors WHERE id = ?`
	var a model.Actor
	err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.FirstName, &a.LastName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns all actors ordered by last name, first name.
func (r *ActorRepo) List(ctx context.Context) ([]model.Actor, error) {
	const q = `SELECT id, first_name, last_name FROM actors ORDER BY last_name, first_name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Actor, 0)
	for rows.Next() {
		var a model.Actor
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update overwrites an actor's names.  Returns ErrNotFound when the id
// does not exist.
func (r *ActorRepo) Update(ctx context.Context, a *model.Actor) error {
	const q = `UPDATE actors SET first_name = ?, last_name = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, a.FirstName, a.LastName, a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is also zero for a no-op update; confirm existence.
		if _, err := r.GetByID(ctx, a.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an actor.  Links in play_actors cascade away.
func (r *ActorRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM actors WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
