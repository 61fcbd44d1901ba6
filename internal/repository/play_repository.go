package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/SensibleN00B/theatre-api/internal/model"
)

// PlayRepo provides CRUD operations for plays and their actor/genre
// links.  Writes that touch the m2m tables run in a transaction so a play
// is never visible with half its links.
type PlayRepo struct {
	db *sql.DB
}

// NewPlayRepo returns a PlayRepo bound to the given database.
func NewPlayRepo(db *sql.DB) *PlayRepo { return &PlayRepo{db: db} }

// PlayFilter narrows List results.  Title is a case-insensitive substring
// match; ActorID and GenreID are exact matches on linked ids.  Zero
// values disable the corresponding predicate.
type PlayFilter struct {
	Title   string
	ActorID uint64
	GenreID uint64
}

// PlayListRow is the lightweight shape used by play listings: linked
// actors and genres appear as display strings instead of nested objects.
type PlayListRow struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	DurationMin uint32   `json:"duration"`
	Actors      []string `json:"actors"`
	Genres      []string `json:"genres"`
}

// Create inserts a play and its actor/genre links atomically.  A link to
// a missing actor or genre maps to ErrBadReference.
func (r *PlayRepo) Create(ctx context.Context, p *model.Play, actorIDs, genreIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO plays (title, description, duration_min) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.Title, p.Description, p.DurationMin)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	if err := insertLinks(ctx, tx, "play_actors", "actor_id", p.ID, actorIDs); err != nil {
		return err
	}
	if err := insertLinks(ctx, tx, "play_genres", "genre_id", p.ID, genreIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// insertLinks bulk-inserts m2m rows for a play.  An empty id list is a
// no-op.  FK violations (unknown actor/genre) map to ErrBadReference.
func insertLinks(ctx context.Context, tx *sql.Tx, table, column string, playID uint64, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	query := "INSERT INTO " + table + " (play_id, " + column + ") VALUES "
	args := make([]interface{}, 0, len(ids)*2)
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, playID, id)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isFKViolation(err) {
			return ErrBadReference
		}
		return err
	}
	return nil
}

// GetByID returns a play with its nested actors and genres, or
// ErrNotFound.
func (r *PlayRepo) GetByID(ctx context.Context, id uint64) (*model.Play, error) {
	const q = `SELECT id, title, description, duration_min, image FROM plays WHERE id = ?`
	var p model.Play
	var image sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&p.ID, &p.Title, &p.Description, &p.DurationMin, &image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if image.Valid {
		img := image.String
		p.Image = &img
	}

	const actorQ = `SELECT a.id, a.first_name, a.last_name
	                FROM play_actors pa
	                JOIN actors a ON a.id = pa.actor_id
	                WHERE pa.play_id = ?
	                ORDER BY a.last_name, a.first_name`
	rows, err := r.db.QueryContext(ctx, actorQ, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	p.Actors = make([]model.Actor, 0)
	for rows.Next() {
		var a model.Actor
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		p.Actors = append(p.Actors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const genreQ = `SELECT g.id, g.name
	                FROM play_genres pg
	                JOIN genres g ON g.id = pg.genre_id
	                WHERE pg.play_id = ?
	                ORDER BY g.name`
	grows, err := r.db.QueryContext(ctx, genreQ, id)
	if err != nil {
		return nil, err
	}
	defer grows.Close()
	p.Genres = make([]model.Genre, 0)
	for grows.Next() {
		var g model.Genre
		if err := grows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		p.Genres = append(p.Genres, g)
	}
	return &p, grows.Err()
}

// List returns plays matching the filter, ordered by title, with actor
// full names and genre names resolved for display.
func (r *PlayRepo) List(ctx context.Context, f PlayFilter) ([]PlayListRow, error) {
	where := []string{}
	args := []interface{}{}
	if f.Title != "" {
		where = append(where, "LOWER(p.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Title)+"%")
	}
	if f.ActorID != 0 {
		where = append(where, "EXISTS (SELECT 1 FROM play_actors pa WHERE pa.play_id = p.id AND pa.actor_id = ?)")
		args = append(args, f.ActorID)
	}
	if f.GenreID != 0 {
		where = append(where, "EXISTS (SELECT 1 FROM play_genres pg WHERE pg.play_id = p.id AND pg.genre_id = ?)")
		args = append(args, f.GenreID)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	query := `SELECT p.id, p.title, p.duration_min FROM plays p WHERE ` + cond + ` ORDER BY p.title`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PlayListRow, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var row PlayListRow
		if err := rows.Scan(&row.ID, &row.Title, &row.DurationMin); err != nil {
			return nil, err
		}
		row.Actors = []string{}
		row.Genres = []string{}
		index[row.ID] = len(out)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	// Resolve display names for all listed plays in two queries.
	ids := make([]interface{}, 0, len(out))
	placeholders := make([]string, 0, len(out))
	for _, row := range out {
		ids = append(ids, row.ID)
		placeholders = append(placeholders, "?")
	}
	in := strings.Join(placeholders, ",")

	actorQ := `SELECT pa.play_id, a.first_name, a.last_name
	           FROM play_actors pa
	           JOIN actors a ON a.id = pa.actor_id
	           WHERE pa.play_id IN (` + in + `)
	           ORDER BY a.last_name, a.first_name`
	arows, err := r.db.QueryContext(ctx, actorQ, ids...)
	if err != nil {
		return nil, err
	}
	defer arows.Close()
	for arows.Next() {
		var playID uint64
		var a model.Actor
		if err := arows.Scan(&playID, &a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		if i, ok := index[playID]; ok {
			out[i].Actors = append(out[i].Actors, a.FullName())
		}
	}
	if err := arows.Err(); err != nil {
		return nil, err
	}

	genreQ := `SELECT pg.play_id, g.name
	           FROM play_genres pg
	           JOIN genres g ON g.id = pg.genre_id
	           WHERE pg.play_id IN (` + in + `)
	           ORDER BY g.name`
	grows, err := r.db.QueryContext(ctx, genreQ, ids...)
	if err != nil {
		return nil, err
	}
	defer grows.Close()
	for grows.Next() {
		var playID uint64
		var name string
		if err := grows.Scan(&playID, &name); err != nil {
			return nil, err
		}
		if i, ok := index[playID]; ok {
			out[i].Genres = append(out[i].Genres, name)
		}
	}
	return out, grows.Err()
}

// Update overwrites play fields and replaces its actor/genre links
// atomically.
func (r *PlayRepo) Update(ctx context.Context, p *model.Play, actorIDs, genreIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `UPDATE plays SET title = ?, description = ?, duration_min = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, p.Title, p.Description, p.DurationMin, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists uint64
		err := tx.QueryRowContext(ctx, `SELECT id FROM plays WHERE id = ?`, p.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM play_actors WHERE play_id = ?`, p.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM play_genres WHERE play_id = ?`, p.ID); err != nil {
		return err
	}
	if err := insertLinks(ctx, tx, "play_actors", "actor_id", p.ID, actorIDs); err != nil {
		return err
	}
	if err := insertLinks(ctx, tx, "play_genres", "genre_id", p.ID, genreIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a play.  Plays with performances are protected by the
// RESTRICT foreign key and map to ErrProtected.
func (r *PlayRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plays WHERE id = ?`, id)
	if err != nil {
		if isRestricted(err) {
			return ErrProtected
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetImage stores the relative path of an uploaded poster.
func (r *PlayRepo) SetImage(ctx context.Context, id uint64, path string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE plays SET image = ? WHERE id = ?`, path, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists uint64
		err := r.db.QueryRowContext(ctx, `SELECT id FROM plays WHERE id = ?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
