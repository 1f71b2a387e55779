package postgres

import (
	"context"
	"database/sql"

	"pet-care-hub/internal/domain/clubs"

	sq "github.com/Masterminds/squirrel"
)

type ClubsRepo struct {
	db *sql.DB
}

func NewClubsRepo(db *sql.DB) *ClubsRepo {
	return &ClubsRepo{db: db}
}

var clubColumns = []string{"id", "name", "description", "created_at", "updated_at"}

func (r *ClubsRepo) Create(ctx context.Context, c clubs.Club) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clubs (id, name, description, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
	`, c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	return mapErr(err)
}

func (r *ClubsRepo) GetByID(ctx context.Context, id string) (clubs.Club, error) {
	items, err := r.list(ctx, psql.Select(clubColumns...).From("clubs").Where(sq.Eq{"id": id}))
	if err != nil {
		return clubs.Club{}, err
	}
	if len(items) == 0 {
		return clubs.Club{}, ErrNotFound
	}
	return items[0], nil
}

func (r *ClubsRepo) List(ctx context.Context) ([]clubs.Club, error) {
	return r.list(ctx, psql.Select(clubColumns...).From("clubs").OrderBy("created_at DESC", "id"))
}

func (r *ClubsRepo) ListByIDs(ctx context.Context, ids []string) ([]clubs.Club, error) {
	if len(ids) == 0 {
		return []clubs.Club{}, nil
	}
	return r.list(ctx, psql.Select(clubColumns...).From("clubs").Where(sq.Eq{"id": ids}))
}

func (r *ClubsRepo) Update(ctx context.Context, c clubs.Club) error {
	return mustAffect(r.db.ExecContext(ctx, `
		UPDATE clubs SET name = $2, description = $3, updated_at = $4 WHERE id = $1
	`, c.ID, c.Name, c.Description, c.UpdatedAt))
}

func (r *ClubsRepo) Delete(ctx context.Context, id string) error {
	return mustAffect(r.db.ExecContext(ctx, `DELETE FROM clubs WHERE id = $1`, id))
}

func (r *ClubsRepo) list(ctx context.Context, b sq.SelectBuilder) ([]clubs.Club, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]clubs.Club, 0)
	for rows.Next() {
		var c clubs.Club
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
