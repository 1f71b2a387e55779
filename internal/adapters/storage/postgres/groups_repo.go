package postgres

import (
	"context"
	"database/sql"

	"pet-care-hub/internal/domain/groups"

	sq "github.com/Masterminds/squirrel"
)

type GroupsRepo struct {
	db *sql.DB
}

func NewGroupsRepo(db *sql.DB) *GroupsRepo {
	return &GroupsRepo{db: db}
}

var groupColumns = []string{"id", "name", "description", "created_at", "updated_at"}

func (r *GroupsRepo) Create(ctx context.Context, g groups.Group) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO groups (id, name, description, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
	`, g.ID, g.Name, g.Description, g.CreatedAt, g.UpdatedAt)
	return mapErr(err)
}

func (r *GroupsRepo) GetByID(ctx context.Context, id string) (groups.Group, error) {
	items, err := r.list(ctx, psql.Select(groupColumns...).From("groups").Where(sq.Eq{"id": id}))
	if err != nil {
		return groups.Group{}, err
	}
	if len(items) == 0 {
		return groups.Group{}, ErrNotFound
	}
	return items[0], nil
}

func (r *GroupsRepo) List(ctx context.Context) ([]groups.Group, error) {
	return r.list(ctx, psql.Select(groupColumns...).From("groups").OrderBy("created_at DESC", "id"))
}

func (r *GroupsRepo) ListByIDs(ctx context.Context, ids []string) ([]groups.Group, error) {
	if len(ids) == 0 {
		return []groups.Group{}, nil
	}
	return r.list(ctx, psql.Select(groupColumns...).From("groups").Where(sq.Eq{"id": ids}))
}

func (r *GroupsRepo) Update(ctx context.Context, g groups.Group) error {
	return mustAffect(r.db.ExecContext(ctx, `
		UPDATE groups SET name = $2, description = $3, updated_at = $4 WHERE id = $1
	`, g.ID, g.Name, g.Description, g.UpdatedAt))
}

func (r *GroupsRepo) Delete(ctx context.Context, id string) error {
	return mustAffect(r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id))
}

func (r *GroupsRepo) list(ctx context.Context, b sq.SelectBuilder) ([]groups.Group, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]groups.Group, 0)
	for rows.Next() {
		var g groups.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
