package postgres

import (
	"context"
	"database/sql"

	"pet-care-hub/internal/domain/memberships"

	sq "github.com/Masterminds/squirrel"
)

// EdgesRepo: una fila por arista; PK (kind,left,right) y un índice por (kind,right).
type EdgesRepo struct {
	db *sql.DB
}

func NewEdgesRepo(db *sql.DB) *EdgesRepo {
	return &EdgesRepo{db: db}
}

// Link inserta todas las aristas en una transacción; las existentes se ignoran.
func (r *EdgesRepo) Link(ctx context.Context, edges ...memberships.Edge) error {
	if len(edges) == 0 {
		return nil
	}
	b := psql.Insert("memberships").Columns("kind", "left_id", "right_id")
	for _, e := range edges {
		b = b.Values(string(e.Kind), e.LeftID, e.RightID)
	}
	query, args, err := b.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return err
	}
	return withTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	})
}

func (r *EdgesRepo) Unlink(ctx context.Context, edges ...memberships.Edge) error {
	if len(edges) == 0 {
		return nil
	}
	or := make(sq.Or, 0, len(edges))
	for _, e := range edges {
		or = append(or, sq.Eq{"kind": string(e.Kind), "left_id": e.LeftID, "right_id": e.RightID})
	}
	query, args, err := psql.Delete("memberships").Where(or).ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *EdgesRepo) UnlinkAll(ctx context.Context, kind memberships.Kind, side memberships.Side, id string) error {
	col := "left_id"
	if side == memberships.SideRight {
		col = "right_id"
	}
	query, args, err := psql.Delete("memberships").Where(sq.Eq{"kind": string(kind), col: id}).ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *EdgesRepo) Has(ctx context.Context, e memberships.Edge) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM memberships WHERE kind = $1 AND left_id = $2 AND right_id = $3)
	`, string(e.Kind), e.LeftID, e.RightID).Scan(&ok)
	return ok, err
}

func (r *EdgesRepo) Rights(ctx context.Context, kind memberships.Kind, leftID string) ([]string, error) {
	return r.ids(ctx, `SELECT right_id FROM memberships WHERE kind = $1 AND left_id = $2 ORDER BY right_id`, kind, leftID)
}

func (r *EdgesRepo) Lefts(ctx context.Context, kind memberships.Kind, rightID string) ([]string, error) {
	return r.ids(ctx, `SELECT left_id FROM memberships WHERE kind = $1 AND right_id = $2 ORDER BY left_id`, kind, rightID)
}

func (r *EdgesRepo) ids(ctx context.Context, query string, kind memberships.Kind, id string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, string(kind), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
