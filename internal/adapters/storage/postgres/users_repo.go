package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-care-hub/internal/domain/users"

	sq "github.com/Masterminds/squirrel"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

var userColumns = []string{"id", "email", "name", "password_hash", "created_at", "updated_at"}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	return mapErr(err)
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	return r.getOne(ctx, sq.Eq{"id": strings.TrimSpace(id)})
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	return r.getOne(ctx, sq.Expr("lower(email) = lower(?)", strings.TrimSpace(email)))
}

func (r *UsersRepo) getOne(ctx context.Context, where sq.Sqlizer) (users.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return users.User{}, err
	}
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return users.User{}, mapErr(err)
	}
	if u.RefreshTokens, err = r.tokens(ctx, u.ID); err != nil {
		return users.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) ListByIDs(ctx context.Context, ids []string) ([]users.User, error) {
	if len(ids) == 0 {
		return []users.User{}, nil
	}
	return r.list(ctx, psql.Select(userColumns...).From("users").Where(sq.Eq{"id": ids}))
}

// Search hace ILIKE sobre name o email; % y _ del usuario se escapan.
func (r *UsersRepo) Search(ctx context.Context, q string) ([]users.User, error) {
	pattern := "%" + escapeLike(q) + "%"
	return r.list(ctx, psql.Select(userColumns...).From("users").
		Where(sq.Or{sq.ILike{"name": pattern}, sq.ILike{"email": pattern}}).
		OrderBy("name ASC"))
}

func (r *UsersRepo) list(ctx context.Context, b sq.SelectBuilder) ([]users.User, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UsersRepo) UpdateProfile(ctx context.Context, u users.User) error {
	return mustAffect(r.db.ExecContext(ctx, `
		UPDATE users SET name = $2, password_hash = $3, updated_at = $4
		WHERE id = $1
	`, u.ID, u.Name, u.PasswordHash, u.UpdatedAt))
}

func (r *UsersRepo) AddRefreshToken(ctx context.Context, userID, token string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_refresh_tokens (user_id, token) VALUES ($1,$2)
		ON CONFLICT DO NOTHING
	`, userID, token)
	return mapErr(err)
}

// ReplaceRefreshToken borra el viejo e inserta el nuevo en una transacción.
func (r *UsersRepo) ReplaceRefreshToken(ctx context.Context, userID, oldToken, newToken string) (bool, error) {
	replaced := false
	err := withTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM user_refresh_tokens WHERE user_id = $1 AND token = $2`, userID, oldToken)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_refresh_tokens (user_id, token) VALUES ($1,$2)`, userID, newToken); err != nil {
			return err
		}
		replaced = true
		return nil
	})
	return replaced, mapErr(err)
}

func (r *UsersRepo) RemoveRefreshToken(ctx context.Context, userID, token string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM user_refresh_tokens WHERE user_id = $1 AND token = $2`, userID, token)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *UsersRepo) ClearRefreshTokens(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_refresh_tokens WHERE user_id = $1`, userID)
	return err
}

func (r *UsersRepo) tokens(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT token FROM user_refresh_tokens WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanUser(s rowScanner) (users.User, error) {
	var u users.User
	err := s.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
