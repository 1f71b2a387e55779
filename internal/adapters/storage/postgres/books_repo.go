package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"pet-care-hub/internal/domain/books"

	sq "github.com/Masterminds/squirrel"
)

type BooksRepo struct {
	db *sql.DB
}

func NewBooksRepo(db *sql.DB) *BooksRepo {
	return &BooksRepo{db: db}
}

var bookColumns = []string{
	"id", "club_id", "title", "author", "description", "pages",
	"cover", "preview_link", "start_date", "end_date", "created_at", "updated_at",
}

func (r *BooksRepo) Create(ctx context.Context, b books.Book) error {
	query, args, err := psql.Insert("books").Columns(bookColumns...).Values(
		b.ID, b.ClubID, b.Title, b.Author, b.Description, b.Pages,
		b.Cover, b.PreviewLink, b.StartDate, b.EndDate, b.CreatedAt, b.UpdatedAt,
	).ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return mapErr(err)
}

func (r *BooksRepo) GetByID(ctx context.Context, id string) (books.Book, error) {
	items, err := r.list(ctx, psql.Select(bookColumns...).From("books").Where(sq.Eq{"id": id}))
	if err != nil {
		return books.Book{}, err
	}
	if len(items) == 0 {
		return books.Book{}, ErrNotFound
	}
	return items[0], nil
}

func (r *BooksRepo) List(ctx context.Context) ([]books.Book, error) {
	return r.list(ctx, psql.Select(bookColumns...).From("books").OrderBy("start_date DESC", "id"))
}

func (r *BooksRepo) ListByIDs(ctx context.Context, ids []string) ([]books.Book, error) {
	if len(ids) == 0 {
		return []books.Book{}, nil
	}
	return r.list(ctx, psql.Select(bookColumns...).From("books").Where(sq.Eq{"id": ids}))
}

func (r *BooksRepo) Update(ctx context.Context, b books.Book) error {
	query, args, err := psql.Update("books").SetMap(map[string]any{
		"club_id":      b.ClubID,
		"title":        b.Title,
		"author":       b.Author,
		"description":  b.Description,
		"pages":        b.Pages,
		"cover":        b.Cover,
		"preview_link": b.PreviewLink,
		"start_date":   b.StartDate,
		"end_date":     b.EndDate,
		"updated_at":   b.UpdatedAt,
	}).Where(sq.Eq{"id": b.ID}).ToSql()
	if err != nil {
		return err
	}
	return mustAffect(r.db.ExecContext(ctx, query, args...))
}

func (r *BooksRepo) Delete(ctx context.Context, id string) error {
	return mustAffect(r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id))
}

func (r *BooksRepo) list(ctx context.Context, b sq.SelectBuilder) ([]books.Book, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]books.Book, 0)
	for rows.Next() {
		var b books.Book
		if err := rows.Scan(
			&b.ID, &b.ClubID, &b.Title, &b.Author, &b.Description, &b.Pages,
			&b.Cover, &b.PreviewLink, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ReadingsRepo guarda el historial de avance como JSONB.
type ReadingsRepo struct {
	db *sql.DB
}

func NewReadingsRepo(db *sql.DB) *ReadingsRepo {
	return &ReadingsRepo{db: db}
}

var readingColumns = []string{
	"id", "user_id", "book_id", "start_date", "end_date",
	"progress", "review_rating", "review_description", "created_at", "updated_at",
}

func (r *ReadingsRepo) CreateReading(ctx context.Context, rd books.Reading) error {
	progress, rating, desc, err := readingJSON(rd)
	if err != nil {
		return err
	}
	query, args, err := psql.Insert("readings").Columns(readingColumns...).Values(
		rd.ID, rd.UserID, rd.BookID, rd.StartDate, toNullTime(rd.EndDate),
		progress, rating, desc, rd.CreatedAt, rd.UpdatedAt,
	).ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return mapErr(err)
}

func (r *ReadingsRepo) GetReading(ctx context.Context, id string) (books.Reading, error) {
	items, err := r.list(ctx, psql.Select(readingColumns...).From("readings").Where(sq.Eq{"id": id}))
	if err != nil {
		return books.Reading{}, err
	}
	if len(items) == 0 {
		return books.Reading{}, ErrNotFound
	}
	return items[0], nil
}

func (r *ReadingsRepo) ListReadingsByUser(ctx context.Context, userID string) ([]books.Reading, error) {
	return r.list(ctx, psql.Select(readingColumns...).From("readings").
		Where(sq.Eq{"user_id": userID}).OrderBy("start_date DESC", "id"))
}

func (r *ReadingsRepo) UpdateReading(ctx context.Context, rd books.Reading) error {
	progress, rating, desc, err := readingJSON(rd)
	if err != nil {
		return err
	}
	query, args, err := psql.Update("readings").SetMap(map[string]any{
		"start_date":         rd.StartDate,
		"end_date":           toNullTime(rd.EndDate),
		"progress":           progress,
		"review_rating":      rating,
		"review_description": desc,
		"updated_at":         rd.UpdatedAt,
	}).Where(sq.Eq{"id": rd.ID}).ToSql()
	if err != nil {
		return err
	}
	return mustAffect(r.db.ExecContext(ctx, query, args...))
}

func (r *ReadingsRepo) DeleteReadingsByBook(ctx context.Context, bookID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM readings WHERE book_id = $1`, bookID)
	return err
}

func (r *ReadingsRepo) list(ctx context.Context, b sq.SelectBuilder) ([]books.Reading, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]books.Reading, 0)
	for rows.Next() {
		var (
			rd       books.Reading
			end      sql.NullTime
			progress []byte
			rating   sql.NullInt64
			desc     sql.NullString
		)
		if err := rows.Scan(
			&rd.ID, &rd.UserID, &rd.BookID, &rd.StartDate, &end,
			&progress, &rating, &desc, &rd.CreatedAt, &rd.UpdatedAt,
		); err != nil {
			return nil, err
		}
		rd.EndDate = fromNullTime(end)
		rd.Progress = []books.Progress{}
		if len(progress) > 0 {
			if err := json.Unmarshal(progress, &rd.Progress); err != nil {
				return nil, fmt.Errorf("reading %s: decode progress: %w", rd.ID, err)
			}
		}
		if rating.Valid {
			rd.Review = &books.Review{Rating: int(rating.Int64), Description: desc.String}
		}
		out = append(out, rd)
	}
	return out, rows.Err()
}

func readingJSON(rd books.Reading) (progress []byte, rating sql.NullInt64, desc sql.NullString, err error) {
	p := rd.Progress
	if p == nil {
		p = []books.Progress{}
	}
	progress, err = json.Marshal(p)
	if err != nil {
		return nil, rating, desc, err
	}
	if rd.Review != nil {
		rating = sql.NullInt64{Int64: int64(rd.Review.Rating), Valid: true}
		desc = sql.NullString{String: rd.Review.Description, Valid: true}
	}
	return progress, rating, desc, nil
}
