package memory

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"

	"pet-care-hub/internal/domain/books"
)

type bookRepo struct {
	mu   sync.RWMutex
	byID map[string]books.Book
}

func NewBookRepo() books.Repository {
	return &bookRepo{
		byID: make(map[string]books.Book),
	}
}

func (r *bookRepo) Create(ctx context.Context, b books.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(b.ID) == "" {
		return errors.New("book id required")
	}
	if _, exists := r.byID[b.ID]; exists {
		return errors.New("book already exists")
	}
	r.byID[b.ID] = b
	return nil
}

func (r *bookRepo) GetByID(ctx context.Context, id string) (books.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return books.Book{}, ErrNotFound
	}
	return b, nil
}

func (r *bookRepo) List(ctx context.Context) ([]books.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]books.Book, 0, len(r.byID))
	for _, b := range r.byID {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, nil
}

func (r *bookRepo) ListByIDs(ctx context.Context, ids []string) ([]books.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]books.Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := r.byID[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *bookRepo) Update(ctx context.Context, b books.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[b.ID]
	if !ok {
		return ErrNotFound
	}
	b.CreatedAt = cur.CreatedAt
	r.byID[b.ID] = b
	return nil
}

func (r *bookRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type readingRepo struct {
	mu   sync.RWMutex
	byID map[string]books.Reading
}

func NewReadingRepo() books.ReadingRepository {
	return &readingRepo{
		byID: make(map[string]books.Reading),
	}
}

func (r *readingRepo) CreateReading(ctx context.Context, rd books.Reading) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rd.ID) == "" {
		return errors.New("reading id required")
	}
	if _, exists := r.byID[rd.ID]; exists {
		return errors.New("reading already exists")
	}
	r.byID[rd.ID] = cloneReading(rd)
	return nil
}

func (r *readingRepo) GetReading(ctx context.Context, id string) (books.Reading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rd, ok := r.byID[id]
	if !ok {
		return books.Reading{}, ErrNotFound
	}
	return cloneReading(rd), nil
}

func (r *readingRepo) ListReadingsByUser(ctx context.Context, userID string) ([]books.Reading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]books.Reading, 0)
	for _, rd := range r.byID {
		if rd.UserID == userID {
			out = append(out, cloneReading(rd))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out, nil
}

func (r *readingRepo) UpdateReading(ctx context.Context, rd books.Reading) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[rd.ID]
	if !ok {
		return ErrNotFound
	}
	rd.CreatedAt = cur.CreatedAt
	r.byID[rd.ID] = cloneReading(rd)
	return nil
}

func (r *readingRepo) DeleteReadingsByBook(ctx context.Context, bookID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, rd := range r.byID {
		if rd.BookID == bookID {
			delete(r.byID, id)
		}
	}
	return nil
}

func cloneReading(rd books.Reading) books.Reading {
	rd.Progress = slices.Clone(rd.Progress)
	if rd.Review != nil {
		rev := *rd.Review
		rd.Review = &rev
	}
	if rd.EndDate != nil {
		end := *rd.EndDate
		rd.EndDate = &end
	}
	return rd
}
