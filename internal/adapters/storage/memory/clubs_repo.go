package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-care-hub/internal/domain/clubs"
)

type clubRepo struct {
	mu   sync.RWMutex
	byID map[string]clubs.Club
}

func NewClubRepo() clubs.Repository {
	return &clubRepo{
		byID: make(map[string]clubs.Club),
	}
}

func (r *clubRepo) Create(ctx context.Context, c clubs.Club) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("club id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("club already exists")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *clubRepo) GetByID(ctx context.Context, id string) (clubs.Club, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return clubs.Club{}, ErrNotFound
	}
	return c, nil
}

func (r *clubRepo) List(ctx context.Context) ([]clubs.Club, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]clubs.Club, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *clubRepo) ListByIDs(ctx context.Context, ids []string) ([]clubs.Club, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]clubs.Club, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *clubRepo) Update(ctx context.Context, c clubs.Club) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[c.ID]
	if !ok {
		return ErrNotFound
	}
	c.CreatedAt = cur.CreatedAt
	r.byID[c.ID] = c
	return nil
}

func (r *clubRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
