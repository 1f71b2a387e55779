package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-care-hub/internal/domain/groups"
)

type groupRepo struct {
	mu   sync.RWMutex
	byID map[string]groups.Group
}

func NewGroupRepo() groups.Repository {
	return &groupRepo{
		byID: make(map[string]groups.Group),
	}
}

func (r *groupRepo) Create(ctx context.Context, g groups.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(g.ID) == "" {
		return errors.New("group id required")
	}
	if _, exists := r.byID[g.ID]; exists {
		return errors.New("group already exists")
	}
	r.byID[g.ID] = g
	return nil
}

func (r *groupRepo) GetByID(ctx context.Context, id string) (groups.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.byID[id]
	if !ok {
		return groups.Group{}, ErrNotFound
	}
	return g, nil
}

func (r *groupRepo) List(ctx context.Context) ([]groups.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]groups.Group, 0, len(r.byID))
	for _, g := range r.byID {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *groupRepo) ListByIDs(ctx context.Context, ids []string) ([]groups.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]groups.Group, 0, len(ids))
	for _, id := range ids {
		if g, ok := r.byID[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *groupRepo) Update(ctx context.Context, g groups.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[g.ID]
	if !ok {
		return ErrNotFound
	}
	g.CreatedAt = cur.CreatedAt
	r.byID[g.ID] = g
	return nil
}

func (r *groupRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
