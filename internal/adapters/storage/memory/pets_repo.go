package memory

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-care-hub/internal/domain/pets"
	"pet-care-hub/internal/platform/apperr"
)

var (
	// ErrNotFound es el mismo sentinel que usan los services para mapear a 404.
	ErrNotFound = apperr.ErrNotFound
)

type petRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byID: make(map[string]pets.Pet),
	}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pet already exists")
	}
	r.byID[p.ID] = clonePet(p)
	return nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, ErrNotFound
	}
	return clonePet(p), nil
}

func (r *petRepo) List(ctx context.Context) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, clonePet(p))
	}

	// Orden estable: más nuevos primero
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *petRepo) ListByIDs(ctx context.Context, ids []string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out = append(out, clonePet(p))
		}
	}
	return out, nil
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[p.ID]
	if !ok {
		return ErrNotFound
	}
	// tasks/treatments se manejan por sus propios métodos
	p.Tasks = cur.Tasks
	p.Treatments = cur.Treatments
	p.CreatedAt = cur.CreatedAt
	r.byID[p.ID] = p
	return nil
}

func (r *petRepo) AddTask(ctx context.Context, petID string, t pets.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[petID]
	if !ok {
		return ErrNotFound
	}
	p.Tasks = append(slices.Clone(p.Tasks), t)
	r.byID[petID] = p
	return nil
}

func (r *petRepo) UpdateTask(ctx context.Context, petID string, t pets.Task, resetNotified bool) error {
	return r.withTask(petID, t.ID, func(cur *pets.Task) {
		cur.Title = t.Title
		cur.Description = t.Description
		cur.DateFrom = t.DateFrom
		cur.DateTo = t.DateTo
		if resetNotified {
			cur.NotifiedAt = nil
		}
	})
}

func (r *petRepo) SetTaskCompleted(ctx context.Context, petID, taskID string, completed bool) error {
	return r.withTask(petID, taskID, func(cur *pets.Task) {
		cur.IsCompleted = completed
	})
}

func (r *petRepo) MarkTaskNotified(ctx context.Context, petID, taskID string, at time.Time) error {
	return r.withTask(petID, taskID, func(cur *pets.Task) {
		stamp := at
		cur.NotifiedAt = &stamp
	})
}

func (r *petRepo) DeleteTask(ctx context.Context, petID, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[petID]
	if !ok {
		return ErrNotFound
	}
	i := slices.IndexFunc(p.Tasks, func(t pets.Task) bool { return t.ID == taskID })
	if i < 0 {
		return ErrNotFound
	}
	p.Tasks = slices.Delete(slices.Clone(p.Tasks), i, i+1)
	r.byID[petID] = p
	return nil
}

func (r *petRepo) AddTreatment(ctx context.Context, petID string, t pets.Treatment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[petID]
	if !ok {
		return ErrNotFound
	}
	p.Treatments = append(slices.Clone(p.Treatments), t)
	r.byID[petID] = p
	return nil
}

func (r *petRepo) DeleteTreatment(ctx context.Context, petID, treatmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[petID]
	if !ok {
		return ErrNotFound
	}
	i := slices.IndexFunc(p.Treatments, func(t pets.Treatment) bool { return t.ID == treatmentID })
	if i < 0 {
		return ErrNotFound
	}
	p.Treatments = slices.Delete(slices.Clone(p.Treatments), i, i+1)
	r.byID[petID] = p
	return nil
}

func (r *petRepo) ListTasksDue(ctx context.Context, from, to time.Time) ([]pets.DueTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.DueTask, 0)
	for _, p := range r.byID {
		for _, t := range p.Tasks {
			if t.IsCompleted || t.NotifiedAt != nil {
				continue
			}
			if t.DateFrom.Before(from) || !t.DateFrom.Before(to) {
				continue
			}
			out = append(out, pets.DueTask{PetID: p.ID, PetName: p.Name, Task: t})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Task.DateFrom.Equal(out[j].Task.DateFrom) {
			return out[i].Task.ID < out[j].Task.ID
		}
		return out[i].Task.DateFrom.Before(out[j].Task.DateFrom)
	})
	return out, nil
}

func (r *petRepo) withTask(petID, taskID string, fn func(*pets.Task)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[petID]
	if !ok {
		return ErrNotFound
	}
	i := slices.IndexFunc(p.Tasks, func(t pets.Task) bool { return t.ID == taskID })
	if i < 0 {
		return ErrNotFound
	}
	p.Tasks = slices.Clone(p.Tasks)
	fn(&p.Tasks[i])
	r.byID[petID] = p
	return nil
}

func clonePet(p pets.Pet) pets.Pet {
	p.Tasks = slices.Clone(p.Tasks)
	p.Treatments = slices.Clone(p.Treatments)
	if p.Tasks == nil {
		p.Tasks = []pets.Task{}
	}
	if p.Treatments == nil {
		p.Treatments = []pets.Treatment{}
	}
	return p
}
