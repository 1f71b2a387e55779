package memory

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"

	"pet-care-hub/internal/domain/users"
	"pet-care-hub/internal/platform/apperr"
)

type userRepo struct {
	mu   sync.RWMutex
	byID map[string]users.User
}

func NewUserRepo() users.Repository {
	return &userRepo{
		byID: make(map[string]users.User),
	}
}

func (r *userRepo) Create(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id required")
	}
	if _, exists := r.byID[u.ID]; exists {
		return errors.New("user already exists")
	}
	for _, other := range r.byID {
		if strings.EqualFold(other.Email, u.Email) {
			return apperr.Conflict("email already exists")
		}
	}
	r.byID[u.ID] = cloneUser(u)
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return users.User{}, apperr.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return users.User{}, apperr.ErrNotFound
}

func (r *userRepo) ListByIDs(ctx context.Context, ids []string) ([]users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]users.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *userRepo) Search(ctx context.Context, q string) ([]users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(q)
	out := make([]users.User, 0)
	for _, u := range r.byID {
		if strings.Contains(strings.ToLower(u.Name), needle) || strings.Contains(strings.ToLower(u.Email), needle) {
			out = append(out, cloneUser(u))
		}
	}

	// mismo orden que postgres (name asc)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[u.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	cur.Name = u.Name
	cur.PasswordHash = u.PasswordHash
	cur.UpdatedAt = u.UpdatedAt
	r.byID[u.ID] = cur
	return nil
}

func (r *userRepo) AddRefreshToken(ctx context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return apperr.ErrNotFound
	}
	u.RefreshTokens = append(u.RefreshTokens, token)
	r.byID[userID] = u
	return nil
}

func (r *userRepo) ReplaceRefreshToken(ctx context.Context, userID, oldToken, newToken string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return false, apperr.ErrNotFound
	}
	i := slices.Index(u.RefreshTokens, oldToken)
	if i < 0 {
		return false, nil
	}
	u.RefreshTokens = slices.Clone(u.RefreshTokens)
	u.RefreshTokens[i] = newToken
	r.byID[userID] = u
	return true, nil
}

func (r *userRepo) RemoveRefreshToken(ctx context.Context, userID, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return false, apperr.ErrNotFound
	}
	i := slices.Index(u.RefreshTokens, token)
	if i < 0 {
		return false, nil
	}
	u.RefreshTokens = slices.Delete(slices.Clone(u.RefreshTokens), i, i+1)
	r.byID[userID] = u
	return true, nil
}

func (r *userRepo) ClearRefreshTokens(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return apperr.ErrNotFound
	}
	u.RefreshTokens = nil
	r.byID[userID] = u
	return nil
}

func cloneUser(u users.User) users.User {
	u.RefreshTokens = slices.Clone(u.RefreshTokens)
	return u
}
