package groups

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-care-hub/internal/domain/memberships"
	"pet-care-hub/internal/domain/pets"
	"pet-care-hub/internal/domain/users"
	"pet-care-hub/internal/platform/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	users *users.Service
	pets  *pets.Service
	edges *memberships.Service
	now   func() time.Time
}

func NewService(repo Repository, usersSvc *users.Service, petsSvc *pets.Service, edges *memberships.Service) *Service {
	return &Service{
		repo:  repo,
		users: usersSvc,
		pets:  petsSvc,
		edges: edges,
		now:   time.Now,
	}
}

type CreateInput struct {
	Name        string
	Description string
	UserIDs     []string
	PetIDs      []string
}

// Create arma el grupo con el actor siempre como miembro.
// Crear y linkear son dos pasos: si el link falla el grupo queda creado sin
// relaciones y el error sube igual.
func (s *Service) Create(ctx context.Context, actorID string, in CreateInput) (Group, error) {
	if strings.TrimSpace(actorID) == "" {
		return Group{}, apperr.ErrUnauthorized
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Group{}, apperr.Invalid("name is required")
	}

	userIDs := append([]string{actorID}, in.UserIDs...)
	if err := s.users.Exists(ctx, userIDs...); err != nil {
		return Group{}, err
	}
	if err := s.pets.Exists(ctx, in.PetIDs...); err != nil {
		return Group{}, err
	}

	now := s.now()
	g := Group{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return Group{}, err
	}

	if err := s.edges.LinkAll(ctx, memberships.KindUserGroup, userIDs, []string{g.ID}); err != nil {
		return Group{}, err
	}
	if len(in.PetIDs) > 0 {
		if err := s.edges.LinkAll(ctx, memberships.KindPetGroup, in.PetIDs, []string{g.ID}); err != nil {
			return Group{}, err
		}
	}
	return g, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Group, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Group{}, apperr.Invalid("group id is required")
	}
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Group{}, notFound(err)
	}
	return g, nil
}

func (s *Service) View(ctx context.Context, id string) (View, error) {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.populate(ctx, g)
}

func (s *Service) List(ctx context.Context) ([]View, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.populateAll(ctx, items)
}

type UpdateInput struct {
	Name        *string
	Description *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Group, error) {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return Group{}, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Group{}, apperr.Invalid("name must not be empty")
		}
		g.Name = name
	}
	if in.Description != nil {
		g.Description = strings.TrimSpace(*in.Description)
	}
	g.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, g); err != nil {
		return Group{}, notFound(err)
	}
	return g, nil
}

// Delete suelta todas las aristas del grupo y después lo borra.
func (s *Service) Delete(ctx context.Context, id string) error {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.edges.Detach(ctx, memberships.KindUserGroup, memberships.SideRight, g.ID); err != nil {
		return err
	}
	if err := s.edges.Detach(ctx, memberships.KindPetGroup, memberships.SideRight, g.ID); err != nil {
		return err
	}
	return notFound(s.repo.Delete(ctx, g.ID))
}

func (s *Service) AddUsers(ctx context.Context, groupID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return apperr.Invalid("users are required")
	}
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return err
	}
	if err := s.users.Exists(ctx, userIDs...); err != nil {
		return err
	}
	return s.edges.LinkAll(ctx, memberships.KindUserGroup, userIDs, []string{groupID})
}

func (s *Service) AddPets(ctx context.Context, groupID string, petIDs []string) error {
	if len(petIDs) == 0 {
		return apperr.Invalid("pets are required")
	}
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return err
	}
	if err := s.pets.Exists(ctx, petIDs...); err != nil {
		return err
	}
	return s.edges.LinkAll(ctx, memberships.KindPetGroup, petIDs, []string{groupID})
}

func (s *Service) RemoveUser(ctx context.Context, groupID, userID string) error {
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return err
	}
	return s.edges.Unlink(ctx, memberships.KindUserGroup, userID, groupID)
}

func (s *Service) RemovePet(ctx context.Context, groupID, petID string) error {
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return err
	}
	return s.edges.Unlink(ctx, memberships.KindPetGroup, petID, groupID)
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]View, error) {
	if err := s.users.Exists(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.edges.RightsOf(ctx, memberships.KindUserGroup, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.byIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.populateAll(ctx, items)
}

// Summaries implementa pets.GroupDirectory.
func (s *Service) Summaries(ctx context.Context, ids []string) ([]pets.GroupSummary, error) {
	items, err := s.byIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]pets.GroupSummary, 0, len(items))
	for _, g := range items {
		out = append(out, pets.GroupSummary{ID: g.ID, Name: g.Name})
	}
	return out, nil
}

func (s *Service) byIDs(ctx context.Context, ids []string) ([]Group, error) {
	if len(ids) == 0 {
		return []Group{}, nil
	}
	items, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Group, len(items))
	for _, g := range items {
		byID[g.ID] = g
	}
	out := make([]Group, 0, len(ids))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *Service) populateAll(ctx context.Context, items []Group) ([]View, error) {
	out := make([]View, 0, len(items))
	for _, g := range items {
		v, err := s.populate(ctx, g)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Service) populate(ctx context.Context, g Group) (View, error) {
	memberIDs, err := s.edges.LeftsOf(ctx, memberships.KindUserGroup, g.ID)
	if err != nil {
		return View{}, err
	}
	members, err := s.users.Summaries(ctx, memberIDs)
	if err != nil {
		return View{}, err
	}

	petIDs, err := s.edges.LeftsOf(ctx, memberships.KindPetGroup, g.ID)
	if err != nil {
		return View{}, err
	}
	groupPets, err := s.pets.ListByIDs(ctx, petIDs)
	if err != nil {
		return View{}, err
	}
	return View{Group: g, Members: members, Pets: groupPets}, nil
}

func notFound(err error) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.NotFound("group")
	}
	return err
}
