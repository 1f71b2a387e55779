package clubs

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-care-hub/internal/domain/books"
	"pet-care-hub/internal/domain/memberships"
	"pet-care-hub/internal/domain/users"
	"pet-care-hub/internal/platform/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	users *users.Service
	books *books.Service
	edges *memberships.Service
	now   func() time.Time
}

func NewService(repo Repository, usersSvc *users.Service, booksSvc *books.Service, edges *memberships.Service) *Service {
	return &Service{
		repo:  repo,
		users: usersSvc,
		books: booksSvc,
		edges: edges,
		now:   time.Now,
	}
}

type CreateInput struct {
	Name        string
	Description string
	UserIDs     []string
	// BookIDs: libros existentes que pasan a este club.
	BookIDs []string
}

func (s *Service) Create(ctx context.Context, actorID string, in CreateInput) (Club, error) {
	if strings.TrimSpace(actorID) == "" {
		return Club{}, apperr.ErrUnauthorized
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Club{}, apperr.Invalid("name is required")
	}
	userIDs := append([]string{actorID}, in.UserIDs...)
	if err := s.users.Exists(ctx, userIDs...); err != nil {
		return Club{}, err
	}
	if err := s.books.Exists(ctx, in.BookIDs...); err != nil {
		return Club{}, err
	}

	now := s.now()
	c := Club{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Club{}, err
	}

	if err := s.edges.LinkAll(ctx, memberships.KindUserClub, userIDs, []string{c.ID}); err != nil {
		return Club{}, err
	}
	for _, bookID := range in.BookIDs {
		if err := s.books.MoveToClub(ctx, bookID, c.ID); err != nil {
			return Club{}, err
		}
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Club, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Club{}, apperr.Invalid("club id is required")
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Club{}, notFound(err)
	}
	return c, nil
}

// Exists implementa books.ClubLookup.
func (s *Service) Exists(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) View(ctx context.Context, id string) (View, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.populate(ctx, c)
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

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Club, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return Club{}, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Club{}, apperr.Invalid("name must not be empty")
		}
		c.Name = name
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	c.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, c); err != nil {
		return Club{}, notFound(err)
	}
	return c, nil
}

// Delete borra los libros del club, suelta los miembros y borra el club.
func (s *Service) Delete(ctx context.Context, id string) error {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	bookIDs, err := s.edges.RightsOf(ctx, memberships.KindClubBook, c.ID)
	if err != nil {
		return err
	}
	for _, bookID := range bookIDs {
		if err := s.books.Delete(ctx, bookID); err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return err
		}
	}
	// por si quedó alguna arista a un libro ya borrado
	if err := s.edges.Detach(ctx, memberships.KindClubBook, memberships.SideLeft, c.ID); err != nil {
		return err
	}
	if err := s.edges.Detach(ctx, memberships.KindUserClub, memberships.SideRight, c.ID); err != nil {
		return err
	}
	return notFound(s.repo.Delete(ctx, c.ID))
}

func (s *Service) AddUsers(ctx context.Context, clubID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return apperr.Invalid("users are required")
	}
	if _, err := s.GetByID(ctx, clubID); err != nil {
		return err
	}
	if err := s.users.Exists(ctx, userIDs...); err != nil {
		return err
	}
	return s.edges.LinkAll(ctx, memberships.KindUserClub, userIDs, []string{clubID})
}

func (s *Service) RemoveUser(ctx context.Context, clubID, userID string) error {
	if _, err := s.GetByID(ctx, clubID); err != nil {
		return err
	}
	return s.edges.Unlink(ctx, memberships.KindUserClub, userID, clubID)
}

// RemoveBook saca el libro del club y lo borra (un libro no vive sin club).
func (s *Service) RemoveBook(ctx context.Context, clubID, bookID string) error {
	if _, err := s.GetByID(ctx, clubID); err != nil {
		return err
	}
	linked, err := s.edges.Linked(ctx, memberships.KindClubBook, clubID, bookID)
	if err != nil {
		return err
	}
	if !linked {
		return apperr.NotFound("book")
	}
	return s.books.Delete(ctx, bookID)
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]View, error) {
	if err := s.users.Exists(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.edges.RightsOf(ctx, memberships.KindUserClub, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []View{}, nil
	}
	items, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.populateAll(ctx, items)
}

func (s *Service) populateAll(ctx context.Context, items []Club) ([]View, error) {
	out := make([]View, 0, len(items))
	for _, c := range items {
		v, err := s.populate(ctx, c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Service) populate(ctx context.Context, c Club) (View, error) {
	memberIDs, err := s.edges.LeftsOf(ctx, memberships.KindUserClub, c.ID)
	if err != nil {
		return View{}, err
	}
	members, err := s.users.Summaries(ctx, memberIDs)
	if err != nil {
		return View{}, err
	}
	clubBooks, err := s.books.ListByClub(ctx, c.ID)
	if err != nil {
		return View{}, err
	}
	return View{Club: c, Members: members, Books: clubBooks}, nil
}

func notFound(err error) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.NotFound("club")
	}
	return err
}
