package books

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-care-hub/internal/domain/memberships"
	"pet-care-hub/internal/platform/apperr"

	"github.com/google/uuid"
)

// ClubLookup evita el ciclo books <-> clubs (clubs importa books).
type ClubLookup interface {
	Exists(ctx context.Context, ids ...string) error
}

type Service struct {
	repo     Repository
	readings ReadingRepository
	edges    *memberships.Service
	clubs    ClubLookup
	now      func() time.Time
}

func NewService(repo Repository, readings ReadingRepository, edges *memberships.Service) *Service {
	return &Service{
		repo:     repo,
		readings: readings,
		edges:    edges,
		now:      time.Now,
	}
}

// SetClubLookup se llama después de construir clubs.Service.
func (s *Service) SetClubLookup(c ClubLookup) { s.clubs = c }

type CreateInput struct {
	ClubID      string
	Title       string
	Author      string
	Description string
	Pages       int
	Cover       string
	PreviewLink string
	StartDate   time.Time
	EndDate     time.Time
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Book, error) {
	now := s.now()
	b := Book{
		ID:          uuid.NewString(),
		ClubID:      strings.TrimSpace(in.ClubID),
		Title:       strings.TrimSpace(in.Title),
		Author:      strings.TrimSpace(in.Author),
		Description: strings.TrimSpace(in.Description),
		Pages:       in.Pages,
		Cover:       strings.TrimSpace(in.Cover),
		PreviewLink: strings.TrimSpace(in.PreviewLink),
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validateBook(b); err != nil {
		return Book{}, err
	}
	if s.clubs != nil {
		if err := s.clubs.Exists(ctx, b.ClubID); err != nil {
			return Book{}, err
		}
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return Book{}, err
	}
	if err := s.edges.Link(ctx, memberships.KindClubBook, b.ClubID, b.ID); err != nil {
		return Book{}, err
	}
	return b, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Book, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Book{}, apperr.Invalid("book id is required")
	}
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Book{}, notFound(err, "book")
	}
	return b, nil
}

func (s *Service) Exists(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.List(ctx)
}

// ListByClub usa el índice club_book.
func (s *Service) ListByClub(ctx context.Context, clubID string) ([]Book, error) {
	ids, err := s.edges.RightsOf(ctx, memberships.KindClubBook, clubID)
	if err != nil {
		return nil, err
	}
	return s.ListByIDs(ctx, ids)
}

func (s *Service) ListByIDs(ctx context.Context, ids []string) ([]Book, error) {
	if len(ids) == 0 {
		return []Book{}, nil
	}
	items, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Book, len(items))
	for _, b := range items {
		byID[b.ID] = b
	}
	out := make([]Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

type UpdateInput struct {
	Title       *string
	Author      *string
	Description *string
	Pages       *int
	Cover       *string
	PreviewLink *string
	StartDate   *time.Time
	EndDate     *time.Time
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Book, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return Book{}, err
	}

	if in.Title != nil {
		b.Title = strings.TrimSpace(*in.Title)
	}
	if in.Author != nil {
		b.Author = strings.TrimSpace(*in.Author)
	}
	if in.Description != nil {
		b.Description = strings.TrimSpace(*in.Description)
	}
	if in.Pages != nil {
		b.Pages = *in.Pages
	}
	if in.Cover != nil {
		b.Cover = strings.TrimSpace(*in.Cover)
	}
	if in.PreviewLink != nil {
		b.PreviewLink = strings.TrimSpace(*in.PreviewLink)
	}
	if in.StartDate != nil {
		b.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		b.EndDate = *in.EndDate
	}
	if err := validateBook(b); err != nil {
		return Book{}, err
	}
	b.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, b); err != nil {
		return Book{}, notFound(err, "book")
	}
	return b, nil
}

// MoveToClub reasigna el libro: suelta la arista vieja y crea la nueva.
func (s *Service) MoveToClub(ctx context.Context, bookID, clubID string) error {
	b, err := s.GetByID(ctx, bookID)
	if err != nil {
		return err
	}
	if b.ClubID == clubID {
		return s.edges.Link(ctx, memberships.KindClubBook, clubID, b.ID)
	}
	if err := s.edges.Detach(ctx, memberships.KindClubBook, memberships.SideRight, b.ID); err != nil {
		return err
	}
	b.ClubID = clubID
	b.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, b); err != nil {
		return notFound(err, "book")
	}
	return s.edges.Link(ctx, memberships.KindClubBook, clubID, b.ID)
}

// Delete suelta el libro de su club, borra sus lecturas y el libro.
func (s *Service) Delete(ctx context.Context, id string) error {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.edges.Detach(ctx, memberships.KindClubBook, memberships.SideRight, b.ID); err != nil {
		return err
	}
	if err := s.readings.DeleteReadingsByBook(ctx, b.ID); err != nil {
		return err
	}
	return notFound(s.repo.Delete(ctx, b.ID), "book")
}

func validateBook(b Book) error {
	switch {
	case b.Title == "":
		return apperr.Invalid("title is required")
	case b.Author == "":
		return apperr.Invalid("author is required")
	case b.ClubID == "":
		return apperr.Invalid("clubId is required")
	case b.StartDate.IsZero() || b.EndDate.IsZero():
		return apperr.Invalid("startDate and endDate are required")
	case b.EndDate.Before(b.StartDate):
		return apperr.Invalid("endDate must not be before startDate")
	case b.Pages < 0:
		return apperr.Invalid("pages must not be negative")
	}
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.NotFound(what)
	}
	return err
}
