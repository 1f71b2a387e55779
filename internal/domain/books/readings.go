package books

import (
	"context"
	"strings"
	"time"

	"pet-care-hub/internal/platform/apperr"

	"github.com/google/uuid"
)

var ErrAlreadyReading = apperr.Conflict("already reading this book")

type StartReadingInput struct {
	StartDate *time.Time
}

// StartReading abre el registro de lectura del actor. Uno por (usuario, libro).
func (s *Service) StartReading(ctx context.Context, actorID, bookID string, in StartReadingInput) (Reading, error) {
	if strings.TrimSpace(actorID) == "" {
		return Reading{}, apperr.ErrUnauthorized
	}
	b, err := s.GetByID(ctx, bookID)
	if err != nil {
		return Reading{}, err
	}

	mine, err := s.readings.ListReadingsByUser(ctx, actorID)
	if err != nil {
		return Reading{}, err
	}
	for _, r := range mine {
		if r.BookID == b.ID {
			return Reading{}, ErrAlreadyReading
		}
	}

	now := s.now()
	start := now
	if in.StartDate != nil {
		start = *in.StartDate
	}
	r := Reading{
		ID:        uuid.NewString(),
		UserID:    actorID,
		BookID:    b.ID,
		StartDate: start,
		Progress:  []Progress{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.readings.CreateReading(ctx, r); err != nil {
		return Reading{}, err
	}
	return r, nil
}

func (s *Service) ListReadings(ctx context.Context, userID string) ([]Reading, error) {
	return s.readings.ListReadingsByUser(ctx, userID)
}

// AddProgress agrega un avance. Al llegar a 100 se cierra la lectura.
func (s *Service) AddProgress(ctx context.Context, actorID, readingID string, percentage int, comment string) (Reading, error) {
	if percentage < 0 || percentage > 100 {
		return Reading{}, apperr.Invalid("percentage must be between 0 and 100")
	}
	r, err := s.ownReading(ctx, actorID, readingID)
	if err != nil {
		return Reading{}, err
	}

	now := s.now()
	r.Progress = append(r.Progress, Progress{
		Percentage: percentage,
		Comment:    strings.TrimSpace(comment),
		At:         now,
	})
	if percentage == 100 && r.EndDate == nil {
		end := now
		r.EndDate = &end
	}
	r.UpdatedAt = now

	if err := s.readings.UpdateReading(ctx, r); err != nil {
		return Reading{}, notFound(err, "reading")
	}
	return r, nil
}

func (s *Service) SetReview(ctx context.Context, actorID, readingID string, rating int, description string) (Reading, error) {
	if rating < 1 || rating > 5 {
		return Reading{}, apperr.Invalid("rating must be between 1 and 5")
	}
	r, err := s.ownReading(ctx, actorID, readingID)
	if err != nil {
		return Reading{}, err
	}

	r.Review = &Review{Rating: rating, Description: strings.TrimSpace(description)}
	r.UpdatedAt = s.now()

	if err := s.readings.UpdateReading(ctx, r); err != nil {
		return Reading{}, notFound(err, "reading")
	}
	return r, nil
}

func (s *Service) ownReading(ctx context.Context, actorID, readingID string) (Reading, error) {
	r, err := s.readings.GetReading(ctx, strings.TrimSpace(readingID))
	if err != nil {
		return Reading{}, notFound(err, "reading")
	}
	if r.UserID != actorID {
		return Reading{}, apperr.ErrForbidden
	}
	return r, nil
}
