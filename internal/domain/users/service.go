package users

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"pet-care-hub/internal/platform/apperr"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken          = apperr.Conflict("email already exists")
	ErrBadCredentials      = apperr.Invalid("bad username or password")
	ErrNothingToUpdate     = apperr.Invalid("a parameter is missing, please try again")
	ErrRefreshTokenUnknown = errors.New("refresh token not registered")
)

type Service struct {
	repo     Repository
	now      func() time.Time
	hashCost int
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (User, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	if email == "" || in.Password == "" || name == "" {
		return User{}, apperr.Invalid("missing name/email/password")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, apperr.Invalid("email is not valid")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return User{}, err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return User{}, err
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Authenticate no distingue "no existe" de "password incorrecta".
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return User{}, ErrBadCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return User{}, ErrBadCredentials
		}
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrBadCredentials
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, apperr.Invalid("user id is required")
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return User{}, apperr.NotFound("user")
		}
		return User{}, err
	}
	return u, nil
}

// Exists se usa antes de crear aristas hacia usuarios.
func (s *Service) Exists(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Summaries resuelve IDs a (id, name, email), en el orden recibido.
// IDs huérfanos se omiten.
func (s *Service) Summaries(ctx context.Context, ids []string) ([]Summary, error) {
	if len(ids) == 0 {
		return []Summary{}, nil
	}
	items, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]User, len(items))
	for _, u := range items {
		byID[u.ID] = u
	}

	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u.Summary())
		}
	}
	return out, nil
}

func (s *Service) Search(ctx context.Context, q string) ([]Summary, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []Summary{}, nil
	}

	items, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(items))
	for _, u := range items {
		out = append(out, u.Summary())
	}
	return out, nil
}

type UpdateProfileInput struct {
	Name     *string
	Password *string
}

func (s *Service) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (User, error) {
	name := ""
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	password := ""
	if in.Password != nil {
		password = *in.Password
	}
	if name == "" && password == "" {
		return User{}, ErrNothingToUpdate
	}

	u, err := s.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if name != "" {
		u.Name = name
	}
	if password != "" {
		hash, err := s.hash(password)
		if err != nil {
			return User{}, err
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = s.now()

	if err := s.repo.UpdateProfile(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) AddRefreshToken(ctx context.Context, userID, token string) error {
	return s.repo.AddRefreshToken(ctx, userID, token)
}

// RotateRefreshToken reemplaza oldToken por newToken.
// Si oldToken no estaba registrado se asume robo: se invalidan todas las sesiones.
func (s *Service) RotateRefreshToken(ctx context.Context, userID, oldToken, newToken string) error {
	ok, err := s.repo.ReplaceRefreshToken(ctx, userID, oldToken, newToken)
	if err != nil {
		return err
	}
	if !ok {
		if err := s.repo.ClearRefreshTokens(ctx, userID); err != nil {
			return err
		}
		return ErrRefreshTokenUnknown
	}
	return nil
}

// RevokeRefreshToken es el logout. Mismo criterio que RotateRefreshToken ante token desconocido.
func (s *Service) RevokeRefreshToken(ctx context.Context, userID, token string) error {
	ok, err := s.repo.RemoveRefreshToken(ctx, userID, token)
	if err != nil {
		return err
	}
	if !ok {
		if err := s.repo.ClearRefreshTokens(ctx, userID); err != nil {
			return err
		}
		return ErrRefreshTokenUnknown
	}
	return nil
}

func (s *Service) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperr.Invalid("password is too long")
		}
		return "", err
	}
	return string(b), nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *Service) ClearRefreshTokens(ctx context.Context, userID string) error {
	return s.repo.ClearRefreshTokens(ctx, userID)
}
