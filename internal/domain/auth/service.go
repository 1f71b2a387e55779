package auth

import (
	"context"
	"errors"
	"strings"

	"pet-care-hub/internal/domain/users"
	"pet-care-hub/internal/platform/apperr"
	authport "pet-care-hub/internal/ports/auth"
)

// Session es lo que recibe el cliente al loguearse o refrescar.
type Session struct {
	UserID       string `json:"userId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Service struct {
	users  *users.Service
	tokens authport.TokenIssuer
}

func NewService(usersSvc *users.Service, tokens authport.TokenIssuer) *Service {
	return &Service{users: usersSvc, tokens: tokens}
}

func (s *Service) Signup(ctx context.Context, in users.SignupInput) (users.User, error) {
	return s.users.Signup(ctx, in)
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return Session{}, err
	}

	sess, err := s.issue(u.ID)
	if err != nil {
		return Session{}, err
	}
	if err := s.users.AddRefreshToken(ctx, u.ID, sess.RefreshToken); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Refresh rota el refresh token. Un token válido pero no registrado se
// considera reusado: el usuario pierde todas sus sesiones.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return Session{}, apperr.ErrUnauthorized
	}

	claims, err := s.tokens.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		return Session{}, apperr.Wrapf(apperr.ErrForbidden, "refresh: %v", err)
	}

	sess, err := s.issue(claims.UserID)
	if err != nil {
		return Session{}, err
	}

	if err := s.users.RotateRefreshToken(ctx, claims.UserID, refreshToken, sess.RefreshToken); err != nil {
		return Session{}, mapTokenErr(err)
	}
	return sess, nil
}

// Logout borra el refresh token del usuario autenticado.
func (s *Service) Logout(ctx context.Context, userID, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return apperr.ErrUnauthorized
	}

	claims, err := s.tokens.VerifyRefresh(ctx, refreshToken)
	if err != nil || claims.UserID != userID {
		return apperr.ErrForbidden
	}

	if err := s.users.RevokeRefreshToken(ctx, userID, refreshToken); err != nil {
		return mapTokenErr(err)
	}
	return nil
}

func (s *Service) issue(userID string) (Session, error) {
	access, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return Session{}, err
	}
	refresh, err := s.tokens.IssueRefresh(userID)
	if err != nil {
		return Session{}, err
	}
	return Session{UserID: userID, AccessToken: access, RefreshToken: refresh}, nil
}

func mapTokenErr(err error) error {
	switch {
	case errors.Is(err, users.ErrRefreshTokenUnknown):
		return apperr.Wrapf(apperr.ErrForbidden, "refresh token reuse")
	case errors.Is(err, apperr.ErrNotFound):
		// usuario borrado con token vivo
		return apperr.ErrForbidden
	default:
		return err
	}
}
