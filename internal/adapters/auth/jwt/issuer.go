// Package jwt implementa auth.TokenIssuer con JWT HS256 (golang-jwt).
package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-care-hub/internal/ports/auth"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenEmpty      = errors.New("token is empty")
	ErrNotConfigured   = errors.New("token secrets not configured")
	ErrClaimsNoSubject = errors.New("token has no subject")
)

type Options struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// Issuer firma y verifica tokens de acceso y de refresh con secretos distintos.
type Issuer struct {
	access     []byte
	refresh    []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	now        func() time.Time
}

var _ auth.TokenIssuer = (*Issuer)(nil)

func NewIssuer(opts Options) (*Issuer, error) {
	if strings.TrimSpace(opts.AccessSecret) == "" || strings.TrimSpace(opts.RefreshSecret) == "" {
		return nil, ErrNotConfigured
	}
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 24 * time.Hour
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = 30 * 24 * time.Hour
	}
	return &Issuer{
		access:     []byte(opts.AccessSecret),
		refresh:    []byte(opts.RefreshSecret),
		accessTTL:  opts.AccessTTL,
		refreshTTL: opts.RefreshTTL,
		issuer:     opts.Issuer,
		now:        time.Now,
	}, nil
}

func (i *Issuer) IssueAccess(userID string) (string, error) {
	return i.sign(userID, i.access, i.accessTTL)
}

func (i *Issuer) IssueRefresh(userID string) (string, error) {
	return i.sign(userID, i.refresh, i.refreshTTL)
}

// Verify valida un access token.
func (i *Issuer) Verify(ctx context.Context, token string) (auth.Claims, error) {
	return i.parse(token, i.access)
}

func (i *Issuer) VerifyRefresh(ctx context.Context, token string) (auth.Claims, error) {
	return i.parse(token, i.refresh)
}

func (i *Issuer) sign(userID string, secret []byte, ttl time.Duration) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", ErrClaimsNoSubject
	}
	now := i.now()
	claims := gojwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    i.issuer,
		ID:        uuid.NewString(),
		IssuedAt:  gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (i *Issuer) parse(token string, secret []byte) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	parsed, err := gojwt.ParseWithClaims(
		token, new(gojwt.RegisteredClaims),
		func(*gojwt.Token) (any, error) { return secret, nil },
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Name}),
		gojwt.WithTimeFunc(i.now),
		gojwt.WithExpirationRequired(),
	)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("verify token: %w", err)
	}

	rc, ok := parsed.Claims.(*gojwt.RegisteredClaims)
	if !ok || strings.TrimSpace(rc.Subject) == "" {
		return auth.Claims{}, ErrClaimsNoSubject
	}
	return auth.Claims{UserID: rc.Subject, Token: token}, nil
}
