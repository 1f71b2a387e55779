package users_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	mem "pet-care-hub/internal/adapters/storage/memory"
	"pet-care-hub/internal/domain/users"
	"pet-care-hub/internal/platform/apperr"

	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T) (*users.Service, users.Repository) {
	t.Helper()
	repo := mem.NewUserRepo()
	svc := users.NewService(repo)
	svc.SetHashCost(bcrypt.MinCost)
	return svc, repo
}

func mustSignup(t *testing.T, svc *users.Service, email, name string) users.User {
	t.Helper()
	u, err := svc.Signup(context.Background(), users.SignupInput{Email: email, Password: "secret", Name: name})
	if err != nil {
		t.Fatalf("Signup(%s): %v", email, err)
	}
	return u
}

func TestService_Signup(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	u := mustSignup(t, svc, "  Dana@Example.com ", "Dana")
	if u.ID == "" {
		t.Fatalf("expected store-assigned id")
	}
	if u.Email != "dana@example.com" {
		t.Fatalf("email should be normalized, got %q", u.Email)
	}
	if u.PasswordHash == "secret" {
		t.Fatalf("password must be hashed")
	}

	_, err := svc.Signup(ctx, users.SignupInput{Email: "DANA@example.com", Password: "x", Name: "Other"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}

	_, err = svc.Signup(ctx, users.SignupInput{Email: "no-name@example.com", Password: "x"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error on missing name, got %v", err)
	}

	_, err = svc.Signup(ctx, users.SignupInput{Email: "not-an-email", Password: "x", Name: "N"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error on bad email, got %v", err)
	}
}

func TestService_Authenticate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	u := mustSignup(t, svc, "a@example.com", "Avi")

	got, err := svc.Authenticate(ctx, "A@example.com", "secret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("wrong user: %s", got.ID)
	}

	if _, err := svc.Authenticate(ctx, "a@example.com", "wrong"); !errors.Is(err, users.ErrBadCredentials) {
		t.Fatalf("expected bad credentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ghost@example.com", "secret"); !errors.Is(err, users.ErrBadCredentials) {
		t.Fatalf("unknown email should look like bad credentials, got %v", err)
	}
}

func TestService_Search_CaseInsensitiveSubstring(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	mustSignup(t, svc, "menahem@example.com", "Menahem")
	mustSignup(t, svc, "ruth@example.com", "Ruth")
	mustSignup(t, svc, "omen@mail.com", "Yael")

	got, err := svc.Search(ctx, "men")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected Menahem (name) and Yael (email), got %+v", got)
	}
	if got[0].Name != "Menahem" || got[1].Name != "Yael" {
		t.Fatalf("unexpected order/content: %+v", got)
	}

	empty, _ := svc.Search(ctx, "   ")
	if len(empty) != 0 {
		t.Fatalf("blank query should return nothing, got %+v", empty)
	}
}

func TestService_Search_ReturnsEveryMatch(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		mustSignup(t, svc, fmt.Sprintf("menahem%02d@x.com", i), fmt.Sprintf("Menahem %02d", i))
	}
	mustSignup(t, svc, "ruth@example.com", "Ruth")

	got, err := svc.Search(ctx, "men")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 25 {
		t.Fatalf("expected all 25 matches, got %d", len(got))
	}
}

func TestService_Summaries_SkipsOrphans(t *testing.T) {
	svc, _ := newService(t)
	a := mustSignup(t, svc, "a@example.com", "A")
	b := mustSignup(t, svc, "b@example.com", "B")

	got, err := svc.Summaries(context.Background(), []string{b.ID, "gone", a.ID})
	if err != nil {
		t.Fatalf("Summaries: %v", err)
	}
	if len(got) != 2 || got[0].ID != b.ID || got[1].ID != a.ID {
		t.Fatalf("expected [b a], got %+v", got)
	}
}

func TestService_UpdateProfile(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	u := mustSignup(t, svc, "a@example.com", "A")

	if _, err := svc.UpdateProfile(ctx, u.ID, users.UpdateProfileInput{}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error when nothing to update, got %v", err)
	}

	name, pass := "Alma", "new-secret"
	got, err := svc.UpdateProfile(ctx, u.ID, users.UpdateProfileInput{Name: &name, Password: &pass})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.Name != "Alma" {
		t.Fatalf("name not updated: %q", got.Name)
	}
	if _, err := svc.Authenticate(ctx, "a@example.com", "new-secret"); err != nil {
		t.Fatalf("new password should work: %v", err)
	}

	if _, err := svc.UpdateProfile(ctx, "ghost", users.UpdateProfileInput{Name: &name}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_RefreshTokenReuseClearsAll(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	u := mustSignup(t, svc, "a@example.com", "A")

	_ = svc.AddRefreshToken(ctx, u.ID, "t1")
	_ = svc.AddRefreshToken(ctx, u.ID, "t2")

	if err := svc.RotateRefreshToken(ctx, u.ID, "t1", "t1b"); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	got, _ := repo.GetByID(ctx, u.ID)
	if len(got.RefreshTokens) != 2 || got.RefreshTokens[0] != "t1b" {
		t.Fatalf("expected rotated token, got %v", got.RefreshTokens)
	}

	// t1 ya se usó: reuso => se borran todas las sesiones
	if err := svc.RotateRefreshToken(ctx, u.ID, "t1", "t1c"); !errors.Is(err, users.ErrRefreshTokenUnknown) {
		t.Fatalf("expected ErrRefreshTokenUnknown, got %v", err)
	}
	got, _ = repo.GetByID(ctx, u.ID)
	if len(got.RefreshTokens) != 0 {
		t.Fatalf("all tokens should be cleared, got %v", got.RefreshTokens)
	}
}

func TestService_RevokeRefreshToken(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	u := mustSignup(t, svc, "a@example.com", "A")

	_ = svc.AddRefreshToken(ctx, u.ID, "t1")
	_ = svc.AddRefreshToken(ctx, u.ID, "t2")

	if err := svc.RevokeRefreshToken(ctx, u.ID, "t1"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	got, _ := repo.GetByID(ctx, u.ID)
	if len(got.RefreshTokens) != 1 || got.RefreshTokens[0] != "t2" {
		t.Fatalf("expected only t2 left, got %v", got.RefreshTokens)
	}

	if err := svc.RevokeRefreshToken(ctx, u.ID, "nope"); !errors.Is(err, users.ErrRefreshTokenUnknown) {
		t.Fatalf("expected ErrRefreshTokenUnknown, got %v", err)
	}
	got, _ = repo.GetByID(ctx, u.ID)
	if len(got.RefreshTokens) != 0 {
		t.Fatalf("unknown token must clear all sessions, got %v", got.RefreshTokens)
	}
}
