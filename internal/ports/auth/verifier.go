package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer emite y valida el par access/refresh de una sesión.
type TokenIssuer interface {
	AuthVerifier

	IssueAccess(userID string) (string, error)
	IssueRefresh(userID string) (string, error)
	VerifyRefresh(ctx context.Context, token string) (Claims, error)
}
