package users

import "context"

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ListByIDs(ctx context.Context, ids []string) ([]User, error)
	// Search: substring case-insensitive sobre name o email.
	Search(ctx context.Context, q string) ([]User, error)
	UpdateProfile(ctx context.Context, u User) error

	AddRefreshToken(ctx context.Context, userID, token string) error
	// ReplaceRefreshToken devuelve false si oldToken no estaba registrado.
	ReplaceRefreshToken(ctx context.Context, userID, oldToken, newToken string) (bool, error)
	RemoveRefreshToken(ctx context.Context, userID, token string) (bool, error)
	ClearRefreshTokens(ctx context.Context, userID string) error
}
