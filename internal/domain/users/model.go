package users

import "time"

// User es la identidad de la app. Las relaciones (pets, groups, clubs)
// viven en memberships, no acá.
type User struct {
	ID    string
	Email string
	Name  string

	PasswordHash string

	// Refresh tokens vigentes (uno por sesión).
	RefreshTokens []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary es la proyección que se usa al "popular" miembros.
type Summary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Summary() Summary {
	return Summary{ID: u.ID, Name: u.Name, Email: u.Email}
}
