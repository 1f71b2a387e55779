package clubs

import (
	"time"

	"pet-care-hub/internal/domain/books"
	"pet-care-hub/internal/domain/users"
)

type Club struct {
	ID          string
	Name        string
	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type View struct {
	Club    Club
	Members []users.Summary
	Books   []books.Book
}
