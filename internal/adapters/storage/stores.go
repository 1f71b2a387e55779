package storage

import (
	"database/sql"

	"pet-care-hub/internal/adapters/storage/memory"
	"pet-care-hub/internal/adapters/storage/postgres"
	"pet-care-hub/internal/domain/books"
	"pet-care-hub/internal/domain/clubs"
	"pet-care-hub/internal/domain/groups"
	"pet-care-hub/internal/domain/memberships"
	"pet-care-hub/internal/domain/notifications"
	"pet-care-hub/internal/domain/pets"
	"pet-care-hub/internal/domain/users"
)

// Stores agrupa los repositorios de un backend.
type Stores struct {
	Users    users.Repository
	Pets     pets.Repository
	Groups   groups.Repository
	Clubs    clubs.Repository
	Books    books.Repository
	Readings books.ReadingRepository
	Edges    memberships.Store

	// DueTasks es opcional: si es nil el scanner arma los jobs con los services.
	DueTasks interface {
		notifications.Finder
		notifications.Marker
	}
}

func NewMemory() Stores {
	return Stores{
		Users:    memory.NewUserRepo(),
		Pets:     memory.NewPetRepo(),
		Groups:   memory.NewGroupRepo(),
		Clubs:    memory.NewClubRepo(),
		Books:    memory.NewBookRepo(),
		Readings: memory.NewReadingRepo(),
		Edges:    memory.NewEdgeRepo(),
	}
}

func NewPostgres(db *sql.DB) Stores {
	return Stores{
		Users:    postgres.NewUsersRepo(db),
		Pets:     postgres.NewPetsRepo(db),
		Groups:   postgres.NewGroupsRepo(db),
		Clubs:    postgres.NewClubsRepo(db),
		Books:    postgres.NewBooksRepo(db),
		Readings: postgres.NewReadingsRepo(db),
		Edges:    postgres.NewEdgesRepo(db),
		DueTasks: postgres.NewDueTasks(db),
	}
}
