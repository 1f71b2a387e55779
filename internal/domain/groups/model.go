package groups

import (
	"time"

	"pet-care-hub/internal/domain/pets"
	"pet-care-hub/internal/domain/users"
)

// Group es solo un contenedor de relaciones: usuarios y mascotas.
type Group struct {
	ID          string
	Name        string
	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type View struct {
	Group   Group
	Members []users.Summary
	Pets    []pets.Pet
}
