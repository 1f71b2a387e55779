package pets

import (
	"time"

	"pet-care-hub/internal/domain/users"
)

// Pet es compartida por todos sus miembros (directos y vía grupos).
// Tasks y Treatments son hijos propios: no existen fuera de la mascota.
type Pet struct {
	ID string

	Name    string
	Species string
	Breed   string

	BirthDate *time.Time
	Height    float64
	Weight    float64
	ImgURL    string

	Tasks      []Task
	Treatments []Treatment

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Task es una tarea de cuidado con ventana [DateFrom, DateTo].
type Task struct {
	ID          string
	Title       string
	Description string
	DateFrom    time.Time
	DateTo      time.Time
	IsCompleted bool

	// NotifiedAt lo setea el scanner después de mandar el aviso.
	NotifiedAt *time.Time
}

type Treatment struct {
	ID          string
	Description string
	Date        time.Time
}

// GroupSummary es lo mínimo de un grupo que necesita la vista de mascota.
type GroupSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// View es la mascota "populada" con miembros y grupos.
type View struct {
	Pet     Pet
	Members []users.Summary
	Groups  []GroupSummary
}

// PetTasks agrupa tareas de una mascota (vistas /users/{id}/tasks).
type PetTasks struct {
	PetID   string
	PetName string
	Tasks   []Task
}

// DueTask es una tarea pendiente encontrada por una ventana de tiempo.
type DueTask struct {
	PetID   string
	PetName string
	Task    Task
}
