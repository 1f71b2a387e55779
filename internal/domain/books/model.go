package books

import "time"

// Book pertenece a un club (ClubID); la arista club_book es el índice inverso.
type Book struct {
	ID          string
	ClubID      string
	Title       string
	Author      string
	Description string
	Pages       int
	Cover       string
	PreviewLink string

	// Ventana de lectura del club.
	StartDate time.Time
	EndDate   time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reading es el registro de lectura de un usuario sobre un libro.
type Reading struct {
	ID        string
	UserID    string
	BookID    string
	StartDate time.Time
	EndDate   *time.Time

	Progress []Progress
	Review   *Review

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Progress struct {
	Percentage int       `json:"percentage"`
	Comment    string    `json:"comment,omitempty"`
	At         time.Time `json:"at"`
}

type Review struct {
	Rating      int    `json:"rating"`
	Description string `json:"description"`
}

// Percentage es el último avance registrado (0 si no hay).
func (r Reading) Percentage() int {
	if len(r.Progress) == 0 {
		return 0
	}
	return r.Progress[len(r.Progress)-1].Percentage
}
