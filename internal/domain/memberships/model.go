package memberships

import "time"

// Kind identifica una relación muchos-a-muchos. El lado izquierdo va primero
// en el nombre (user_pet: left=user, right=pet).
type Kind string

const (
	KindUserPet   Kind = "user_pet"
	KindUserGroup Kind = "user_group"
	KindUserClub  Kind = "user_club"
	KindPetGroup  Kind = "pet_group"
	KindClubBook  Kind = "club_book"
)

func (k Kind) Valid() bool {
	switch k {
	case KindUserPet, KindUserGroup, KindUserClub, KindPetGroup, KindClubBook:
		return true
	default:
		return false
	}
}

type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Edge es una arista bidireccional: una sola fila, indexada por ambos lados.
type Edge struct {
	Kind    Kind
	LeftID  string
	RightID string

	CreatedAt time.Time
}
