package notifications

import (
	"context"
	"time"

	"pet-care-hub/internal/domain/memberships"
	"pet-care-hub/internal/domain/pets"
	"pet-care-hub/internal/domain/users"
)

// Finder encuentra tareas abiertas con from <= dateFrom < to, ya con destinatarios.
type Finder interface {
	FindDue(ctx context.Context, from, to time.Time) ([]Job, error)
}

// Marker deja constancia de que la tarea ya fue avisada.
type Marker interface {
	MarkNotified(ctx context.Context, petID, taskID string, at time.Time) error
}

// ServiceFinder arma los jobs con los services de dominio. Sirve para
// cualquier store; Postgres tiene además una versión con joins.
type ServiceFinder struct {
	pets  *pets.Service
	users *users.Service
	edges *memberships.Service
}

func NewServiceFinder(petsSvc *pets.Service, usersSvc *users.Service, edges *memberships.Service) *ServiceFinder {
	return &ServiceFinder{pets: petsSvc, users: usersSvc, edges: edges}
}

func (f *ServiceFinder) FindDue(ctx context.Context, from, to time.Time) ([]Job, error) {
	due, err := f.pets.ListTasksDue(ctx, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]Job, 0, len(due))
	for _, d := range due {
		direct, err := f.emailsOf(ctx, memberships.KindUserPet, d.PetID)
		if err != nil {
			return nil, err
		}

		groupIDs, err := f.edges.RightsOf(ctx, memberships.KindPetGroup, d.PetID)
		if err != nil {
			return nil, err
		}
		byGroup := make([]GroupEmails, 0, len(groupIDs))
		for _, gid := range groupIDs {
			emails, err := f.emailsOf(ctx, memberships.KindUserGroup, gid)
			if err != nil {
				return nil, err
			}
			byGroup = append(byGroup, GroupEmails{GroupID: gid, Emails: emails})
		}

		out = append(out, Job{
			PetID:        d.PetID,
			PetName:      d.PetName,
			TaskID:       d.Task.ID,
			Title:        d.Task.Title,
			Description:  d.Task.Description,
			DateFrom:     d.Task.DateFrom,
			DirectEmails: direct,
			GroupEmails:  byGroup,
		})
	}
	return out, nil
}

func (f *ServiceFinder) MarkNotified(ctx context.Context, petID, taskID string, at time.Time) error {
	return f.pets.MarkTaskNotified(ctx, petID, taskID, at)
}

// emailsOf: usuarios del lado izquierdo de (kind, rightID).
func (f *ServiceFinder) emailsOf(ctx context.Context, kind memberships.Kind, rightID string) ([]string, error) {
	ids, err := f.edges.LeftsOf(ctx, kind, rightID)
	if err != nil {
		return nil, err
	}
	sums, err := f.users.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(sums))
	for _, s := range sums {
		out = append(out, s.Email)
	}
	return out, nil
}
