package pets

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	List(ctx context.Context) ([]Pet, error)
	ListByIDs(ctx context.Context, ids []string) ([]Pet, error)
	// Update reemplaza los campos escalares (no toca tasks/treatments).
	Update(ctx context.Context, p Pet) error

	AddTask(ctx context.Context, petID string, t Task) error
	// UpdateTask escribe título, descripción y fechas. No toca is_completed;
	// notified_at solo se limpia con resetNotified.
	UpdateTask(ctx context.Context, petID string, t Task, resetNotified bool) error
	SetTaskCompleted(ctx context.Context, petID, taskID string, completed bool) error
	DeleteTask(ctx context.Context, petID, taskID string) error
	MarkTaskNotified(ctx context.Context, petID, taskID string, at time.Time) error

	AddTreatment(ctx context.Context, petID string, t Treatment) error
	DeleteTreatment(ctx context.Context, petID, treatmentID string) error

	// ListTasksDue: no completadas, no notificadas, from <= DateFrom < to.
	ListTasksDue(ctx context.Context, from, to time.Time) ([]DueTask, error)
}
