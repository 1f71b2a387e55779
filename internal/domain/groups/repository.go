package groups

import "context"

type Repository interface {
	Create(ctx context.Context, g Group) error
	GetByID(ctx context.Context, id string) (Group, error)
	List(ctx context.Context) ([]Group, error)
	ListByIDs(ctx context.Context, ids []string) ([]Group, error)
	Update(ctx context.Context, g Group) error
	Delete(ctx context.Context, id string) error
}
