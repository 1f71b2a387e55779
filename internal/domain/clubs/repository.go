package clubs

import "context"

type Repository interface {
	Create(ctx context.Context, c Club) error
	GetByID(ctx context.Context, id string) (Club, error)
	List(ctx context.Context) ([]Club, error)
	ListByIDs(ctx context.Context, ids []string) ([]Club, error)
	Update(ctx context.Context, c Club) error
	Delete(ctx context.Context, id string) error
}
