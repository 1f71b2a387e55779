package books

import "context"

type Repository interface {
	Create(ctx context.Context, b Book) error
	GetByID(ctx context.Context, id string) (Book, error)
	List(ctx context.Context) ([]Book, error)
	ListByIDs(ctx context.Context, ids []string) ([]Book, error)
	Update(ctx context.Context, b Book) error
	Delete(ctx context.Context, id string) error
}

type ReadingRepository interface {
	CreateReading(ctx context.Context, r Reading) error
	GetReading(ctx context.Context, id string) (Reading, error)
	ListReadingsByUser(ctx context.Context, userID string) ([]Reading, error)
	UpdateReading(ctx context.Context, r Reading) error
	DeleteReadingsByBook(ctx context.Context, bookID string) error
}
