package memberships

import "context"

// Store mantiene el conjunto de aristas con dos índices (left->right, right->left).
// Link es idempotente; Unlink de una arista inexistente no es error.
type Store interface {
	Link(ctx context.Context, edges ...Edge) error
	Unlink(ctx context.Context, edges ...Edge) error
	UnlinkAll(ctx context.Context, kind Kind, side Side, id string) error

	Has(ctx context.Context, e Edge) (bool, error)
	Rights(ctx context.Context, kind Kind, leftID string) ([]string, error)
	Lefts(ctx context.Context, kind Kind, rightID string) ([]string, error)
}
