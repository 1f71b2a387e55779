package memberships

import (
	"context"
	"strings"
	"time"

	"pet-care-hub/internal/platform/apperr"
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// Link agrega la arista (left, right). Repetir el link no cambia nada.
func (s *Service) Link(ctx context.Context, kind Kind, leftID, rightID string) error {
	return s.LinkAll(ctx, kind, []string{leftID}, []string{rightID})
}

// LinkAll agrega el producto cartesiano lefts x rights en una sola operación del store.
func (s *Service) LinkAll(ctx context.Context, kind Kind, leftIDs, rightIDs []string) error {
	edges, err := s.edges(kind, leftIDs, rightIDs)
	if err != nil {
		return err
	}
	if len(edges) == 0 {
		return nil
	}
	return s.store.Link(ctx, edges...)
}

func (s *Service) Unlink(ctx context.Context, kind Kind, leftID, rightID string) error {
	return s.UnlinkAll(ctx, kind, []string{leftID}, []string{rightID})
}

func (s *Service) UnlinkAll(ctx context.Context, kind Kind, leftIDs, rightIDs []string) error {
	edges, err := s.edges(kind, leftIDs, rightIDs)
	if err != nil {
		return err
	}
	if len(edges) == 0 {
		return nil
	}
	return s.store.Unlink(ctx, edges...)
}

// Detach elimina todas las aristas de kind donde id aparece en side.
// Se usa al borrar una entidad.
func (s *Service) Detach(ctx context.Context, kind Kind, side Side, id string) error {
	if !kind.Valid() {
		return apperr.Invalid("unknown relation kind")
	}
	if side != SideLeft && side != SideRight {
		return apperr.Invalid("unknown relation side")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.Invalid("id is required")
	}
	return s.store.UnlinkAll(ctx, kind, side, id)
}

func (s *Service) Linked(ctx context.Context, kind Kind, leftID, rightID string) (bool, error) {
	if !kind.Valid() {
		return false, apperr.Invalid("unknown relation kind")
	}
	return s.store.Has(ctx, Edge{Kind: kind, LeftID: strings.TrimSpace(leftID), RightID: strings.TrimSpace(rightID)})
}

// RightsOf devuelve los IDs del lado derecho conectados a leftID
// (ej: KindUserPet + userID => pets del usuario).
func (s *Service) RightsOf(ctx context.Context, kind Kind, leftID string) ([]string, error) {
	if !kind.Valid() {
		return nil, apperr.Invalid("unknown relation kind")
	}
	leftID = strings.TrimSpace(leftID)
	if leftID == "" {
		return nil, nil
	}
	return s.store.Rights(ctx, kind, leftID)
}

// LeftsOf es el índice inverso de RightsOf.
func (s *Service) LeftsOf(ctx context.Context, kind Kind, rightID string) ([]string, error) {
	if !kind.Valid() {
		return nil, apperr.Invalid("unknown relation kind")
	}
	rightID = strings.TrimSpace(rightID)
	if rightID == "" {
		return nil, nil
	}
	return s.store.Lefts(ctx, kind, rightID)
}

func (s *Service) edges(kind Kind, leftIDs, rightIDs []string) ([]Edge, error) {
	if !kind.Valid() {
		return nil, apperr.Invalid("unknown relation kind")
	}

	lefts, err := normalizeIDs(leftIDs)
	if err != nil {
		return nil, err
	}
	rights, err := normalizeIDs(rightIDs)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]Edge, 0, len(lefts)*len(rights))
	for _, l := range lefts {
		for _, r := range rights {
			out = append(out, Edge{Kind: kind, LeftID: l, RightID: r, CreatedAt: now})
		}
	}
	return out, nil
}

// normalizeIDs recorta, rechaza vacíos y deduplica manteniendo el orden.
func normalizeIDs(ids []string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			return nil, apperr.Invalid("id is required")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
