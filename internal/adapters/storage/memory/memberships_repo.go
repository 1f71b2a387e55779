package memory

import (
	"context"
	"sort"
	"sync"

	"pet-care-hub/internal/domain/memberships"
)

type idSet map[string]struct{}

// edgeRepo guarda cada arista en dos índices; put/del son los únicos que los tocan.
type edgeRepo struct {
	mu      sync.RWMutex
	byLeft  map[memberships.Kind]map[string]idSet
	byRight map[memberships.Kind]map[string]idSet
}

func NewEdgeRepo() memberships.Store {
	return &edgeRepo{
		byLeft:  make(map[memberships.Kind]map[string]idSet),
		byRight: make(map[memberships.Kind]map[string]idSet),
	}
}

func (r *edgeRepo) Link(ctx context.Context, edges ...memberships.Edge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range edges {
		r.put(e)
	}
	return nil
}

func (r *edgeRepo) Unlink(ctx context.Context, edges ...memberships.Edge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range edges {
		r.del(e)
	}
	return nil
}

func (r *edgeRepo) UnlinkAll(ctx context.Context, kind memberships.Kind, side memberships.Side, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch side {
	case memberships.SideLeft:
		for right := range r.byLeft[kind][id] {
			r.del(memberships.Edge{Kind: kind, LeftID: id, RightID: right})
		}
	case memberships.SideRight:
		for left := range r.byRight[kind][id] {
			r.del(memberships.Edge{Kind: kind, LeftID: left, RightID: id})
		}
	}
	return nil
}

func (r *edgeRepo) Has(ctx context.Context, e memberships.Edge) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byLeft[e.Kind][e.LeftID][e.RightID]
	return ok, nil
}

func (r *edgeRepo) Rights(ctx context.Context, kind memberships.Kind, leftID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedKeys(r.byLeft[kind][leftID]), nil
}

func (r *edgeRepo) Lefts(ctx context.Context, kind memberships.Kind, rightID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedKeys(r.byRight[kind][rightID]), nil
}

func (r *edgeRepo) put(e memberships.Edge) {
	add(r.byLeft, e.Kind, e.LeftID, e.RightID)
	add(r.byRight, e.Kind, e.RightID, e.LeftID)
}

func (r *edgeRepo) del(e memberships.Edge) {
	remove(r.byLeft, e.Kind, e.LeftID, e.RightID)
	remove(r.byRight, e.Kind, e.RightID, e.LeftID)
}

func add(idx map[memberships.Kind]map[string]idSet, kind memberships.Kind, from, to string) {
	byID, ok := idx[kind]
	if !ok {
		byID = make(map[string]idSet)
		idx[kind] = byID
	}
	set, ok := byID[from]
	if !ok {
		set = make(idSet)
		byID[from] = set
	}
	set[to] = struct{}{}
}

func remove(idx map[memberships.Kind]map[string]idSet, kind memberships.Kind, from, to string) {
	set := idx[kind][from]
	if set == nil {
		return
	}
	delete(set, to)
	if len(set) == 0 {
		delete(idx[kind], from)
	}
}

func sortedKeys(set idSet) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
