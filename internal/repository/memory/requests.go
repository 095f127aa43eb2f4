package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
)

// requests implements approval.RequestStore over one variant's map.
// table is read on every call so a restored snapshot is picked up.
type requests[T any] struct {
	store    *Store
	variant  approval.Variant
	table    func() map[string]T
	base     func(*T) *approval.Request
	notFound error
}

func (r requests[T]) create(ctx context.Context, item T) T {
	unlock := r.store.lock(ctx)
	defer unlock()

	now := r.store.now()
	b := r.base(&item)
	b.ID = newID()
	b.Variant = r.variant
	b.ResolvedBy = nil
	b.ResolvedAt = nil
	b.CreatedAt = now
	b.UpdatedAt = now

	r.table()[b.ID] = item
	return item
}

func (r requests[T]) get(ctx context.Context, id string) (T, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	item, ok := r.table()[id]
	if !ok {
		var zero T
		return zero, r.notFound
	}
	return item, nil
}

// GetForDecision implements approval.RequestStore.
func (r requests[T]) GetForDecision(ctx context.Context, id string) (approval.Request, error) {
	item, err := r.get(ctx, id)
	if err != nil {
		return approval.Request{}, err
	}
	return *r.base(&item), nil
}

// SaveDecision implements approval.RequestStore.
func (r requests[T]) SaveDecision(ctx context.Context, req approval.Request) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	item, ok := r.table()[req.ID]
	if !ok {
		return r.notFound
	}
	b := r.base(&item)
	b.Status = req.Status
	b.Notes = req.Notes
	b.ResolvedBy = req.ResolvedBy
	b.ResolvedAt = req.ResolvedAt
	b.UpdatedAt = r.store.now()

	r.table()[req.ID] = item
	return nil
}

// ListByStatus implements approval.RequestStore.
func (r requests[T]) ListByStatus(ctx context.Context, statuses []approval.Status) ([]approval.Request, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	out := make([]approval.Request, 0)
	for _, item := range r.table() {
		b := r.base(&item)
		if slices.Contains(statuses, b.Status) {
			out = append(out, *b)
		}
	}
	slices.SortFunc(out, func(a, b approval.Request) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// listByWorker returns a worker's items newest first, paged like the SQL listing
func (r requests[T]) listByWorker(ctx context.Context, workerID string, filter approval.ListFilter) []T {
	unlock := r.store.lock(ctx)
	defer unlock()

	out := make([]T, 0)
	for _, item := range r.table() {
		b := r.base(&item)
		if b.WorkerID != workerID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		out = append(out, item)
	}
	slices.SortFunc(out, func(x, y T) int {
		a, b := r.base(&x), r.base(&y)
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := min(max(filter.Offset, 0), len(out))
	end := min(offset+limit, len(out))
	return out[offset:end]
}

func (r requests[T]) listRecent(ctx context.Context, limit int) []approval.Request {
	unlock := r.store.lock(ctx)
	defer unlock()

	out := make([]approval.Request, 0, len(r.table()))
	for _, item := range r.table() {
		out = append(out, *r.base(&item))
	}
	slices.SortFunc(out, func(a, b approval.Request) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r requests[T]) countByStatus(ctx context.Context) map[approval.Status]int64 {
	unlock := r.store.lock(ctx)
	defer unlock()

	counts := make(map[approval.Status]int64)
	for _, item := range r.table() {
		counts[r.base(&item).Status]++
	}
	return counts
}
