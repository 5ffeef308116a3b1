package logistics

import (
	"context"
	"strings"

	"github.com/xelth-com/swiftlog/internal/models"
)

// slot selects one collection of the state
type slot[T any] func(*Snapshot) *[]T

type mutation[T any] func(T) (T, map[string]interface{}, error)

// insertRow writes row remotely and appends it to the collection
func insertRow[T any](ctx context.Context, s *Service, op, table string, sl slot[T], row T) error {
	return insertRows(ctx, s, op, table, sl, []T{row}, nil)
}

func insertRows[T any](ctx context.Context, s *Service, op, table string, sl slot[T], rows []T, ids []string) error {
	if err := s.store.Insert(ctx, table, &rows); err != nil {
		return s.syncFailed(op, ids, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cur := *sl(&s.state)
	next := make([]T, 0, len(cur)+len(rows))
	next = append(next, cur...)
	next = append(next, rows...)
	*sl(&s.state) = next
	return nil
}

// removeRows deletes the ids present in the collection
func removeRows[T any](ctx context.Context, s *Service, op, table, field string, ids []string, sl slot[T], key func(T) string) error {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return invalid("nothing selected")
	}

	s.mu.RLock()
	known := make(map[string]struct{})
	for _, row := range *sl(&s.state) {
		known[key(row)] = struct{}{}
	}
	s.mu.RUnlock()

	present := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := known[id]; ok {
			present = append(present, id)
		}
	}
	if len(present) == 0 {
		return notFound(table, strings.Join(ids, ","))
	}

	if err := s.store.DeleteByIDs(ctx, table, field, present); err != nil {
		return s.syncFailed(op, present, err)
	}

	drop := make(map[string]struct{}, len(present))
	for _, id := range present {
		drop[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := *sl(&s.state)
	next := make([]T, 0, len(cur))
	for _, row := range cur {
		if _, ok := drop[key(row)]; !ok {
			next = append(next, row)
		}
	}
	*sl(&s.state) = next
	return nil
}

// updateRows plans every change against the current state, writes each one
// remotely and then swaps in only the ones that succeeded. Failed ids are
// reported in a SyncError next to the applied rows.
func updateRows[T any](ctx context.Context, s *Service, op, table, field string, ids []string, sl slot[T], key func(T) string, mutate mutation[T]) ([]T, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, invalid("nothing selected")
	}

	s.mu.RLock()
	current := make(map[string]T)
	for _, row := range *sl(&s.state) {
		current[key(row)] = row
	}
	s.mu.RUnlock()

	planned := make([]T, len(ids))
	patches := make([]map[string]interface{}, len(ids))
	for i, id := range ids {
		row, ok := current[id]
		if !ok {
			return nil, notFound(table, id)
		}
		next, patch, err := mutate(row)
		if err != nil {
			return nil, err
		}
		planned[i] = next
		patches[i] = patch
	}

	applied := make(map[string]T, len(ids))
	results := make([]T, 0, len(ids))
	var failed []string
	var firstErr error
	for i, id := range ids {
		if err := s.store.UpdateByID(ctx, table, field, id, patches[i]); err != nil {
			failed = append(failed, id)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		applied[id] = planned[i]
		results = append(results, planned[i])
	}

	if len(applied) > 0 {
		s.mu.Lock()
		cur := *sl(&s.state)
		next := make([]T, len(cur))
		for i, row := range cur {
			if a, ok := applied[key(row)]; ok {
				next[i] = a
			} else {
				next[i] = row
			}
		}
		*sl(&s.state) = next
		s.mu.Unlock()
	}

	if len(failed) > 0 {
		return results, s.syncFailed(op, failed, firstErr)
	}
	return results, nil
}

func deliveriesOf(sn *Snapshot) *[]models.Delivery { return &sn.Deliveries }

func deliveryID(d models.Delivery) string { return d.ID }
