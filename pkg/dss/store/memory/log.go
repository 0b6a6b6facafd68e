package memory

import (
	"context"
	"time"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/filter"
)

// AppendLog records one journal entry.
func (s *Store) AppendLog(ctx context.Context, entry *dss.Log) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := clone(*entry)
	stored.ID = s.nextLogID
	stored.CreatedAt = time.Now()
	s.nextLogID++
	s.logs = append(s.logs, stored)

	entry.ID = stored.ID
	entry.CreatedAt = stored.CreatedAt
	return nil
}

// ListLogs returns journal entries matching pred.
func (s *Store) ListLogs(ctx context.Context, pred filter.Predicate) ([]*dss.Log, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*dss.Log
	for _, l := range s.logs {
		ok, err := matches(pred, filter.LogFields, toRecord(l))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, clone(*l))
		}
	}
	return out, nil
}

// DeleteLogs deletes journal entries matching pred and returns the count removed.
func (s *Store) DeleteLogs(ctx context.Context, pred filter.Predicate) (int, error) {
	if pred == nil {
		return 0, dss.NewInvalid("DeleteLogs requires a predicate; use an explicit always-true filter to delete everything")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.logs[:0]
	removed := 0
	for _, l := range s.logs {
		ok, err := matches(pred, filter.LogFields, toRecord(l))
		if err != nil {
			return 0, err
		}
		if ok {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	s.logs = kept
	return removed, nil
}
