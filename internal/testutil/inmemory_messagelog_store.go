package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/netbill/netbill/internal/domain/messagelog"
	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/types"
	"github.com/samber/lo"
)

// InMemoryMessageLogStore implements messagelog.Repository
type InMemoryMessageLogStore struct {
	*InMemoryStore[*messagelog.MessageLog]
}

func NewInMemoryMessageLogStore() *InMemoryMessageLogStore {
	return &InMemoryMessageLogStore{
		InMemoryStore: NewInMemoryStore[*messagelog.MessageLog](),
	}
}

func copyMessageLog(m *messagelog.MessageLog) *messagelog.MessageLog {
	if m == nil {
		return nil
	}
	copied := *m
	if m.UserID != nil {
		copied.UserID = lo.ToPtr(*m.UserID)
	}
	if m.BillID != nil {
		copied.BillID = lo.ToPtr(*m.BillID)
	}
	if m.WAMessageID != nil {
		copied.WAMessageID = lo.ToPtr(*m.WAMessageID)
	}
	return &copied
}

func (s *InMemoryMessageLogStore) Create(ctx context.Context, m *messagelog.MessageLog) error {
	if m == nil {
		return ierr.NewError("message log cannot be nil").Mark(ierr.ErrValidation)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	m.ID = s.Insert(m.ID, copyMessageLog(m))
	return nil
}

func (s *InMemoryMessageLogStore) HasSuccessful(ctx context.Context, kind types.NotificationKind, billID int64) (bool, error) {
	for _, m := range s.All() {
		if m.Kind == kind && m.BillID != nil && *m.BillID == billID && m.Status.IsSuccessful() {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryMessageLogStore) List(ctx context.Context, filter messagelog.Filter) ([]*messagelog.MessageLog, error) {
	matched := make([]*messagelog.MessageLog, 0)
	for _, m := range s.All() {
		if filter.Kind != "" && m.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.UserID > 0 && (m.UserID == nil || *m.UserID != filter.UserID) {
			continue
		}
		if filter.BillID > 0 && (m.BillID == nil || *m.BillID != filter.BillID) {
			continue
		}
		matched = append(matched, copyMessageLog(m))
	}

	// newest first
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []*messagelog.MessageLog{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *InMemoryMessageLogStore) ListPendingStatus(ctx context.Context, limit int) ([]*messagelog.MessageLog, error) {
	out := make([]*messagelog.MessageLog, 0)
	for _, m := range s.All() {
		if m.WAMessageID == nil || *m.WAMessageID == "" {
			continue
		}
		if m.Status != types.MessageStatusSent && m.Status != types.MessageStatusDelivered {
			continue
		}
		out = append(out, copyMessageLog(m))
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *InMemoryMessageLogStore) UpdateStatus(ctx context.Context, id int64, status types.MessageStatus) error {
	m, ok := s.InMemoryStore.Get(id)
	if !ok {
		return ierr.NewErrorf("message log %d not found", id).
			Mark(ierr.ErrNotFound)
	}
	updated := copyMessageLog(m)
	updated.Status = status
	s.InMemoryStore.Update(id, updated)
	return nil
}
