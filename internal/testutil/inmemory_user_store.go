package testutil

import (
	"context"

	"github.com/netbill/netbill/internal/domain/user"
	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/samber/lo"
)

// InMemoryUserStore implements user.Repository
type InMemoryUserStore struct {
	*InMemoryStore[*user.User]
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		InMemoryStore: NewInMemoryStore[*user.User](),
	}
}

func copyUser(u *user.User) *user.User {
	if u == nil {
		return nil
	}
	copied := *u
	copied.DueDay = copyIntPtr(u.DueDay)
	copied.ReminderInterval = copyIntPtr(u.ReminderInterval)
	return &copied
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	return lo.ToPtr(*p)
}

func (s *InMemoryUserStore) Create(ctx context.Context, u *user.User) error {
	if u == nil {
		return ierr.NewError("user cannot be nil").Mark(ierr.ErrValidation)
	}
	u.ID = s.Insert(u.ID, copyUser(u))
	return nil
}

func (s *InMemoryUserStore) Get(ctx context.Context, id int64) (*user.User, error) {
	u, ok := s.InMemoryStore.Get(id)
	if !ok {
		return nil, ierr.NewErrorf("user %d not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyUser(u), nil
}

func (s *InMemoryUserStore) ListActive(ctx context.Context) ([]*user.User, error) {
	out := make([]*user.User, 0)
	for _, u := range s.All() {
		if u.IsBillable() {
			out = append(out, copyUser(u))
		}
	}
	return out, nil
}

func (s *InMemoryUserStore) Update(ctx context.Context, u *user.User) error {
	if u == nil {
		return ierr.NewError("user cannot be nil").Mark(ierr.ErrValidation)
	}
	if !s.InMemoryStore.Update(u.ID, copyUser(u)) {
		return ierr.NewErrorf("user %d not found", u.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
