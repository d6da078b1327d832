package testutil

import (
	"context"
	"time"

	"github.com/netbill/netbill/internal/domain/bill"
	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/types"
	"github.com/samber/lo"
)

// InMemoryBillStore implements bill.Repository
type InMemoryBillStore struct {
	*InMemoryStore[*bill.Bill]
}

func NewInMemoryBillStore() *InMemoryBillStore {
	return &InMemoryBillStore{
		InMemoryStore: NewInMemoryStore[*bill.Bill](),
	}
}

func copyBill(b *bill.Bill) *bill.Bill {
	if b == nil {
		return nil
	}
	copied := *b
	if b.PaidAt != nil {
		copied.PaidAt = lo.ToPtr(*b.PaidAt)
	}
	return &copied
}

func (s *InMemoryBillStore) hasPeriodConflict(b *bill.Bill) bool {
	for _, existing := range s.All() {
		if existing.ID != b.ID &&
			existing.UserID == b.UserID &&
			existing.Month == b.Month &&
			existing.Year == b.Year {
			return true
		}
	}
	return false
}

func (s *InMemoryBillStore) Create(ctx context.Context, b *bill.Bill) error {
	if b == nil {
		return ierr.NewError("bill cannot be nil").Mark(ierr.ErrValidation)
	}
	if s.hasPeriodConflict(b) {
		return ierr.NewErrorf("bill for user %d period %d/%d already exists", b.UserID, b.Month, b.Year).
			Mark(ierr.ErrAlreadyExists)
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	b.ID = s.Insert(b.ID, copyBill(b))
	return nil
}

// CreateBulk mirrors the transactional insert: one conflict rejects the whole
// batch and nothing is persisted.
func (s *InMemoryBillStore) CreateBulk(ctx context.Context, bills []*bill.Bill) error {
	seen := make(map[[3]int64]struct{})
	for _, b := range bills {
		key := [3]int64{b.UserID, int64(b.Month), int64(b.Year)}
		if _, dup := seen[key]; dup || s.hasPeriodConflict(b) {
			return ierr.NewErrorf("bill for user %d period %d/%d already exists", b.UserID, b.Month, b.Year).
				Mark(ierr.ErrAlreadyExists)
		}
		seen[key] = struct{}{}
	}
	for _, b := range bills {
		if err := s.Create(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemoryBillStore) Get(ctx context.Context, id int64) (*bill.Bill, error) {
	b, ok := s.InMemoryStore.Get(id)
	if !ok {
		return nil, ierr.NewErrorf("bill %d not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyBill(b), nil
}

func (s *InMemoryBillStore) ListByPeriod(ctx context.Context, period bill.Period) ([]*bill.Bill, error) {
	out := make([]*bill.Bill, 0)
	for _, b := range s.All() {
		if b.Month == period.Month && b.Year == period.Year {
			out = append(out, copyBill(b))
		}
	}
	return out, nil
}

func (s *InMemoryBillStore) ListByStatus(ctx context.Context, status types.BillStatus) ([]*bill.Bill, error) {
	out := make([]*bill.Bill, 0)
	for _, b := range s.All() {
		if b.Status == status {
			out = append(out, copyBill(b))
		}
	}
	return out, nil
}

func (s *InMemoryBillStore) MarkPaid(ctx context.Context, id int64, paidAt time.Time) error {
	b, ok := s.InMemoryStore.Get(id)
	if !ok {
		return ierr.NewErrorf("bill %d not found", id).
			Mark(ierr.ErrNotFound)
	}
	updated := copyBill(b)
	updated.Status = types.BillStatusPaid
	updated.PaidAt = lo.ToPtr(paidAt)
	s.InMemoryStore.Update(id, updated)
	return nil
}
