package testutil

import (
	"context"
	"time"

	"github.com/netbill/netbill/internal/domain/payment"
	ierr "github.com/netbill/netbill/internal/errors"
)

// InMemoryPaymentStore implements payment.Repository
type InMemoryPaymentStore struct {
	*InMemoryStore[*payment.Payment]
}

func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		InMemoryStore: NewInMemoryStore[*payment.Payment](),
	}
}

func copyPayment(p *payment.Payment) *payment.Payment {
	if p == nil {
		return nil
	}
	copied := *p
	return &copied
}

func (s *InMemoryPaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return ierr.NewError("payment cannot be nil").Mark(ierr.ErrValidation)
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now()
	}
	p.ID = s.Insert(p.ID, copyPayment(p))
	return nil
}

// GetLatestByBill returns the newest payment for the bill or (nil, nil) when
// the bill has none.
func (s *InMemoryPaymentStore) GetLatestByBill(ctx context.Context, billID int64) (*payment.Payment, error) {
	var latest *payment.Payment
	for _, p := range s.All() {
		if p.BillID != billID {
			continue
		}
		if latest == nil || p.PaidAt.After(latest.PaidAt) || (p.PaidAt.Equal(latest.PaidAt) && p.ID > latest.ID) {
			latest = p
		}
	}
	return copyPayment(latest), nil
}
