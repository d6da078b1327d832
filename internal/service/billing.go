package service

import (
	"context"

	"github.com/netbill/netbill/internal/domain/bill"
	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/types"
	"github.com/samber/lo"
)

// GenerateBillsResult summarizes one monthly generation run.
type GenerateBillsResult struct {
	Period         bill.Period `json:"period"`
	GeneratedCount int         `json:"generated_count"`
	SkippedCount   int         `json:"skipped_count"`
}

// BillingService owns monthly bill generation. Generation is idempotent per
// (user, period): subscribers that already have a bill for the period are
// skipped, and re-running the generation produces no new rows.
type BillingService interface {
	// GenerateMonthlyBills creates a bill for every billable subscriber that
	// does not yet have one for the given period. Notifications are not sent
	// here; the delivery sweeps pick new bills up on their own schedule.
	GenerateMonthlyBills(ctx context.Context, period bill.Period) (*GenerateBillsResult, error)
}

type billingService struct {
	ServiceParams
}

func NewBillingService(params ServiceParams) BillingService {
	return &billingService{ServiceParams: params}
}

func (s *billingService) GenerateMonthlyBills(ctx context.Context, period bill.Period) (*GenerateBillsResult, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	set, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if set.MonthlyFee <= 0 {
		s.Logger.Errorw("monthly fee is not configured, aborting bill generation",
			"month", period.Month, "year", period.Year)
		return nil, ierr.NewError("monthly fee is not configured").
			WithHint("Set a positive monthly fee before generating bills").
			Mark(ierr.ErrValidation)
	}

	users, err := s.UserRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.BillRepo.ListByPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	billed := lo.SliceToMap(existing, func(b *bill.Bill) (int64, struct{}) {
		return b.UserID, struct{}{}
	})

	result := &GenerateBillsResult{Period: period}
	bills := make([]*bill.Bill, 0, len(users))
	for _, u := range users {
		if _, ok := billed[u.ID]; ok {
			result.SkippedCount++
			continue
		}
		bills = append(bills, &bill.Bill{
			UserID:       u.ID,
			Month:        period.Month,
			Year:         period.Year,
			Amount:       set.MonthlyFee,
			Status:       types.BillStatusUnpaid,
			PaymentToken: types.GeneratePaymentToken(),
		})
	}

	if len(bills) > 0 {
		if err := s.BillRepo.CreateBulk(ctx, bills); err != nil {
			return nil, err
		}
	}
	result.GeneratedCount = len(bills)

	s.Logger.Infow("monthly bill generation finished",
		"month", period.Month, "year", period.Year,
		"generated", result.GeneratedCount, "skipped", result.SkippedCount)
	return result, nil
}
