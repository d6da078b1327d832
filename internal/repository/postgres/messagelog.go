package postgres

import (
	"context"

	domainLog "github.com/netbill/netbill/internal/domain/messagelog"
	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/logger"
	"github.com/netbill/netbill/internal/postgres"
	"github.com/netbill/netbill/internal/types"
)

// successfulStatuses are the delivery states the dedup guard treats as "this
// notification already reached the subscriber".
var successfulStatuses = []types.MessageStatus{
	types.MessageStatusSent,
	types.MessageStatusDelivered,
	types.MessageStatusRead,
}

type messageLogRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewMessageLogRepository creates a new message log repository.
func NewMessageLogRepository(client postgres.IClient, logger *logger.Logger) domainLog.Repository {
	return &messageLogRepository{client: client, logger: logger}
}

func (r *messageLogRepository) Create(ctx context.Context, log *domainLog.MessageLog) error {
	if err := log.Validate(); err != nil {
		return err
	}

	if err := r.client.Querier(ctx).Create(log).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to record message log").
			WithReportableDetails(map[string]interface{}{
				"recipient": log.Recipient,
				"kind":      log.Kind,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *messageLogRepository) HasSuccessful(ctx context.Context, kind types.NotificationKind, billID int64) (bool, error) {
	var count int64
	err := r.client.Querier(ctx).Model(&domainLog.MessageLog{}).
		Where("kind = ? AND bill_id = ? AND status IN ?", kind, billID, successfulStatuses).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to check for prior notification").
			WithReportableDetails(map[string]interface{}{
				"kind":    kind,
				"bill_id": billID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return count > 0, nil
}

func (r *messageLogRepository) List(ctx context.Context, filter domainLog.Filter) ([]*domainLog.MessageLog, error) {
	query := r.client.Querier(ctx).Model(&domainLog.MessageLog{})

	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.BillID != 0 {
		query = query.Where("bill_id = ?", filter.BillID)
	}

	limit := filter.Limit
	if limit < 1 {
		limit = 50
	}

	var logs []*domainLog.MessageLog
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&logs).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list message logs").
			Mark(ierr.ErrDatabase)
	}
	return logs, nil
}

func (r *messageLogRepository) ListPendingStatus(ctx context.Context, limit int) ([]*domainLog.MessageLog, error) {
	if limit <= 0 {
		limit = 20
	}

	var logs []*domainLog.MessageLog
	err := r.client.Querier(ctx).
		Where("status IN ? AND wa_message_id IS NOT NULL",
			[]types.MessageStatus{types.MessageStatusSent, types.MessageStatusDelivered}).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list logs pending delivery status").
			Mark(ierr.ErrDatabase)
	}
	return logs, nil
}

func (r *messageLogRepository) UpdateStatus(ctx context.Context, id int64, status types.MessageStatus) error {
	result := r.client.Querier(ctx).Model(&domainLog.MessageLog{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return ierr.WithError(result.Error).
			WithHint("Failed to update message status").
			WithReportableDetails(map[string]interface{}{"id": id, "status": status}).
			Mark(ierr.ErrDatabase)
	}
	if result.RowsAffected == 0 {
		return ierr.NewErrorf("message log %d not found", id).
			WithHint("Message log not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}
