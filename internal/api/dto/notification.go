package dto

import (
	"github.com/netbill/netbill/internal/domain/messagelog"
	"github.com/netbill/netbill/internal/types"
)

// ManualSendResponse reports the outcome of a manual send request.
type ManualSendResponse struct {
	BillID  int64                     `json:"bill_id"`
	Kind    types.NotificationKind    `json:"kind"`
	Outcome types.NotificationOutcome `json:"outcome"`
}

// ListNotificationsRequest is the query-parameter filter for the message log
// listing.
type ListNotificationsRequest struct {
	Kind   string `form:"kind"`
	Status string `form:"status"`
	UserID int64  `form:"user_id"`
	BillID int64  `form:"bill_id"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

func (r *ListNotificationsRequest) ToFilter() messagelog.Filter {
	return messagelog.Filter{
		Kind:   types.NotificationKind(r.Kind),
		Status: types.MessageStatus(r.Status),
		UserID: r.UserID,
		BillID: r.BillID,
		Limit:  r.Limit,
		Offset: r.Offset,
	}
}

// ListNotificationsResponse wraps the message log listing.
type ListNotificationsResponse struct {
	Items []*messagelog.MessageLog `json:"items"`
	Count int                      `json:"count"`
}

func NewListNotificationsResponse(items []*messagelog.MessageLog) *ListNotificationsResponse {
	return &ListNotificationsResponse{Items: items, Count: len(items)}
}
