package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/netbill/netbill/internal/api/dto"
	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/logger"
	"github.com/netbill/netbill/internal/service"
	"github.com/netbill/netbill/internal/types"
)

type NotificationHandler struct {
	dispatch service.DispatchService
	logger   *logger.Logger
}

func NewNotificationHandler(
	dispatch service.DispatchService,
	logger *logger.Logger,
) *NotificationHandler {
	return &NotificationHandler{
		dispatch: dispatch,
		logger:   logger,
	}
}

// SendBillNotice handles POST /v1/bills/:id/notify
func (h *NotificationHandler) SendBillNotice(c *gin.Context) {
	h.manualSend(c, types.NotificationKindBill)
}

// SendReceipt handles POST /v1/bills/:id/receipt
func (h *NotificationHandler) SendReceipt(c *gin.Context) {
	h.manualSend(c, types.NotificationKindReceipt)
}

// SendReminder handles POST /v1/bills/:id/remind
func (h *NotificationHandler) SendReminder(c *gin.Context) {
	h.manualSend(c, types.NotificationKindReminder)
}

func (h *NotificationHandler) manualSend(c *gin.Context, kind types.NotificationKind) {
	billID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || billID <= 0 {
		c.Error(ierr.NewError("invalid bill id").
			WithHint("Bill ID must be a positive integer").
			Mark(ierr.ErrValidation))
		return
	}

	outcome, err := h.dispatch.ManualSend(c.Request.Context(), billID, kind)
	if err != nil {
		h.logger.Errorw("manual send failed",
			"error", err, "bill_id", billID, "kind", kind)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.ManualSendResponse{
		BillID:  billID,
		Kind:    kind,
		Outcome: outcome,
	})
}

// ListNotifications handles GET /v1/notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	var req dto.ListNotificationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid list filter").
			Mark(ierr.ErrValidation))
		return
	}

	items, err := h.dispatch.ListLogs(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.logger.Errorw("failed to list notifications", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListNotificationsResponse(items))
}
