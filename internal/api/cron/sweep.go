package cron

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netbill/netbill/internal/logger"
	"github.com/netbill/netbill/internal/service"
)

// SweepCronHandler handles delivery sweep cron jobs
type SweepCronHandler struct {
	sweepService service.SweepService
	logger       *logger.Logger
}

// NewSweepCronHandler creates a new sweep cron handler
func NewSweepCronHandler(
	sweepService service.SweepService,
	logger *logger.Logger,
) *SweepCronHandler {
	return &SweepCronHandler{
		sweepService: sweepService,
		logger:       logger,
	}
}

func (h *SweepCronHandler) run(c *gin.Context, name string, fn func() error) {
	h.logger.Infow("starting "+name+" cron job", "time", time.Now().UTC().Format(time.RFC3339))

	if err := fn(); err != nil {
		h.logger.Errorw("failed to run "+name, "error", err)
		c.Error(err)
		return
	}

	h.logger.Infow("completed " + name + " cron job")
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// RunReminderSweep sends due reminders for unpaid bills
func (h *SweepCronHandler) RunReminderSweep(c *gin.Context) {
	ctx := c.Request.Context()
	h.run(c, "reminder sweep", func() error { return h.sweepService.ReminderSweep(ctx) })
}

// RunAutoBillSweep sends pending new-bill notifications
func (h *SweepCronHandler) RunAutoBillSweep(c *gin.Context) {
	ctx := c.Request.Context()
	h.run(c, "auto bill sweep", func() error { return h.sweepService.AutoBillSweep(ctx) })
}

// RunRetrySweep re-attempts held and failed notifications
func (h *SweepCronHandler) RunRetrySweep(c *gin.Context) {
	ctx := c.Request.Context()
	h.run(c, "retry sweep", func() error { return h.sweepService.RetryHeldSweep(ctx) })
}

// RunStatusSync polls the gateway for delivery-status updates
func (h *SweepCronHandler) RunStatusSync(c *gin.Context) {
	ctx := c.Request.Context()
	h.run(c, "status sync", func() error { return h.sweepService.StatusSyncSweep(ctx) })
}
