package cron

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netbill/netbill/internal/config"
	"github.com/netbill/netbill/internal/domain/bill"
	"github.com/netbill/netbill/internal/logger"
	"github.com/netbill/netbill/internal/service"
)

// BillingCronHandler handles billing related cron jobs
type BillingCronHandler struct {
	billingService service.BillingService
	cfg            *config.Configuration
	logger         *logger.Logger
}

// NewBillingCronHandler creates a new billing cron handler
func NewBillingCronHandler(
	billingService service.BillingService,
	cfg *config.Configuration,
	logger *logger.Logger,
) *BillingCronHandler {
	return &BillingCronHandler{
		billingService: billingService,
		cfg:            cfg,
		logger:         logger,
	}
}

// GenerateBills runs monthly bill generation for the current billing period.
// The internal scheduler fires this on its own; the endpoint exists for
// external cron triggers and manual re-runs, both of which are idempotent.
func (h *BillingCronHandler) GenerateBills(c *gin.Context) {
	h.logger.Infow("starting bill generation cron job", "time", time.Now().UTC().Format(time.RFC3339))

	period := bill.PeriodOf(time.Now(), h.cfg.Location())
	result, err := h.billingService.GenerateMonthlyBills(c.Request.Context(), period)
	if err != nil {
		h.logger.Errorw("failed to generate bills", "error", err)
		c.Error(err)
		return
	}

	h.logger.Infow("completed bill generation cron job",
		"generated", result.GeneratedCount, "skipped", result.SkippedCount)
	c.JSON(http.StatusOK, result)
}
