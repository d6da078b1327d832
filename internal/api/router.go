package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/netbill/netbill/internal/api/cron"
	v1 "github.com/netbill/netbill/internal/api/v1"
	"github.com/netbill/netbill/internal/config"
	"github.com/netbill/netbill/internal/logger"
	"github.com/netbill/netbill/internal/rest/middleware"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Notification *v1.NotificationHandler
	Settings     *v1.SettingsHandler
	Gateway      *v1.GatewayHandler
	BillingCron  *cron.BillingCronHandler
	SweepCron    *cron.SweepCronHandler
}

// NewRouter builds the gin engine with the standard middleware chain and all
// routes mounted.
func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode == config.ModeProd {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = log.GetGinLogger()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(log),
		middleware.ErrorHandler(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	versioned := router.Group("/v1")
	{
		bills := versioned.Group("/bills")
		{
			bills.POST("/:id/notify", handlers.Notification.SendBillNotice)
			bills.POST("/:id/receipt", handlers.Notification.SendReceipt)
			bills.POST("/:id/remind", handlers.Notification.SendReminder)
		}

		versioned.GET("/notifications", handlers.Notification.ListNotifications)

		versioned.GET("/settings", handlers.Settings.GetSettings)
		versioned.PUT("/settings", handlers.Settings.UpdateSettings)

		versioned.GET("/whatsapp/status", handlers.Gateway.GetStatus)
	}

	jobs := router.Group("/cron")
	{
		jobs.POST("/bills/generate", handlers.BillingCron.GenerateBills)
		jobs.POST("/sweeps/reminders", handlers.SweepCron.RunReminderSweep)
		jobs.POST("/sweeps/bills", handlers.SweepCron.RunAutoBillSweep)
		jobs.POST("/sweeps/retry", handlers.SweepCron.RunRetrySweep)
		jobs.POST("/sweeps/status-sync", handlers.SweepCron.RunStatusSync)
	}

	return router
}
