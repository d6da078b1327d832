package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/netbill/netbill/internal/api"
	"github.com/netbill/netbill/internal/api/cron"
	v1 "github.com/netbill/netbill/internal/api/v1"
	"github.com/netbill/netbill/internal/config"
	"github.com/netbill/netbill/internal/domain/bill"
	"github.com/netbill/netbill/internal/domain/messagelog"
	"github.com/netbill/netbill/internal/domain/payment"
	"github.com/netbill/netbill/internal/domain/settings"
	"github.com/netbill/netbill/internal/domain/user"
	"github.com/netbill/netbill/internal/logger"
	"github.com/netbill/netbill/internal/postgres"
	pgrepo "github.com/netbill/netbill/internal/repository/postgres"
	"github.com/netbill/netbill/internal/scheduler"
	"github.com/netbill/netbill/internal/service"
	"github.com/netbill/netbill/internal/whatsapp"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		panic(err)
	}

	if err := run(cfg, log); err != nil {
		log.Errorw("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Configuration, log *logger.Logger) error {
	client, err := postgres.NewClient(cfg, log)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.AutoMigrate(
		&user.User{},
		&bill.Bill{},
		&payment.Payment{},
		&messagelog.MessageLog{},
		&settings.Settings{},
	); err != nil {
		return err
	}

	gateway := whatsapp.NewClient(cfg, log)

	params := service.ServiceParams{
		Logger:         log,
		Config:         cfg,
		DB:             client,
		Gateway:        gateway,
		UserRepo:       pgrepo.NewUserRepository(client, log),
		BillRepo:       pgrepo.NewBillRepository(client, log),
		PaymentRepo:    pgrepo.NewPaymentRepository(client, log),
		MessageLogRepo: pgrepo.NewMessageLogRepository(client, log),
		SettingsRepo:   pgrepo.NewSettingsRepository(client, log),
	}

	notificationService := service.NewNotificationService(params)
	settingsService := service.NewSettingsService(params)
	billingService := service.NewBillingService(params)
	sweepService := service.NewSweepService(params, notificationService)
	dispatchService := service.NewDispatchService(params, notificationService, settingsService)

	sched := scheduler.New(cfg, log, billingService, sweepService, settingsService)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	router := api.NewRouter(api.Handlers{
		Notification: v1.NewNotificationHandler(dispatchService, log),
		Settings:     v1.NewSettingsHandler(settingsService, log),
		Gateway:      v1.NewGatewayHandler(gateway, log),
		BillingCron:  cron.NewBillingCronHandler(billingService, cfg, log),
		SweepCron:    cron.NewSweepCronHandler(sweepService, log),
	}, cfg, log)

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("http server listening", "address", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Infow("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
