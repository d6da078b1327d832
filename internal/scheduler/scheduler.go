package scheduler

import (
	"context"
	"time"

	"github.com/netbill/netbill/internal/config"
	"github.com/netbill/netbill/internal/domain/bill"
	"github.com/netbill/netbill/internal/logger"
	"github.com/netbill/netbill/internal/service"
	"github.com/robfig/cron/v3"
)

const (
	// monthlyGenerationSpec fires at 00:01 on the first of the month in the
	// billing timezone, right after the new period begins.
	monthlyGenerationSpec = "1 0 1 * *"

	// minuteTickSpec drives the delivery sweeps. Which sweeps actually run
	// on a given tick depends on the configured send times.
	minuteTickSpec = "* * * * *"

	// retryTickMinutes spaces out the held/failed retry sweep.
	retryTickMinutes = 30
)

// Scheduler owns the recurring billing and delivery jobs. All schedules are
// evaluated in the billing timezone, so "00:01 on the 1st" means the first
// minute of the month as subscribers experience it.
type Scheduler struct {
	cron     *cron.Cron
	logger   *logger.Logger
	loc      *time.Location
	billing  service.BillingService
	sweeps   service.SweepService
	settings service.SettingsService

	now func() time.Time
}

func New(
	cfg *config.Configuration,
	log *logger.Logger,
	billing service.BillingService,
	sweeps service.SweepService,
	settings service.SettingsService,
) *Scheduler {
	loc := cfg.Location()
	cronLog := &cronLogger{logger: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLog)),
		),
		logger:   log,
		loc:      loc,
		billing:  billing,
		sweeps:   sweeps,
		settings: settings,
		now:      time.Now,
	}
}

// Start registers the jobs and launches the cron loop. It returns an error
// only when a schedule expression fails to parse.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(monthlyGenerationSpec, s.runMonthlyGeneration); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(minuteTickSpec, s.runMinuteTick); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Infow("scheduler started",
		"timezone", s.loc.String(),
		"monthly_spec", monthlyGenerationSpec)
	return nil
}

// Stop halts the cron loop and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Infow("scheduler stopped")
}

func (s *Scheduler) runMonthlyGeneration() {
	ctx := context.Background()
	period := bill.PeriodOf(s.now(), s.loc)

	result, err := s.billing.GenerateMonthlyBills(ctx, period)
	if err != nil {
		s.logger.Errorw("monthly bill generation failed",
			"error", err, "month", period.Month, "year", period.Year)
		return
	}
	s.logger.Infow("monthly bill generation job finished",
		"month", period.Month, "year", period.Year,
		"generated", result.GeneratedCount, "skipped", result.SkippedCount)
}

// runMinuteTick fans out to the sweeps whose send time matches the current
// minute. Configured times go through NormalizeTime first, so "9:00 AM" and
// "09:00" land on the same tick.
func (s *Scheduler) runMinuteTick() {
	ctx := context.Background()
	set, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Errorw("minute tick skipped, settings unavailable", "error", err)
		return
	}

	now := s.now().In(s.loc)
	current := now.Format("15:04")

	if service.NormalizeTime(set.ReminderTime) == current {
		if err := s.sweeps.ReminderSweep(ctx); err != nil {
			s.logger.Errorw("reminder sweep failed", "error", err)
		}
	}
	if service.NormalizeTime(set.AutoBillTime) == current {
		if err := s.sweeps.AutoBillSweep(ctx); err != nil {
			s.logger.Errorw("auto bill sweep failed", "error", err)
		}
	}
	if now.Minute()%retryTickMinutes == 0 {
		if err := s.sweeps.RetryHeldSweep(ctx); err != nil {
			s.logger.Errorw("retry sweep failed", "error", err)
		}
	}
	if err := s.sweeps.StatusSyncSweep(ctx); err != nil {
		s.logger.Errorw("status sync sweep failed", "error", err)
	}
}

// cronLogger adapts the application logger to the cron logging interface so
// recovered panics land in the structured log.
type cronLogger struct {
	logger *logger.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw("cron: "+msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	kv := append([]interface{}{"error", err}, keysAndValues...)
	l.logger.Errorw("cron: "+msg, kv...)
}
