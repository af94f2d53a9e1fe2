package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/somitihq/somiti-ledger/internal/config"
	"github.com/somitihq/somiti-ledger/internal/logging"
	"github.com/somitihq/somiti-ledger/internal/notify"
	"github.com/somitihq/somiti-ledger/internal/repository"
	"github.com/somitihq/somiti-ledger/internal/service"
	"github.com/somitihq/somiti-ledger/pkg/dates"
)

// The scheduler runs the recurring back-office jobs: the morning payment
// reminder SMS blast and the midnight due-today cache warm-up.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.Logging)

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	notifier := notify.NewGatewayClient(cfg.SMS, logger)

	memberRepo := repository.NewMemberRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	dpsRepo := repository.NewDpsRepository(db)
	fdrRepo := repository.NewFdrRepository(db)

	loanService := service.NewLoanService(loanRepo, memberRepo, redisClient, notifier, cfg, logger)
	depositService := service.NewDepositService(dpsRepo, fdrRepo, memberRepo, notifier, cfg, logger)

	loc := cfg.GetTimezone()
	c := cron.New(cron.WithSeconds(), cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.Scheduler.ReminderSpec, func() {
		runReminders(loanService, depositService, notifier, logger, loc)
	})
	if err != nil {
		log.Fatalf("Failed to register reminder job: %v", err)
	}

	_, err = c.AddFunc(cfg.Scheduler.WarmupSpec, func() {
		warmDueTodayCache(loanService, logger, loc)
	})
	if err != nil {
		log.Fatalf("Failed to register warm-up job: %v", err)
	}

	c.Start()
	logger.Info("scheduler started",
		"reminder_spec", cfg.Scheduler.ReminderSpec,
		"warmup_spec", cfg.Scheduler.WarmupSpec,
		"timezone", cfg.Business.Timezone)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down scheduler")

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		logger.Warn("scheduler jobs did not finish before shutdown deadline")
	}
}

// runReminders sends one SMS per installment falling due today, across
// loans and DPS accounts.
func runReminders(
	loans *service.LoanService,
	deposits *service.DepositService,
	notifier notify.Notifier,
	logger *slog.Logger,
	loc *time.Location,
) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	today := dates.Today(loc)

	dueRows, err := loans.DueToday(ctx, today)
	if err != nil {
		logger.Error("reminder job: due-today lookup failed", "error", err)
	} else {
		for _, row := range dueRows {
			if row.MobileNumber == "" {
				continue
			}
			message := fmt.Sprintf("Dear %s, your installment of %s is due today. Please pay on time.",
				row.MemberName, row.InstallmentAmount.StringFixed(2))
			notifier.Dispatch(row.MobileNumber, message)
		}
		logger.Info("reminder job: loan reminders dispatched", "count", len(dueRows))
	}

	dpsRows, err := deposits.DpsDueToday(ctx, today)
	if err != nil {
		logger.Error("reminder job: dps due-today lookup failed", "error", err)
		return
	}
	for _, row := range dpsRows {
		if row.MobileNumber == "" {
			continue
		}
		message := fmt.Sprintf("Dear %s, your DPS deposit of %s is due today. Please pay on time.",
			row.MemberName, row.MonthlyAmount.StringFixed(2))
		notifier.Dispatch(row.MobileNumber, message)
	}
	logger.Info("reminder job: dps reminders dispatched", "count", len(dpsRows))
}

// warmDueTodayCache primes the per-date cache right after the calendar
// rolls over, so the first office request of the day is served hot.
func warmDueTodayCache(
	loans *service.LoanService,
	logger *slog.Logger,
	loc *time.Location,
) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	today := dates.Today(loc)
	rows, err := loans.DueToday(ctx, today)
	if err != nil {
		logger.Error("warm-up job failed", "error", err)
		return
	}
	logger.Info("due-today cache warmed", "date", today.String(), "rows", len(rows))
}
