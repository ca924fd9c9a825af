package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"finanzas/internal/cli"
	"finanzas/internal/config"
	applog "finanzas/internal/log"
	"finanzas/internal/services"
	"finanzas/internal/worker"
)

func main() {
	cfg, logger := cli.Bootstrap()
	logger = logger.WithComponent(applog.ComponentWorker)
	logger.Info("Starting finanzas-worker", "schedule", cfg.WeekRollSchedule)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	repo := cli.OpenRepository(ctx, logger, cfg)
	defer repo.Close()

	roller := services.NewWeekRoller(repo.Weeks, cfg.DefaultBudget())
	rollWeek := func() {
		if _, created, err := roller.EnsureCurrentWeek(ctx, time.Now()); err != nil {
			logger.Error("Week roll failed", "error", err)
		} else if created {
			logger.Info("Week roll created a new budget week")
		}
	}

	// Catch up on startup in case the worker was down at the scheduled time.
	rollWeek()

	cronLog := applog.CronLogger(logger)
	sched := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(time.UTC),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
	if _, err := sched.AddFunc(cfg.WeekRollSchedule, rollWeek); err != nil {
		logger.Error("Invalid week roll schedule", "error", err, "schedule", cfg.WeekRollSchedule)
		os.Exit(1)
	}
	sched.Start()

	g, gctx := errgroup.WithContext(ctx)

	if amqpClient := cli.ConnectAMQP(logger, cfg); amqpClient != nil {
		defer amqpClient.Close()

		var mailer worker.Mailer = worker.LogMailer()
		if cfg.EmailEnabled() {
			mailer = worker.NewSMTPMailer(worker.SMTPConfig{
				Host:     cfg.SMTPHost,
				Port:     cfg.SMTPPort,
				Username: cfg.SMTPUsername,
				Password: cfg.SMTPPassword,
				From:     cfg.SenderEmail,
			})
		} else {
			logger.Info("E-mail disabled - no SMTP_HOST provided")
		}
		notifier := worker.NewContractNotifier(repo.Contracts, repo.Clients, repo.Avales, mailer, logger)

		g.Go(func() error {
			err := amqpClient.ConsumeContractEvents(gctx, notifier.HandleContractEvent)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	} else {
		logger.Info("Skipping contract notifications - no AMQP client available")
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down worker...")
		select {
		case <-sched.Stop().Done():
		case <-time.After(config.ShutdownTimeout):
			logger.Warn("Shutdown timeout reached")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
