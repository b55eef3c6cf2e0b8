package main

import (
	"context"
	"time"

	"huku/internal/amqp"
	"huku/internal/cli"
	"huku/internal/log"
	"huku/internal/scheduler"
	"huku/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentScheduler)

	logger.Info("Starting reminder-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPReminderQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		return
	}
	defer amqpClient.Close()

	reminders := services.NewReminderService(repo, amqpClient)
	batches := services.NewBatchService(repo)

	sched := scheduler.New(reminders, batches)
	if err := sched.Start(cfg.ReminderCron); err != nil {
		logger.Error("Failed to start scheduler", "error", err, "cron", cfg.ReminderCron)
		return
	}
	logger.Info("Scheduler started", "reminder_cron", cfg.ReminderCron)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sched.Stop(stopCtx); err != nil {
			logger.Error("Scheduler stop error", "error", err)
		}
	})

	cli.WaitForShutdown(ctx, done)
}
