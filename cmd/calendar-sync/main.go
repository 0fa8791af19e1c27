package main

import (
	"context"
	"errors"
	"os"
	"time"
	_ "time/tzdata"

	"semihos/internal/amqp"
	"semihos/internal/cli"
	"semihos/internal/gcal"
	"semihos/internal/log"
	"semihos/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting calendar-sync", log.FieldOperation, log.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger)
	if err := cfg.ValidateCalendarSync(); err != nil {
		logger.Error("Calendar sync configuration invalid", log.FieldError, err)
		os.Exit(1)
	}

	st, closeBackend, err := cli.OpenStore(context.Background(), logger, cfg)
	if err != nil {
		logger.Error("Failed to open store", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer closeBackend()

	svc, err := gcal.NewService(context.Background(), gcal.Credentials{
		JSON: cfg.GoogleServiceAccountJSON,
		File: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Calendar client", log.FieldError, err)
		os.Exit(1)
	}
	exporter := gcal.NewExporter(svc, cfg.GoogleCalendarID, logger)
	calendarWorker := worker.NewCalendarWorker(st, exporter, logger)

	// the consumer is optional; without a broker the ticker alone keeps the
	// calendar current
	var consumer *amqp.Client
	if cfg.AMQPURL != "" {
		consumer, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
	} else {
		logger.Info("AMQP disabled - syncing on the interval only")
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if consumer != nil {
			if err := consumer.Close(); err != nil {
				logger.Error("AMQP close error", log.FieldError, err)
			}
		}
	})

	if consumer != nil {
		go func() {
			err := consumer.Consume(ctx, calendarWorker.HandleChangeMessage)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption stopped", log.FieldError, err)
			}
		}()
	}

	logger.Info("Calendar sync running",
		log.FieldCalendarID, cfg.GoogleCalendarID,
		"interval", cfg.CalendarSyncInterval.String())
	calendarWorker.Run(ctx, cfg.CalendarSyncInterval)

	cli.WaitForShutdown(ctx, done)
	logger.Info("Calendar sync stopped")
}
