package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go-leaves/internal/approvaltoken"
	"go-leaves/internal/config"
	"go-leaves/internal/leave"
	"go-leaves/internal/messaging/kafka"
	"go-leaves/internal/messaging/kafka/producer"
	"go-leaves/internal/shared/connection"

	"go.uber.org/zap"
)

const outboxPollInterval = 3 * time.Second

// RunWorker sweeps stale approval tokens and, when a broker is configured,
// relays queued notification events from the outbox to Kafka.
func RunWorker(cfg *config.Config, logger *zap.Logger) error {
	logger = logger.Named("app.worker")

	in, err := connectInfra(cfg, false, logger)
	if err != nil {
		return err
	}
	defer in.Close()

	tokens := approvaltoken.NewService(
		approvaltoken.NewRepository(in.GormDB),
		leave.NewRepository(in.GormDB),
		approvaltoken.Config{TTL: cfg.Tokens.TTL, Retention: cfg.Tokens.Retention},
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		approvaltoken.RunSweeper(ctx, tokens, cfg.Tokens.SweepInterval, logger)
	}()

	if cfg.Kafka.Broker != "" {
		kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, connectRetries)
		if err != nil {
			cancel()
			wg.Wait()
			return err
		}
		defer kafkaWriter.Close()

		outboxRepo := kafka.NewOutboxRepository(in.SQLDB)

		wg.Add(1)
		go func() {
			defer wg.Done()
			producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, logger, outboxPollInterval)
		}()
	} else {
		logger.Info("kafka broker not configured, outbox relay disabled")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()
	wg.Wait()

	return nil
}
