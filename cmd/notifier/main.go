package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/ec-storefront/internal/config"
	"github.com/example/ec-storefront/internal/email"
	"github.com/example/ec-storefront/internal/infrastructure/kafka"
	"github.com/example/ec-storefront/internal/logger"
	"github.com/example/ec-storefront/internal/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Development)
	defer logger.Sync()
	log := logger.Named("notifier")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infow("starting order notifier",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.KafkaOrderTopic,
		"group", cfg.KafkaGroupID,
		"smtp", cfg.SMTPHost+":"+cfg.SMTPPort,
	)

	mailer := email.NewService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	handler := notification.NewHandler(mailer, log)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaOrderTopic, cfg.KafkaGroupID, log)
	defer consumer.Close()

	if err := consumer.Consume(ctx, handler.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorw("consumer stopped", "err", err)
		return
	}
	log.Infow("notifier shut down")
}
