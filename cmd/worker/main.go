package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/el-asil/restaurant-api/internal/mailer"
	"github.com/el-asil/restaurant-api/internal/messaging"
	"github.com/el-asil/restaurant-api/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers == "" {
		logger.Error("KAFKA_BROKERS environment variable is required")
		os.Exit(1)
	}

	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost == "" {
		logger.Error("SMTP_HOST environment variable is required")
		os.Exit(1)
	}

	smtpPort := os.Getenv("SMTP_PORT")
	if smtpPort == "" {
		smtpPort = "587"
	}

	emailFrom := os.Getenv("EMAIL_FROM")
	if emailFrom == "" {
		logger.Error("EMAIL_FROM environment variable is required")
		os.Exit(1)
	}

	sender := mailer.NewSMTP(smtpHost, smtpPort, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD"), emailFrom)
	emailHandler := worker.NewEmailHandler(sender, logger)

	brokers := strings.Split(kafkaBrokers, ",")
	orderConsumer := messaging.NewOrderCreatedConsumer(brokers, "email-worker")
	defer func() { _ = orderConsumer.Close() }()
	replyConsumer := messaging.NewReplyCreatedConsumer(brokers, "email-worker")
	defer func() { _ = replyConsumer.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("starting email worker", "brokers", brokers)

	var wg sync.WaitGroup
	consume := func(c *messaging.Consumer, handler func(context.Context, []byte) error, topic string) {
		defer wg.Done()
		if err := c.Consume(ctx, handler); err != nil {
			if ctx.Err() == context.Canceled {
				logger.Info("consumer stopped", "topic", topic)
				return
			}
			logger.Error("consumer error", "error", err, "topic", topic)
			cancel()
		}
	}

	wg.Add(2)
	go consume(orderConsumer, emailHandler.HandleOrderCreated, messaging.TopicOrderCreated)
	go consume(replyConsumer, emailHandler.HandleReplyCreated, messaging.TopicReplyCreated)
	wg.Wait()
}
