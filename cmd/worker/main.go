package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/carrental/config"
	"github.com/Domenick1991/carrental/internal/bootstrap"
	"github.com/Domenick1991/carrental/internal/kafka"
	"github.com/Domenick1991/carrental/pkg/logger"
)

// The worker drains invoice_email_requested notifications and delivers the
// invoice PDF by email.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl := logger.NewLogger(cfg.Log.Level).With("component", "worker")
	if len(cfg.Kafka.Brokers) == 0 {
		zl.Fatal("kafka.brokers must be set for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("bootstrap failed", "error", err)
	}
	defer app.Close()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, zl)
	defer consumer.Close()

	zl.Info("consuming notifications", "topic", cfg.Kafka.NotificationsTopic, "group", cfg.Kafka.GroupID)
	err = consumer.ConsumeNotifications(ctx, func(ctx context.Context, n kafka.Notification) error {
		zl.Debug("invoice email requested", "booking_id", n.BookingID, "notification_id", n.ID)
		app.Invoices.SendInvoiceEmail(ctx, n.BookingID, n.To)
		return nil
	})
	if err != nil {
		zl.Error("consumer stopped", "error", err)
	}
	zl.Info("worker stopped")
}
