package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/pixtag/pixtag/common/bootstrap"
	"github.com/pixtag/pixtag/common/events"
	"github.com/pixtag/pixtag/common/notify"
	"github.com/pixtag/pixtag/common/repository"
)

const consumerGroup = "notifier"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := bootstrap.Setup(ctx, "notifier")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap notifier: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(context.Background())

	log := components.Logger

	reconciler := NewReconciler(
		repository.NewSubscriptionRepository(components.DB),
		notify.NewRedisService(components.Redis, log),
		components.Config.Notify.Topic,
		log,
	)

	// Each notifier instance gets its own consumer name inside the group
	consumerName := "notifier-" + uuid.NewString()[:8]
	consumer, err := events.NewConsumer(ctx, components.Redis, consumerGroup, consumerName, log)
	if err != nil {
		log.Error("failed to create change stream consumer", "error", err)
		os.Exit(1)
	}

	log.Info("starting notifier",
		"topic", components.Config.Notify.Topic,
		"consumer", consumerName,
	)

	if err := consumer.Run(ctx, reconciler.Handle); err != nil && ctx.Err() == nil {
		log.Error("notifier error", "error", err)
		os.Exit(1)
	}
}
