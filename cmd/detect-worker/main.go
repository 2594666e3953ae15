package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hibiken/asynq"

	"github.com/pixtag/pixtag/cmd/detect-worker/worker"
	"github.com/pixtag/pixtag/common/blob"
	"github.com/pixtag/pixtag/common/bootstrap"
	"github.com/pixtag/pixtag/common/detect"
	"github.com/pixtag/pixtag/common/detect/darknet"
	"github.com/pixtag/pixtag/common/events"
	"github.com/pixtag/pixtag/common/repository"
	"github.com/pixtag/pixtag/common/tasks"
)

func main() {
	ctx := context.Background()

	components, err := bootstrap.Setup(ctx, "detect-worker")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap detect-worker: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	cfg := components.Config
	log := components.Logger

	detector, err := darknet.New(
		cfg.Detector.ConfigPath,
		cfg.Detector.WeightsPath,
		cfg.Detector.LabelsPath,
	)
	if err != nil {
		log.Error("failed to load detector", "error", err)
		os.Exit(1)
	}
	defer detector.Close()

	ingestor := worker.NewIngestor(
		blob.NewRedisStore(components.Redis, log),
		detect.NewEngine(detector, log),
		repository.NewImageRepository(components.DB),
		events.NewPublisher(components.Redis, log),
		cfg.Store,
		log,
	)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Queue.Concurrency,
			Queues:      map[string]int{cfg.Queue.Name: 1},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeDetect, ingestor.HandleDetect)

	log.Info("starting detect-worker",
		"queue", cfg.Queue.Name,
		"concurrency", cfg.Queue.Concurrency,
	)

	if err := srv.Run(mux); err != nil {
		log.Error("worker error", "error", err)
		os.Exit(1)
	}
}
