package container

import (
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/pixtag/pixtag/cmd/api/service"
	"github.com/pixtag/pixtag/common/blob"
	"github.com/pixtag/pixtag/common/bootstrap"
	"github.com/pixtag/pixtag/common/detect"
	"github.com/pixtag/pixtag/common/detect/darknet"
	"github.com/pixtag/pixtag/common/events"
	"github.com/pixtag/pixtag/common/repository"
	"github.com/pixtag/pixtag/common/tasks"
)

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	// Components
	Components *bootstrap.Components

	// Repositories
	ImageRepo        *repository.ImageRepository
	SubscriptionRepo *repository.SubscriptionRepository

	// Infrastructure
	Blob     blob.Store
	Events   *events.Publisher
	Detector *darknet.Detector
	Engine   *detect.Engine

	// Services
	SearchService       *service.SearchService
	TagService          *service.TagService
	SubscriptionService *service.SubscriptionService
	ImageService        *service.ImageService

	asynqClient *asynq.Client
}

// NewContainer initializes all services and repositories once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	cfg := components.Config
	log := components.Logger

	// Detector handle is loaded once and shared; each request runs it
	// independently.
	detector, err := darknet.New(
		cfg.Detector.ConfigPath,
		cfg.Detector.WeightsPath,
		cfg.Detector.LabelsPath,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load detector: %w", err)
	}

	engine := detect.NewEngine(detector, log)
	blobStore := blob.NewRedisStore(components.Redis, log)
	publisher := events.NewPublisher(components.Redis, log)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	enqueuer := tasks.NewEnqueuer(asynqClient, cfg.Queue.Name, log)

	// Initialize repositories
	imageRepo := repository.NewImageRepository(components.DB)
	subscriptionRepo := repository.NewSubscriptionRepository(components.DB)

	// Initialize services (bottom-up: dependencies first)
	searchService := service.NewSearchService(imageRepo, engine, log)
	tagService := service.NewTagService(imageRepo, publisher, log)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, publisher, log)
	imageService := service.NewImageService(blobStore, imageRepo, enqueuer, cfg.Store, log)

	return &Container{
		Components:          components,
		ImageRepo:           imageRepo,
		SubscriptionRepo:    subscriptionRepo,
		Blob:                blobStore,
		Events:              publisher,
		Detector:            detector,
		Engine:              engine,
		SearchService:       searchService,
		TagService:          tagService,
		SubscriptionService: subscriptionService,
		ImageService:        imageService,
		asynqClient:         asynqClient,
	}, nil
}

// Close releases container-owned resources
func (c *Container) Close() error {
	var firstErr error
	if err := c.asynqClient.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := c.Detector.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
