package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/pixtag/pixtag/common/blob"
	"github.com/pixtag/pixtag/common/config"
	"github.com/pixtag/pixtag/common/detect"
	"github.com/pixtag/pixtag/common/logger"
	"github.com/pixtag/pixtag/common/models"
	"github.com/pixtag/pixtag/common/tasks"
)

// ImageCreator is the slice of the image repository ingestion needs
type ImageCreator interface {
	Create(ctx context.Context, rec *models.ImageRecord) error
}

// ChangePublisher emits tag-set change events
type ChangePublisher interface {
	Publish(ctx context.Context, ev models.ChangeEvent) error
}

// Ingestor runs detection on uploaded objects and persists the resulting
// image records. A detector failure fails the task; no record is written.
type Ingestor struct {
	store  blob.Store
	engine *detect.Engine
	repo   ImageCreator
	events ChangePublisher
	cfg    config.ObjectStoreConfig
	log    *logger.Logger
}

// NewIngestor creates a new ingestor
func NewIngestor(store blob.Store, engine *detect.Engine, repo ImageCreator, events ChangePublisher, cfg config.ObjectStoreConfig, log *logger.Logger) *Ingestor {
	return &Ingestor{
		store:  store,
		engine: engine,
		repo:   repo,
		events: events,
		cfg:    cfg,
		log:    log,
	}
}

// HandleDetect processes one detect task: fetch the object, derive its tag
// set, create the record and announce the change.
func (i *Ingestor) HandleDetect(ctx context.Context, t *asynq.Task) error {
	var payload tasks.DetectPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal detect payload: %w", err)
	}
	if payload.ObjectKey == "" {
		return fmt.Errorf("detect payload missing object key")
	}

	log := i.log.WithFields(map[string]any{"object_key": payload.ObjectKey})

	image, err := i.store.Get(ctx, i.cfg.ImageBucket, payload.ObjectKey)
	if err != nil {
		return fmt.Errorf("fetch uploaded object: %w", err)
	}

	tags, err := i.engine.Detect(ctx, image)
	if err != nil {
		return fmt.Errorf("detect tags: %w", err)
	}

	rec := &models.ImageRecord{
		ID:           uuid.New(),
		SourceURL:    i.cfg.ObjectURL(i.cfg.ImageBucket, payload.ObjectKey),
		ThumbnailURL: i.cfg.ObjectURL(i.cfg.ThumbnailBucket, "thumb-"+payload.ObjectKey),
		Tags:         tags,
	}

	if err := i.repo.Create(ctx, rec); err != nil {
		return fmt.Errorf("persist image record: %w", err)
	}

	if err := i.events.Publish(ctx, models.ChangeEvent{
		Event:   models.EventInsert,
		Kind:    models.KindImage,
		ID:      rec.ID.String(),
		NewTags: tags.Values(),
	}); err != nil {
		return fmt.Errorf("announce image record: %w", err)
	}

	log.Info("image ingested", "image_id", rec.ID, "tags", tags.Values())
	return nil
}
