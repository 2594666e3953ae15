package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pixtag/pixtag/common/blob"
	"github.com/pixtag/pixtag/common/config"
	"github.com/pixtag/pixtag/common/logger"
	"github.com/pixtag/pixtag/common/models"
)

// ImageStore is the slice of the image repository image deletion needs
type ImageStore interface {
	GetByThumbnailURL(ctx context.Context, url string) (*models.ImageRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DetectQueue submits detect work for freshly uploaded objects
type DetectQueue interface {
	EnqueueDetect(ctx context.Context, objectKey string) error
}

// ImageService handles upload and deletion plumbing around the object store
// and the metadata store
type ImageService struct {
	store blob.Store
	repo  ImageStore
	queue DetectQueue
	cfg   config.ObjectStoreConfig
	log   *logger.Logger
}

// NewImageService creates a new image service
func NewImageService(store blob.Store, repo ImageStore, queue DetectQueue, cfg config.ObjectStoreConfig, log *logger.Logger) *ImageService {
	return &ImageService{
		store: store,
		repo:  repo,
		queue: queue,
		cfg:   cfg,
		log:   log,
	}
}

// Upload stores the decoded image in the object store and queues detection.
// The image record itself is written by the detect worker once tags exist.
func (s *ImageService) Upload(ctx context.Context, name string, data []byte, userEmail string) error {
	metadata := map[string]string{"user_email": userEmail}
	if err := s.store.Put(ctx, s.cfg.ImageBucket, name, data, metadata); err != nil {
		return err
	}

	if err := s.queue.EnqueueDetect(ctx, name); err != nil {
		return err
	}

	s.log.Info("image uploaded", "key", name, "size", len(data))
	return nil
}

// Delete removes each image identified by its thumbnail URL: the metadata
// record first, then the derived object-store keys. Failures are collected
// per item; one bad record does not block the rest of the batch.
func (s *ImageService) Delete(ctx context.Context, thumbnailURLs []string) []error {
	var errs []error

	for _, url := range thumbnailURLs {
		if err := s.deleteOne(ctx, url); err != nil {
			s.log.Error("image deletion failed", "thumbnail_url", url, "error", err)
			errs = append(errs, fmt.Errorf("error deleting image for thumbnail URL %s: %w", url, err))
		}
	}

	return errs
}

func (s *ImageService) deleteOne(ctx context.Context, thumbnailURL string) error {
	rec, err := s.repo.GetByThumbnailURL(ctx, thumbnailURL)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, rec.ID); err != nil {
		return err
	}

	thumbKey := lastSegment(rec.ThumbnailURL)
	if err := s.store.Delete(ctx, s.cfg.ThumbnailBucket, thumbKey); err != nil {
		return err
	}

	imageKey := strings.TrimPrefix(lastSegment(rec.SourceURL), "thumb-")
	if err := s.store.Delete(ctx, s.cfg.ImageBucket, imageKey); err != nil {
		return err
	}

	s.log.Info("image deleted", "image_id", rec.ID, "thumbnail_url", thumbnailURL)
	return nil
}

func lastSegment(url string) string {
	if idx := strings.LastIndex(url, "/"); idx >= 0 {
		return url[idx+1:]
	}
	return url
}
