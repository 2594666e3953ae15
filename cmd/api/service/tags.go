package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pixtag/pixtag/common/apperr"
	"github.com/pixtag/pixtag/common/logger"
	"github.com/pixtag/pixtag/common/models"
)

// MutationOp selects the direction of a tag mutation
type MutationOp int

const (
	// OpRemove deletes the requested tags; absent tags are no-ops
	OpRemove MutationOp = iota
	// OpAdd inserts the requested tags; present tags stay single
	OpAdd
)

// ImageMutator is the slice of the image repository the tag service needs
type ImageMutator interface {
	GetByThumbnailURL(ctx context.Context, url string) (*models.ImageRecord, error)
	UpdateTags(ctx context.Context, id uuid.UUID, tags models.TagSet) error
}

// ChangePublisher emits tag-set change events
type ChangePublisher interface {
	Publish(ctx context.Context, ev models.ChangeEvent) error
}

// TagService adds and removes tags on stored image records
type TagService struct {
	repo   ImageMutator
	events ChangePublisher
	log    *logger.Logger
}

// NewTagService creates a new tag service
func NewTagService(repo ImageMutator, events ChangePublisher, log *logger.Logger) *TagService {
	return &TagService{
		repo:   repo,
		events: events,
		log:    log,
	}
}

// MutateTags applies the operation independently per thumbnail URL. URLs that
// resolve to no record are skipped; any other failure aborts the request.
// The persisted tag collection is a true set, so re-adding a held tag
// changes nothing.
func (s *TagService) MutateTags(ctx context.Context, urls []string, tags []string, op MutationOp) error {
	for _, url := range urls {
		rec, err := s.repo.GetByThumbnailURL(ctx, url)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				s.log.Debug("skipping unresolved thumbnail url", "url", url)
				continue
			}
			return err
		}

		oldTags := rec.Tags
		newTags := applyMutation(oldTags, tags, op)

		if err := s.repo.UpdateTags(ctx, rec.ID, newTags); err != nil {
			return err
		}

		ev := models.ChangeEvent{
			Event:   models.EventModify,
			Kind:    models.KindImage,
			ID:      rec.ID.String(),
			OldTags: oldTags.Values(),
			NewTags: newTags.Values(),
		}
		if err := s.events.Publish(ctx, ev); err != nil {
			return err
		}

		s.log.Info("image tags mutated",
			"image_id", rec.ID,
			"op", op,
			"tags", newTags.Values(),
		)
	}

	return nil
}

func applyMutation(current models.TagSet, tags []string, op MutationOp) models.TagSet {
	updated := models.NewTagSet(current.Values()...)
	for _, tag := range tags {
		switch op {
		case OpAdd:
			updated.Add(tag)
		case OpRemove:
			updated.Remove(tag)
		}
	}
	return updated
}
