package service

import (
	"context"

	"github.com/pixtag/pixtag/common/apperr"
	"github.com/pixtag/pixtag/common/logger"
	"github.com/pixtag/pixtag/common/models"
)

// ImageFinder is the slice of the image repository the search service needs
type ImageFinder interface {
	FindByTags(ctx context.Context, tags []string) ([]*models.ImageRecord, error)
	GetByThumbnailURL(ctx context.Context, url string) (*models.ImageRecord, error)
}

// TagDetector derives a tag set from an encoded image
type TagDetector interface {
	Detect(ctx context.Context, image []byte) (models.TagSet, error)
}

// SearchService answers tag-membership queries over stored image records
type SearchService struct {
	repo     ImageFinder
	detector TagDetector
	log      *logger.Logger
}

// NewSearchService creates a new search service
func NewSearchService(repo ImageFinder, detector TagDetector, log *logger.Logger) *SearchService {
	return &SearchService{
		repo:     repo,
		detector: detector,
		log:      log,
	}
}

// FindByTags returns the thumbnail URL of every record whose tag set
// contains all of the query tags
func (s *SearchService) FindByTags(ctx context.Context, tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, apperr.New(apperr.KindInvalidInput, "tags are required")
	}

	records, err := s.repo.FindByTags(ctx, tags)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(records))
	for _, rec := range records {
		urls = append(urls, rec.ThumbnailURL)
	}

	s.log.Info("tag query served", "tags", tags, "matches", len(urls))
	return urls, nil
}

// FindByThumbnailURL resolves a thumbnail URL to its full record
func (s *SearchService) FindByThumbnailURL(ctx context.Context, url string) (*models.ImageRecord, error) {
	return s.repo.GetByThumbnailURL(ctx, url)
}

// FindByImage detects tags on the submitted image and returns the detected
// set together with every record matching all of them. An image yielding no
// tags short-circuits without touching the store.
func (s *SearchService) FindByImage(ctx context.Context, image []byte) (models.TagSet, []*models.ImageRecord, error) {
	tags, err := s.detector.Detect(ctx, image)
	if err != nil {
		return models.TagSet{}, nil, err
	}

	if tags.IsEmpty() {
		s.log.Info("no tags detected in submitted image")
		return tags, []*models.ImageRecord{}, nil
	}

	records, err := s.repo.FindByTags(ctx, tags.Values())
	if err != nil {
		return models.TagSet{}, nil, err
	}

	s.log.Info("image query served", "tags", tags.Values(), "matches", len(records))
	return tags, records, nil
}
