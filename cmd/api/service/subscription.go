package service

import (
	"context"

	"github.com/pixtag/pixtag/common/apperr"
	"github.com/pixtag/pixtag/common/logger"
	"github.com/pixtag/pixtag/common/models"
)

// SubscriptionStore is the slice of the subscription repository the service needs
type SubscriptionStore interface {
	Get(ctx context.Context, subscriberID string) (*models.Subscription, error)
	Create(ctx context.Context, sub *models.Subscription) error
	UpdateTags(ctx context.Context, subscriberID string, tags models.TagSet) error
}

// SubscriptionService maintains per-subscriber tag interest sets
type SubscriptionService struct {
	repo   SubscriptionStore
	events ChangePublisher
	log    *logger.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(repo SubscriptionStore, events ChangePublisher, log *logger.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:   repo,
		events: events,
		log:    log,
	}
}

// Subscribe records a subscriber's interest in the given tags. A first
// request creates the subscription; later requests merge tags into the
// interest set by union, so re-subscribing to a held tag changes nothing.
// Welcome and update notifications are driven downstream by the change
// stream, never from here.
func (s *SubscriptionService) Subscribe(ctx context.Context, subscriberID string, tags []string) error {
	if subscriberID == "" || len(tags) == 0 {
		return apperr.New(apperr.KindInvalidInput, "subscriber id and tags are required")
	}

	existing, err := s.repo.Get(ctx, subscriberID)
	if err != nil {
		if !apperr.Is(err, apperr.KindNotFound) {
			return err
		}

		sub := &models.Subscription{
			SubscriberID: subscriberID,
			InterestTags: models.NewTagSet(tags...),
		}
		if err := s.repo.Create(ctx, sub); err != nil {
			return err
		}

		s.log.Info("subscription created",
			"subscriber_id", subscriberID,
			"tags", sub.InterestTags.Values(),
		)

		return s.events.Publish(ctx, models.ChangeEvent{
			Event:   models.EventInsert,
			Kind:    models.KindSubscription,
			ID:      subscriberID,
			NewTags: sub.InterestTags.Values(),
		})
	}

	merged := existing.InterestTags.Union(models.NewTagSet(tags...))
	if err := s.repo.UpdateTags(ctx, subscriberID, merged); err != nil {
		return err
	}

	s.log.Info("subscription merged",
		"subscriber_id", subscriberID,
		"tags", merged.Values(),
	)

	return s.events.Publish(ctx, models.ChangeEvent{
		Event:   models.EventModify,
		Kind:    models.KindSubscription,
		ID:      subscriberID,
		OldTags: existing.InterestTags.Values(),
		NewTags: merged.Values(),
	})
}
