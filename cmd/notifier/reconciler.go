package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixtag/pixtag/common/logger"
	"github.com/pixtag/pixtag/common/models"
	"github.com/pixtag/pixtag/common/notify"
)

// SubscriptionLister enumerates all stored subscriptions
type SubscriptionLister interface {
	List(ctx context.Context) ([]*models.Subscription, error)
}

// Reconciler decides which tag-set changes warrant a notification and
// produces it. Records inside one batch are handled independently: a failed
// subscribe or publish is logged and never blocks the other records.
type Reconciler struct {
	subscriptions SubscriptionLister
	notifier      notify.Service
	topic         string
	log           *logger.Logger
}

// NewReconciler creates a new reconciler
func NewReconciler(subscriptions SubscriptionLister, notifier notify.Service, topic string, log *logger.Logger) *Reconciler {
	return &Reconciler{
		subscriptions: subscriptions,
		notifier:      notifier,
		topic:         topic,
		log:           log,
	}
}

// Handle processes one change event from the metadata store's stream
func (r *Reconciler) Handle(ctx context.Context, ev models.ChangeEvent) error {
	switch ev.Kind {
	case models.KindSubscription:
		return r.handleSubscription(ctx, ev)
	case models.KindImage:
		return r.handleImage(ctx, ev)
	default:
		r.log.Warn("ignoring change event of unknown kind", "kind", ev.Kind, "id", ev.ID)
		return nil
	}
}

// handleSubscription welcomes new subscribers and confirms real interest-set
// changes. Old and new tags are compared as unordered sets: a re-submitted
// or reordered interest list never fires.
func (r *Reconciler) handleSubscription(ctx context.Context, ev models.ChangeEvent) error {
	switch ev.Event {
	case models.EventInsert:
		if err := r.notifier.Subscribe(ctx, r.topic, ev.ID); err != nil {
			return err
		}
		return r.notifier.Publish(ctx, r.topic, notify.Message{
			Subject:  "Subscription Confirmation",
			Body:     fmt.Sprintf("Welcome! You've subscribed to tags: %s.", strings.Join(ev.NewTags, ", ")),
			Endpoint: ev.ID,
		})

	case models.EventModify:
		oldTags := models.NewTagSet(ev.OldTags...)
		newTags := models.NewTagSet(ev.NewTags...)
		if oldTags.Equal(newTags) {
			r.log.Debug("suppressing no-op subscription update", "subscriber_id", ev.ID)
			return nil
		}
		return r.notifier.Publish(ctx, r.topic, notify.Message{
			Subject:  "Subscription Update",
			Body:     fmt.Sprintf("Your subscription tags have been updated to: %s.", strings.Join(newTags.Values(), ", ")),
			Endpoint: ev.ID,
		})
	}

	return nil
}

// handleImage notifies subscribers whose interest set intersects the image's
// tags. Modifications that leave the tag set unchanged are suppressed.
func (r *Reconciler) handleImage(ctx context.Context, ev models.ChangeEvent) error {
	newTags := models.NewTagSet(ev.NewTags...)

	if ev.Event == models.EventModify {
		oldTags := models.NewTagSet(ev.OldTags...)
		if oldTags.Equal(newTags) {
			r.log.Debug("suppressing no-op image tag update", "image_id", ev.ID)
			return nil
		}
	}

	if newTags.IsEmpty() {
		return nil
	}

	subs, err := r.subscriptions.List(ctx)
	if err != nil {
		return fmt.Errorf("list subscriptions: %w", err)
	}

	subject := "New Tagged Image"
	body := fmt.Sprintf("A new image was tagged: %s.", strings.Join(newTags.Values(), ", "))
	if ev.Event == models.EventModify {
		subject = "Image Tags Updated"
		body = fmt.Sprintf("An image you follow now carries tags: %s.", strings.Join(newTags.Values(), ", "))
	}

	notified := 0
	for _, sub := range subs {
		if !sub.InterestTags.Intersects(newTags) {
			continue
		}
		err := r.notifier.Publish(ctx, r.topic, notify.Message{
			Subject:  subject,
			Body:     body,
			Endpoint: sub.SubscriberID,
		})
		if err != nil {
			// One undeliverable subscriber must not block the rest
			r.log.Error("failed to notify subscriber",
				"subscriber_id", sub.SubscriberID,
				"image_id", ev.ID,
				"error", err,
			)
			continue
		}
		notified++
	}

	r.log.Info("image change reconciled",
		"image_id", ev.ID,
		"event", ev.Event,
		"notified", notified,
	)
	return nil
}
