package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/pixtag/pixtag/common/apperr"
	"github.com/pixtag/pixtag/common/db"
	"github.com/pixtag/pixtag/common/models"
)

// SubscriptionRepository handles database operations for subscriptions
type SubscriptionRepository struct {
	db *db.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *db.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Get retrieves a subscription by subscriber id
func (r *SubscriptionRepository) Get(ctx context.Context, subscriberID string) (*models.Subscription, error) {
	query := `
		SELECT subscriber_id, interest_tags
		FROM subscription
		WHERE subscriber_id = $1
	`

	var (
		sub  models.Subscription
		tags []string
	)
	err := r.db.QueryRow(ctx, query, subscriberID).Scan(&sub.SubscriberID, &tags)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Newf(apperr.KindNotFound, "no subscription for %s", subscriberID)
		}
		return nil, apperr.Wrap(apperr.KindUpstream, "failed to get subscription", err)
	}

	sub.InterestTags = models.NewTagSet(tags...)
	return &sub, nil
}

// Create inserts a new subscription
func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	query := `
		INSERT INTO subscription (subscriber_id, interest_tags)
		VALUES ($1, $2)
	`

	_, err := r.db.Exec(ctx, query, sub.SubscriberID, sub.InterestTags.Values())
	if err != nil {
		return apperr.Wrap(apperr.KindUpstream, "failed to create subscription", err)
	}

	return nil
}

// UpdateTags replaces a subscription's interest set
func (r *SubscriptionRepository) UpdateTags(ctx context.Context, subscriberID string, tags models.TagSet) error {
	query := `UPDATE subscription SET interest_tags = $2 WHERE subscriber_id = $1`

	result, err := r.db.Exec(ctx, query, subscriberID, tags.Values())
	if err != nil {
		return apperr.Wrap(apperr.KindUpstream, "failed to update subscription tags", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindNotFound, "subscription not found: %s", subscriberID)
	}

	return nil
}

// List retrieves all subscriptions
func (r *SubscriptionRepository) List(ctx context.Context) ([]*models.Subscription, error) {
	query := `
		SELECT subscriber_id, interest_tags
		FROM subscription
		ORDER BY subscriber_id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "failed to list subscriptions", err)
	}
	defer rows.Close()

	var subs []*models.Subscription
	for rows.Next() {
		var (
			sub  models.Subscription
			tags []string
		)
		if err := rows.Scan(&sub.SubscriberID, &tags); err != nil {
			return nil, apperr.Wrap(apperr.KindUpstream, "failed to scan subscription", err)
		}
		sub.InterestTags = models.NewTagSet(tags...)
		subs = append(subs, &sub)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "error iterating subscriptions", err)
	}

	return subs, nil
}
