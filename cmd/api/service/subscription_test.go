package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixtag/pixtag/common/apperr"
	"github.com/pixtag/pixtag/common/models"
)

func TestSubscribeValidatesInput(t *testing.T) {
	svc := NewSubscriptionService(newFakeSubscriptionStore(), &fakePublisher{}, testLogger())

	err := svc.Subscribe(context.Background(), "", []string{"dog"})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	err = svc.Subscribe(context.Background(), "alice@example.com", nil)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestSubscribeCreatesSubscription(t *testing.T) {
	store := newFakeSubscriptionStore()
	pub := &fakePublisher{}
	svc := NewSubscriptionService(store, pub, testLogger())

	err := svc.Subscribe(context.Background(), "alice@example.com", []string{"dog", "dog", "cat"})
	require.NoError(t, err)

	sub := store.subs["alice@example.com"]
	require.NotNil(t, sub)
	assert.Equal(t, []string{"cat", "dog"}, sub.InterestTags.Values())

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, models.EventInsert, ev.Event)
	assert.Equal(t, models.KindSubscription, ev.Kind)
	assert.Equal(t, "alice@example.com", ev.ID)
	assert.Equal(t, []string{"cat", "dog"}, ev.NewTags)
}

func TestSubscribeMergesByUnion(t *testing.T) {
	store := newFakeSubscriptionStore(&models.Subscription{
		SubscriberID: "alice@example.com",
		InterestTags: models.NewTagSet("dog"),
	})
	pub := &fakePublisher{}
	svc := NewSubscriptionService(store, pub, testLogger())

	err := svc.Subscribe(context.Background(), "alice@example.com", []string{"cat"})
	require.NoError(t, err)

	assert.Equal(t, []string{"cat", "dog"}, store.subs["alice@example.com"].InterestTags.Values())

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, models.EventModify, ev.Event)
	assert.Equal(t, []string{"dog"}, ev.OldTags)
	assert.Equal(t, []string{"cat", "dog"}, ev.NewTags)
}

func TestSubscribeRepeatIsIdempotent(t *testing.T) {
	store := newFakeSubscriptionStore(&models.Subscription{
		SubscriberID: "alice@example.com",
		InterestTags: models.NewTagSet("dog"),
	})
	pub := &fakePublisher{}
	svc := NewSubscriptionService(store, pub, testLogger())

	err := svc.Subscribe(context.Background(), "alice@example.com", []string{"dog"})
	require.NoError(t, err)

	assert.Equal(t, []string{"dog"}, store.subs["alice@example.com"].InterestTags.Values())

	// A modify event is still emitted; the reconciler compares old and
	// new sets and drops it as a no-op.
	require.Len(t, pub.events, 1)
	assert.Equal(t, pub.events[0].OldTags, pub.events[0].NewTags)
}

func TestSubscribePropagatesCreateFailure(t *testing.T) {
	store := newFakeSubscriptionStore()
	store.createErr = errBoom
	svc := NewSubscriptionService(store, &fakePublisher{}, testLogger())

	err := svc.Subscribe(context.Background(), "alice@example.com", []string{"dog"})
	assert.ErrorIs(t, err, errBoom)
}
