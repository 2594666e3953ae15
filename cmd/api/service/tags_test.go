package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixtag/pixtag/common/models"
)

func TestMutateTagsAdd(t *testing.T) {
	rec := record("thumb-a.jpg", "dog")
	repo := newFakeImageRepo(rec)
	pub := &fakePublisher{}
	svc := NewTagService(repo, pub, testLogger())

	err := svc.MutateTags(context.Background(), []string{"thumb-a.jpg"}, []string{"cat"}, OpAdd)
	require.NoError(t, err)

	assert.Equal(t, []string{"cat", "dog"}, repo.updatedTags[rec.ID].Values())

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, models.EventModify, ev.Event)
	assert.Equal(t, models.KindImage, ev.Kind)
	assert.Equal(t, []string{"dog"}, ev.OldTags)
	assert.Equal(t, []string{"cat", "dog"}, ev.NewTags)
}

func TestMutateTagsAddHeldTagIsNoOp(t *testing.T) {
	rec := record("thumb-a.jpg", "dog")
	repo := newFakeImageRepo(rec)
	svc := NewTagService(repo, &fakePublisher{}, testLogger())

	err := svc.MutateTags(context.Background(), []string{"thumb-a.jpg"}, []string{"dog"}, OpAdd)
	require.NoError(t, err)

	assert.Equal(t, []string{"dog"}, repo.updatedTags[rec.ID].Values())
}

func TestMutateTagsRemove(t *testing.T) {
	rec := record("thumb-a.jpg", "dog", "cat")
	repo := newFakeImageRepo(rec)
	svc := NewTagService(repo, &fakePublisher{}, testLogger())

	err := svc.MutateTags(context.Background(), []string{"thumb-a.jpg"}, []string{"cat"}, OpRemove)
	require.NoError(t, err)

	assert.Equal(t, []string{"dog"}, repo.updatedTags[rec.ID].Values())
}

func TestMutateTagsRemoveAbsentTagIsNoOp(t *testing.T) {
	rec := record("thumb-a.jpg", "dog")
	repo := newFakeImageRepo(rec)
	svc := NewTagService(repo, &fakePublisher{}, testLogger())

	err := svc.MutateTags(context.Background(), []string{"thumb-a.jpg"}, []string{"horse"}, OpRemove)
	require.NoError(t, err)

	assert.Equal(t, []string{"dog"}, repo.updatedTags[rec.ID].Values())
}

func TestMutateTagsSkipsUnresolvedURLs(t *testing.T) {
	rec := record("thumb-a.jpg", "dog")
	repo := newFakeImageRepo(rec)
	svc := NewTagService(repo, &fakePublisher{}, testLogger())

	err := svc.MutateTags(context.Background(), []string{"missing.jpg", "thumb-a.jpg"}, []string{"cat"}, OpAdd)
	require.NoError(t, err)

	assert.Equal(t, []string{"cat", "dog"}, repo.updatedTags[rec.ID].Values())
}

func TestMutateTagsPropagatesLookupFailure(t *testing.T) {
	repo := newFakeImageRepo(record("thumb-a.jpg", "dog"))
	repo.getErrByURL["broken.jpg"] = errBoom
	svc := NewTagService(repo, &fakePublisher{}, testLogger())

	err := svc.MutateTags(context.Background(), []string{"broken.jpg"}, []string{"cat"}, OpAdd)
	assert.ErrorIs(t, err, errBoom)
}

func TestMutateTagsPropagatesUpdateFailure(t *testing.T) {
	repo := newFakeImageRepo(record("thumb-a.jpg", "dog"))
	repo.updateErr = errBoom
	svc := NewTagService(repo, &fakePublisher{}, testLogger())

	err := svc.MutateTags(context.Background(), []string{"thumb-a.jpg"}, []string{"cat"}, OpAdd)
	assert.ErrorIs(t, err, errBoom)
}
