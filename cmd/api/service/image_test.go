package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixtag/pixtag/common/config"
)

type fakeBlobStore struct {
	objects map[string][]byte
	deleted []string
	putErr  error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (s *fakeBlobStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	return s.objects[bucket+"/"+key], nil
}

func (s *fakeBlobStore) Put(ctx context.Context, bucket, key string, data []byte, metadata map[string]string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.objects[bucket+"/"+key] = data
	return nil
}

func (s *fakeBlobStore) Delete(ctx context.Context, bucket, key string) error {
	s.deleted = append(s.deleted, bucket+"/"+key)
	delete(s.objects, bucket+"/"+key)
	return nil
}

type fakeDetectQueue struct {
	keys []string
	err  error
}

func (q *fakeDetectQueue) EnqueueDetect(ctx context.Context, objectKey string) error {
	if q.err != nil {
		return q.err
	}
	q.keys = append(q.keys, objectKey)
	return nil
}

func storeConfig() config.ObjectStoreConfig {
	return config.ObjectStoreConfig{
		ImageBucket:     "images",
		ThumbnailBucket: "thumbnails",
		PublicBase:      "https://img.example.com",
	}
}

func TestUploadStoresObjectAndQueuesDetection(t *testing.T) {
	store := newFakeBlobStore()
	queue := &fakeDetectQueue{}
	svc := NewImageService(store, newFakeImageRepo(), queue, storeConfig(), testLogger())

	err := svc.Upload(context.Background(), "photo.jpg", []byte("data"), "alice@example.com")
	require.NoError(t, err)

	assert.Equal(t, []byte("data"), store.objects["images/photo.jpg"])
	assert.Equal(t, []string{"photo.jpg"}, queue.keys)
}

func TestUploadDoesNotQueueOnStoreFailure(t *testing.T) {
	store := newFakeBlobStore()
	store.putErr = errBoom
	queue := &fakeDetectQueue{}
	svc := NewImageService(store, newFakeImageRepo(), queue, storeConfig(), testLogger())

	err := svc.Upload(context.Background(), "photo.jpg", []byte("data"), "alice@example.com")
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, queue.keys)
}

func TestDeleteRemovesRecordAndObjects(t *testing.T) {
	rec := record("https://img.example.com/thumbnails/thumb-photo.jpg", "dog")
	rec.SourceURL = "https://img.example.com/images/photo.jpg"
	repo := newFakeImageRepo(rec)
	store := newFakeBlobStore()
	svc := NewImageService(store, repo, &fakeDetectQueue{}, storeConfig(), testLogger())

	errs := svc.Delete(context.Background(), []string{rec.ThumbnailURL})
	assert.Empty(t, errs)
	assert.Equal(t, []uuid.UUID{rec.ID}, repo.deleted)
	assert.Equal(t, []string{"thumbnails/thumb-photo.jpg", "images/photo.jpg"}, store.deleted)
}

func TestDeleteCollectsPerItemFailures(t *testing.T) {
	rec := record("https://img.example.com/thumbnails/thumb-photo.jpg", "dog")
	repo := newFakeImageRepo(rec)
	store := newFakeBlobStore()
	svc := NewImageService(store, repo, &fakeDetectQueue{}, storeConfig(), testLogger())

	errs := svc.Delete(context.Background(), []string{"missing.jpg", rec.ThumbnailURL})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "missing.jpg")
	assert.Equal(t, []uuid.UUID{rec.ID}, repo.deleted)
}
