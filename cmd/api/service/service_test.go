package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pixtag/pixtag/common/apperr"
	"github.com/pixtag/pixtag/common/logger"
	"github.com/pixtag/pixtag/common/models"
)

func testLogger() *logger.Logger {
	return logger.New("error", "text")
}

// fakeImageRepo backs the search and tag services with an in-memory record
// map keyed by thumbnail URL.
type fakeImageRepo struct {
	records     map[string]*models.ImageRecord
	findCalls   [][]string
	updatedTags map[uuid.UUID]models.TagSet
	deleted     []uuid.UUID
	findErr     error
	updateErr   error
	deleteErr   error
	getErrByURL map[string]error
}

func newFakeImageRepo(records ...*models.ImageRecord) *fakeImageRepo {
	r := &fakeImageRepo{
		records:     make(map[string]*models.ImageRecord),
		updatedTags: make(map[uuid.UUID]models.TagSet),
		getErrByURL: make(map[string]error),
	}
	for _, rec := range records {
		r.records[rec.ThumbnailURL] = rec
	}
	return r
}

func (r *fakeImageRepo) FindByTags(ctx context.Context, tags []string) ([]*models.ImageRecord, error) {
	r.findCalls = append(r.findCalls, tags)
	if r.findErr != nil {
		return nil, r.findErr
	}

	var matches []*models.ImageRecord
	for _, rec := range r.records {
		all := true
		for _, tag := range tags {
			if !rec.Tags.Contains(tag) {
				all = false
				break
			}
		}
		if all {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

func (r *fakeImageRepo) GetByThumbnailURL(ctx context.Context, url string) (*models.ImageRecord, error) {
	if err, ok := r.getErrByURL[url]; ok {
		return nil, err
	}
	rec, ok := r.records[url]
	if !ok {
		return nil, apperr.Newf(apperr.KindNotFound, "image not found for thumbnail url %s", url)
	}
	return rec, nil
}

func (r *fakeImageRepo) UpdateTags(ctx context.Context, id uuid.UUID, tags models.TagSet) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updatedTags[id] = tags
	return nil
}

func (r *fakeImageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deleted = append(r.deleted, id)
	for url, rec := range r.records {
		if rec.ID == id {
			delete(r.records, url)
		}
	}
	return nil
}

type fakeTagDetector struct {
	tags models.TagSet
	err  error
}

func (d *fakeTagDetector) Detect(ctx context.Context, image []byte) (models.TagSet, error) {
	if d.err != nil {
		return models.TagSet{}, d.err
	}
	return d.tags, nil
}

type fakePublisher struct {
	events []models.ChangeEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, ev models.ChangeEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

type fakeSubscriptionStore struct {
	subs      map[string]*models.Subscription
	createErr error
	updateErr error
}

func newFakeSubscriptionStore(subs ...*models.Subscription) *fakeSubscriptionStore {
	s := &fakeSubscriptionStore{subs: make(map[string]*models.Subscription)}
	for _, sub := range subs {
		s.subs[sub.SubscriberID] = sub
	}
	return s
}

func (s *fakeSubscriptionStore) Get(ctx context.Context, subscriberID string) (*models.Subscription, error) {
	sub, ok := s.subs[subscriberID]
	if !ok {
		return nil, apperr.Newf(apperr.KindNotFound, "subscription not found for %s", subscriberID)
	}
	return sub, nil
}

func (s *fakeSubscriptionStore) Create(ctx context.Context, sub *models.Subscription) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.subs[sub.SubscriberID] = sub
	return nil
}

func (s *fakeSubscriptionStore) UpdateTags(ctx context.Context, subscriberID string, tags models.TagSet) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	sub, ok := s.subs[subscriberID]
	if !ok {
		return apperr.Newf(apperr.KindNotFound, "subscription not found for %s", subscriberID)
	}
	sub.InterestTags = tags
	return nil
}

var errBoom = errors.New("boom")
