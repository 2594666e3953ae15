package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixtag/pixtag/cmd/api/service"
	"github.com/pixtag/pixtag/common/apperr"
	"github.com/pixtag/pixtag/common/logger"
	"github.com/pixtag/pixtag/common/models"
)

type stubMutator struct {
	rec     *models.ImageRecord
	updated map[uuid.UUID]models.TagSet
}

func (m *stubMutator) GetByThumbnailURL(ctx context.Context, url string) (*models.ImageRecord, error) {
	if m.rec == nil || m.rec.ThumbnailURL != url {
		return nil, apperr.Newf(apperr.KindNotFound, "image not found for thumbnail url %s", url)
	}
	return m.rec, nil
}

func (m *stubMutator) UpdateTags(ctx context.Context, id uuid.UUID, tags models.TagSet) error {
	if m.updated == nil {
		m.updated = make(map[uuid.UUID]models.TagSet)
	}
	m.updated[id] = tags
	return nil
}

type stubPublisher struct{ events []models.ChangeEvent }

func (p *stubPublisher) Publish(ctx context.Context, ev models.ChangeEvent) error {
	p.events = append(p.events, ev)
	return nil
}

func postJSON(t *testing.T, handler echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, handler(e.NewContext(req, rec)))
	return rec
}

func newTagHandler(mutator *stubMutator) *TagHandler {
	svc := service.NewTagService(mutator, &stubPublisher{}, logger.New("error", "text"))
	return NewTagHandler(svc)
}

func TestMutateTags(t *testing.T) {
	mutator := &stubMutator{rec: &models.ImageRecord{
		ID:           uuid.New(),
		ThumbnailURL: "thumb-a.jpg",
		Tags:         models.NewTagSet("dog"),
	}}
	h := newTagHandler(mutator)

	rec := postJSON(t, h.MutateTags, `{"url":["thumb-a.jpg"],"tags":["cat"],"type":1}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"cat", "dog"}, mutator.updated[mutator.rec.ID].Values())
}

func TestMutateTagsRejectsMissingFields(t *testing.T) {
	h := newTagHandler(&stubMutator{})

	for name, body := range map[string]string{
		"no urls":      `{"tags":["cat"],"type":1}`,
		"no tags":      `{"url":["thumb-a.jpg"],"type":1}`,
		"no type":      `{"url":["thumb-a.jpg"],"tags":["cat"]}`,
		"bad type":     `{"url":["thumb-a.jpg"],"tags":["cat"],"type":2}`,
		"invalid json": `{"url":`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := postJSON(t, h.MutateTags, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestMutateTagsTypeZeroRemoves(t *testing.T) {
	mutator := &stubMutator{rec: &models.ImageRecord{
		ID:           uuid.New(),
		ThumbnailURL: "thumb-a.jpg",
		Tags:         models.NewTagSet("dog", "cat"),
	}}
	h := newTagHandler(mutator)

	rec := postJSON(t, h.MutateTags, `{"url":["thumb-a.jpg"],"tags":["cat"],"type":0}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"dog"}, mutator.updated[mutator.rec.ID].Values())
}
