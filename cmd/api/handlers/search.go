package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pixtag/pixtag/cmd/api/service"
	"github.com/pixtag/pixtag/common/apperr"
	"github.com/pixtag/pixtag/common/models"
)

// SearchHandler serves tag and image based queries
type SearchHandler struct {
	search *service.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

type searchByTagsRequest struct {
	Tags []string `json:"tags"`
}

// SearchByTags returns the thumbnail URLs of images holding every query tag
// POST /api/v1/search/tags
func (h *SearchHandler) SearchByTags(c echo.Context) error {
	var req searchByTagsRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apperr.Wrap(apperr.KindInvalidInput, "invalid request body", err))
	}

	urls, err := h.search.FindByTags(c.Request().Context(), req.Tags)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, urls)
}

type searchByImageRequest struct {
	Image string `json:"image"`
}

type searchByImageResponse struct {
	Tags  models.TagSet         `json:"tags"`
	Items []*models.ImageRecord `json:"items"`
}

// SearchByImage detects tags on a submitted image and returns matching records
// POST /api/v1/search/image
func (h *SearchHandler) SearchByImage(c echo.Context) error {
	var req searchByImageRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apperr.Wrap(apperr.KindInvalidInput, "invalid request body", err))
	}

	if req.Image == "" {
		return jsonError(c, apperr.New(apperr.KindInvalidInput, "missing image data in request body"))
	}

	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		return jsonError(c, apperr.Wrap(apperr.KindInvalidInput, "failed to decode base64 image", err))
	}

	tags, items, err := h.search.FindByImage(c.Request().Context(), image)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, searchByImageResponse{
		Tags:  tags,
		Items: items,
	})
}

type resolveThumbnailRequest struct {
	ThumbnailURL string `json:"thumbnail_url"`
}

// ResolveThumbnail maps a thumbnail URL to its full image URL
// POST /api/v1/images/resolve
func (h *SearchHandler) ResolveThumbnail(c echo.Context) error {
	var req resolveThumbnailRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apperr.Wrap(apperr.KindInvalidInput, "invalid request body", err))
	}

	if req.ThumbnailURL == "" {
		return jsonError(c, apperr.New(apperr.KindInvalidInput, "no thumbnail URL provided"))
	}

	rec, err := h.search.FindByThumbnailURL(c.Request().Context(), req.ThumbnailURL)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"full_image_url": rec.SourceURL,
	})
}
