package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pixtag/pixtag/cmd/api/service"
	"github.com/pixtag/pixtag/common/apperr"
)

// TagHandler serves tag mutation requests
type TagHandler struct {
	tags *service.TagService
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tags *service.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

type mutateTagsRequest struct {
	URLs []string `json:"url"`
	Tags []string `json:"tags"`
	// Type selects the operation: 1 adds, 0 removes
	Type *int `json:"type"`
}

// MutateTags adds or removes tags on the records behind the given thumbnail URLs
// POST /api/v1/tags
func (h *TagHandler) MutateTags(c echo.Context) error {
	var req mutateTagsRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apperr.Wrap(apperr.KindInvalidInput, "invalid request body", err))
	}

	if len(req.URLs) == 0 || len(req.Tags) == 0 || req.Type == nil || (*req.Type != 0 && *req.Type != 1) {
		return jsonError(c, apperr.New(apperr.KindInvalidInput, "invalid input"))
	}

	op := service.OpRemove
	if *req.Type == 1 {
		op = service.OpAdd
	}

	if err := h.tags.MutateTags(c.Request().Context(), req.URLs, req.Tags, op); err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "tags updated successfully",
	})
}
