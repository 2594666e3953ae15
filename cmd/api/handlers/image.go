package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pixtag/pixtag/cmd/api/service"
	"github.com/pixtag/pixtag/common/apperr"
)

// ImageHandler serves image upload and deletion requests
type ImageHandler struct {
	images *service.ImageService
}

// NewImageHandler creates a new image handler
func NewImageHandler(images *service.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

type uploadRequest struct {
	Image     string `json:"image"`
	ImageName string `json:"image_name"`
	UserEmail string `json:"user_email"`
}

// Upload decodes a base64 image, stores it and queues detection
// POST /api/v1/images
func (h *ImageHandler) Upload(c echo.Context) error {
	var req uploadRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apperr.Wrap(apperr.KindInvalidInput, "invalid request body", err))
	}

	if req.Image == "" || req.ImageName == "" || req.UserEmail == "" {
		return jsonError(c, apperr.New(apperr.KindInvalidInput,
			`request body must contain "user_email", "image" and "image_name" keys`))
	}

	data, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		return jsonError(c, apperr.Wrap(apperr.KindInvalidInput, "error decoding base64 image", err))
	}

	if err := h.images.Upload(c.Request().Context(), req.ImageName, data, req.UserEmail); err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "image " + req.ImageName + " uploaded successfully",
	})
}

type deleteRequest struct {
	ImageURLs []string `json:"image_url"`
}

// Delete removes the images behind the given thumbnail URLs. Per-item
// failures yield a 207 with the collected errors.
// POST /api/v1/images/delete
func (h *ImageHandler) Delete(c echo.Context) error {
	var req deleteRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apperr.Wrap(apperr.KindInvalidInput, "invalid request body", err))
	}

	if len(req.ImageURLs) == 0 {
		return jsonError(c, apperr.New(apperr.KindInvalidInput, "no links provided"))
	}

	errs := h.images.Delete(c.Request().Context(), req.ImageURLs)
	if len(errs) > 0 {
		messages := make([]string, 0, len(errs))
		for _, err := range errs {
			messages = append(messages, err.Error())
		}
		return c.JSON(http.StatusMultiStatus, map[string][]string{
			"errors": messages,
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "all image records and files deleted successfully",
	})
}
