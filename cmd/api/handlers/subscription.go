package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pixtag/pixtag/cmd/api/service"
	"github.com/pixtag/pixtag/common/apperr"
)

// SubscriptionHandler serves tag subscription requests
type SubscriptionHandler struct {
	subscriptions *service.SubscriptionService
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subscriptions *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

type subscribeRequest struct {
	UserEmail      string   `json:"user_email"`
	SubscribedTags []string `json:"subscribed_tags"`
}

// Subscribe creates or merges a subscriber's tag interest set
// POST /api/v1/subscriptions
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	var req subscribeRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apperr.Wrap(apperr.KindInvalidInput, "invalid request body", err))
	}

	if err := h.subscriptions.Subscribe(c.Request().Context(), req.UserEmail, req.SubscribedTags); err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Subscription updated successfully",
	})
}
