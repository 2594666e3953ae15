package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pixtag/pixtag/common/apperr"
)

// errorStatus maps error kinds to HTTP status codes. Detector load failures
// surface as 400 to match the upstream API contract.
func errorStatus(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindInvalidInput, apperr.KindModelUnavailable:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func jsonError(c echo.Context, err error) error {
	return c.JSON(errorStatus(err), map[string]string{"error": err.Error()})
}
