package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pixtag/pixtag/common/apperr"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", apperr.New(apperr.KindInvalidInput, "bad"), http.StatusBadRequest},
		{"model unavailable", apperr.New(apperr.KindModelUnavailable, "no model"), http.StatusBadRequest},
		{"not found", apperr.New(apperr.KindNotFound, "gone"), http.StatusNotFound},
		{"upstream", apperr.New(apperr.KindUpstream, "redis down"), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped kind", apperr.Wrap(apperr.KindNotFound, "lookup", errors.New("no rows")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorStatus(tt.err))
		})
	}
}
