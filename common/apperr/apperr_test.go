package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(New(KindNotFound, "missing")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestKindOfWalksWrapChain(t *testing.T) {
	inner := Wrap(KindUpstream, "store call failed", errors.New("timeout"))
	outer := fmt.Errorf("handling request: %w", inner)

	assert.Equal(t, KindUpstream, KindOf(outer))
	assert.True(t, Is(outer, KindUpstream))
	assert.False(t, Is(outer, KindNotFound))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "missing", New(KindNotFound, "missing").Error())
	assert.Equal(t, "no image 7", Newf(KindNotFound, "no image %d", 7).Error())

	wrapped := Wrap(KindUpstream, "publish failed", errors.New("conn reset"))
	assert.Equal(t, "publish failed: conn reset", wrapped.Error())
	assert.EqualError(t, errors.Unwrap(wrapped), "conn reset")
}
