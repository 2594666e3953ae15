// Package detect turns raw object-detector output into a deduplicated tag set.
package detect

import (
	"context"

	"github.com/pixtag/pixtag/common/apperr"
	"github.com/pixtag/pixtag/common/logger"
	"github.com/pixtag/pixtag/common/models"
)

// Layer is one detector output layer: rows of detection vectors. Each vector
// carries (centerX, centerY, width, height) normalized to [0,1] in its first
// four entries and per-class scores in the rest.
type Layer [][]float32

// RawOutput is the result of one forward pass, together with the pixel
// dimensions of the decoded input image.
type RawOutput struct {
	Layers []Layer
	Width  int
	Height int
}

// Detector is a ready model handle. Loading and caching the model is the
// caller's concern; the engine only runs it.
type Detector interface {
	// Forward decodes the encoded image and runs a forward pass
	Forward(ctx context.Context, image []byte) (*RawOutput, error)
	// Labels returns the class label list indexed by class id
	Labels() []string
}

// Engine runs a detector and post-processes its output into tags.
// It holds no state across calls.
type Engine struct {
	detector Detector
	log      *logger.Logger
}

// NewEngine creates a detection engine around a ready detector handle
func NewEngine(detector Detector, log *logger.Logger) *Engine {
	return &Engine{
		detector: detector,
		log:      log,
	}
}

// Detect runs the detector on an encoded image and returns the tag set.
// An image with no detections yields an empty set and no error; a detector
// failure is classified as model-unavailable and nothing may be persisted.
func (e *Engine) Detect(ctx context.Context, image []byte) (models.TagSet, error) {
	raw, err := e.detector.Forward(ctx, image)
	if err != nil {
		return models.TagSet{}, apperr.Wrap(apperr.KindModelUnavailable, "detector forward pass failed", err)
	}

	tags := Postprocess(raw, e.detector.Labels())

	e.log.Debug("detection complete",
		"width", raw.Width,
		"height", raw.Height,
		"tags", tags.Values(),
	)

	return tags, nil
}
