package detect

import (
	"sort"

	"github.com/pixtag/pixtag/common/models"
)

const (
	// ConfidenceThreshold is the minimum score for a detection to enter
	// non-maximum suppression at all
	ConfidenceThreshold = 0.3
	// NMSThreshold is the IoU above which an overlapping box is suppressed
	NMSThreshold = 0.1
	// OutputThreshold is the stricter cut applied to NMS survivors before a
	// label becomes a tag
	OutputThreshold = 0.5
)

// Postprocess reduces raw detector output to a tag set: threshold the
// candidates, suppress overlapping boxes, apply the output cut and map the
// surviving class ids to labels. Duplicate labels collapse to one tag.
func Postprocess(raw *RawOutput, labels []string) models.TagSet {
	candidates := decodeCandidates(raw)
	survivors := nonMaxSuppression(candidates, ConfidenceThreshold, NMSThreshold)

	tags := models.NewTagSet()
	for _, det := range survivors {
		if det.Confidence < OutputThreshold {
			continue
		}
		if det.ClassID < 0 || det.ClassID >= len(labels) {
			continue
		}
		tags.Add(labels[det.ClassID])
	}
	return tags
}

// decodeCandidates scales normalized center-form boxes to top-left pixel
// form and drops weak detections.
func decodeCandidates(raw *RawOutput) []models.Detection {
	w := float32(raw.Width)
	h := float32(raw.Height)

	var candidates []models.Detection
	for _, layer := range raw.Layers {
		for _, vec := range layer {
			if len(vec) < 5 {
				continue
			}
			classID, confidence := argmax(vec[4:])
			if confidence <= ConfidenceThreshold {
				continue
			}

			centerX := vec[0] * w
			centerY := vec[1] * h
			width := vec[2] * w
			height := vec[3] * h

			candidates = append(candidates, models.Detection{
				Box: models.DetectionBox{
					X:      centerX - width/2,
					Y:      centerY - height/2,
					Width:  width,
					Height: height,
				},
				Confidence: confidence,
				ClassID:    classID,
			})
		}
	}
	return candidates
}

// nonMaxSuppression keeps the highest-scoring box of each overlapping
// cluster: candidates are visited in descending confidence order and any
// later box overlapping a kept one beyond iouThresh is discarded.
func nonMaxSuppression(candidates []models.Detection, scoreThresh, iouThresh float32) []models.Detection {
	ordered := make([]models.Detection, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Confidence > ordered[j].Confidence
	})

	suppressed := make([]bool, len(ordered))
	var kept []models.Detection

	for i := range ordered {
		if suppressed[i] || ordered[i].Confidence < scoreThresh {
			continue
		}
		kept = append(kept, ordered[i])
		for j := i + 1; j < len(ordered); j++ {
			if suppressed[j] {
				continue
			}
			if iou(ordered[i].Box, ordered[j].Box) > iouThresh {
				suppressed[j] = true
			}
		}
	}
	return kept
}

// iou computes intersection-over-union of two boxes in top-left form
func iou(a, b models.DetectionBox) float32 {
	x1 := maxf(a.X, b.X)
	y1 := maxf(a.Y, b.Y)
	x2 := minf(a.X+a.Width, b.X+b.Width)
	y2 := minf(a.Y+a.Height, b.Y+b.Height)

	interW := x2 - x1
	interH := y2 - y1
	if interW <= 0 || interH <= 0 {
		return 0
	}

	inter := interW * interH
	union := a.Width*a.Height + b.Width*b.Height - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// argmax returns the index and value of the largest score
func argmax(scores []float32) (int, float32) {
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return best, scores[best]
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
