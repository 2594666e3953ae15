package models

import "github.com/google/uuid"

// ImageRecord is the stored metadata for one detected image. The id is
// generated at detection time and never reused; the thumbnail URL is unique
// and serves as the external lookup key.
type ImageRecord struct {
	ID           uuid.UUID `json:"id"`
	SourceURL    string    `json:"s3_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Tags         TagSet    `json:"tags"`
}

// DetectionBox is an axis-aligned rectangle in image pixel coordinates
type DetectionBox struct {
	X      float32
	Y      float32
	Width  float32
	Height float32
}

// Detection is one surviving candidate from the detector output
type Detection struct {
	Box        DetectionBox
	Confidence float32
	ClassID    int
}
