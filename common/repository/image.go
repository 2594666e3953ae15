package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pixtag/pixtag/common/apperr"
	"github.com/pixtag/pixtag/common/db"
	"github.com/pixtag/pixtag/common/models"
)

// ImageRepository handles database operations for image records
type ImageRepository struct {
	db *db.DB
}

// NewImageRepository creates a new image repository
func NewImageRepository(db *db.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// Create inserts a new image record
func (r *ImageRepository) Create(ctx context.Context, rec *models.ImageRecord) error {
	query := `
		INSERT INTO image (id, source_url, thumbnail_url, tags)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		rec.ID,
		rec.SourceURL,
		rec.ThumbnailURL,
		rec.Tags.Values(),
	)

	if err != nil {
		return apperr.Wrap(apperr.KindUpstream, "failed to create image record", err)
	}

	return nil
}

// GetByThumbnailURL retrieves a record through the thumbnail-URL secondary
// index (exact match)
func (r *ImageRepository) GetByThumbnailURL(ctx context.Context, url string) (*models.ImageRecord, error) {
	query := `
		SELECT id, source_url, thumbnail_url, tags
		FROM image
		WHERE thumbnail_url = $1
	`

	rec, err := scanImage(r.db.QueryRow(ctx, query, url))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Newf(apperr.KindNotFound, "no image for thumbnail url %s", url)
		}
		return nil, apperr.Wrap(apperr.KindUpstream, "failed to get image by thumbnail url", err)
	}

	return rec, nil
}

// FindByTags returns every record whose tag set contains all of the given
// tags. The predicate is an explicit AND over per-tag membership clauses;
// result order is scan order.
func (r *ImageRepository) FindByTags(ctx context.Context, tags []string) ([]*models.ImageRecord, error) {
	if len(tags) == 0 {
		return nil, apperr.New(apperr.KindInvalidInput, "tags are required")
	}

	clauses := make([]string, len(tags))
	args := make([]any, len(tags))
	for i, tag := range tags {
		clauses[i] = fmt.Sprintf("$%d = ANY(tags)", i+1)
		args[i] = tag
	}

	query := fmt.Sprintf(`
		SELECT id, source_url, thumbnail_url, tags
		FROM image
		WHERE %s
	`, strings.Join(clauses, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "failed to query images by tags", err)
	}
	defer rows.Close()

	var records []*models.ImageRecord
	for rows.Next() {
		rec, err := scanImage(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindUpstream, "failed to scan image record", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "error iterating image records", err)
	}

	return records, nil
}

// UpdateTags replaces a record's tag collection (last writer wins)
func (r *ImageRepository) UpdateTags(ctx context.Context, id uuid.UUID, tags models.TagSet) error {
	query := `UPDATE image SET tags = $2 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, tags.Values())
	if err != nil {
		return apperr.Wrap(apperr.KindUpstream, "failed to update image tags", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindNotFound, "image not found: %s", id)
	}

	return nil
}

// Delete removes an image record
func (r *ImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM image WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return apperr.Wrap(apperr.KindUpstream, "failed to delete image record", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindNotFound, "image not found: %s", id)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImage(row rowScanner) (*models.ImageRecord, error) {
	var (
		rec  models.ImageRecord
		tags []string
	)
	if err := row.Scan(&rec.ID, &rec.SourceURL, &rec.ThumbnailURL, &tags); err != nil {
		return nil, err
	}
	rec.Tags = models.NewTagSet(tags...)
	return &rec, nil
}
