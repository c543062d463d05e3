// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the development webhook.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/contact-dashboard/internal/domain"
)

// SubmissionsStats returns the number of live submissions and the greatest
// UpdatedAt among them (nil when there are none).
//
// Soft-deleted rows are excluded from the count, so a delete changes the
// count even though the remaining rows keep their timestamps.
func SubmissionsStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.StoredSubmission{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = db.WithContext(ctx).Model(&domain.StoredSubmission{}).
		Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
