// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file stores the delete audit trail: one row per
// finished delete intent, whatever its outcome.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/contact-dashboard/internal/domain"
)

// MaxAuditPage caps ListDeleteAudit.
const MaxAuditPage = 500

// CreateDeleteAudit inserts a, assigning an ID and CreatedAt when unset.
func CreateDeleteAudit(ctx context.Context, db *gorm.DB, a *domain.DeleteAudit) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(a).Error
}

// ListDeleteAudit returns the most recent entries, newest first, optionally
// filtered by submission id. limit is clamped to [1, MaxAuditPage].
func ListDeleteAudit(ctx context.Context, db *gorm.DB, submissionID string, limit int) ([]domain.DeleteAudit, error) {
	if limit <= 0 || limit > MaxAuditPage {
		limit = MaxAuditPage
	}
	q := db.WithContext(ctx).Model(&domain.DeleteAudit{})
	if submissionID != "" {
		q = q.Where("submission_id = ?", submissionID)
	}
	var out []domain.DeleteAudit
	err := q.Order("resolved_at DESC").Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}

// CountDeleteOutcomes returns the number of entries per outcome.
func CountDeleteOutcomes(ctx context.Context, db *gorm.DB) (map[string]int64, error) {
	var rows []struct {
		Outcome string
		N       int64
	}
	err := db.WithContext(ctx).Model(&domain.DeleteAudit{}).
		Select("outcome, COUNT(*) AS n").
		Group("outcome").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Outcome] = r.N
	}
	return out, nil
}
