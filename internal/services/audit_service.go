// Package services – AuditService
//
// This file persists the delete audit trail. AuditService implements
// mutation.Auditor, so every finished delete intent (committed, rolled back,
// rejected, declined or discarded) leaves one row behind, and exposes the
// recent entries to admins.
package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/contact-dashboard/internal/domain"
	"github.com/tbourn/contact-dashboard/internal/mutation"
	"github.com/tbourn/contact-dashboard/internal/repo"
)

// AuditService records and lists delete outcomes.
type AuditService struct {
	DB *gorm.DB
}

// NewAuditService constructs an AuditService.
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{DB: db}
}

// RecordDelete stores e. A storage failure is logged and otherwise ignored.
func (s *AuditService) RecordDelete(ctx context.Context, e mutation.AuditEntry) {
	err := repo.CreateDeleteAudit(ctx, s.DB, &domain.DeleteAudit{
		SubmissionID: e.SubmissionID,
		Actor:        e.Actor,
		Outcome:      e.Outcome,
		Message:      e.Message,
		RequestedAt:  e.RequestedAt.UTC(),
		ResolvedAt:   e.ResolvedAt.UTC(),
	})
	if err != nil {
		log.Error().Err(err).
			Str("submission_id", e.SubmissionID).
			Str("outcome", e.Outcome).
			Msg("delete audit write failed")
	}
}

// List returns recent entries, newest first, optionally for one submission.
func (s *AuditService) List(ctx context.Context, submissionID string, limit int) ([]domain.DeleteAudit, error) {
	return repo.ListDeleteAudit(ctx, s.DB, submissionID, limit)
}

// Outcomes returns the number of entries per outcome.
func (s *AuditService) Outcomes(ctx context.Context) (map[string]int64, error) {
	return repo.CountDeleteOutcomes(ctx, s.DB)
}

var _ mutation.Auditor = (*AuditService)(nil)
