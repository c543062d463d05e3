// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the submission store behind the
// development webhook stub.
//
// Error semantics follow the rest of the package: a missing row is
// ErrNotFound, anything else is the raw gorm error.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/contact-dashboard/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateSubmission inserts a submission. date is stored verbatim; when empty
// the creation time is stored in MM/DD/YYYY form.
func CreateSubmission(ctx context.Context, db *gorm.DB, name, email, date string) (*domain.StoredSubmission, error) {
	now := time.Now().UTC()
	if date == "" {
		date = now.Format("01/02/2006")
	}
	s := &domain.StoredSubmission{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// ListSubmissions returns every live submission, newest first.
func ListSubmissions(ctx context.Context, db *gorm.DB) ([]domain.StoredSubmission, error) {
	var out []domain.StoredSubmission
	err := db.WithContext(ctx).Order("created_at DESC").Order("id ASC").Find(&out).Error
	return out, err
}

// DeleteSubmission soft-deletes id. A missing or already deleted row is
// ErrNotFound.
func DeleteSubmission(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.StoredSubmission{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
