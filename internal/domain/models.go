// Package domain defines the submission shapes exchanged with the webhook API
// and the persistence models mapped with GORM.
//
// Submissions themselves are owned by the remote webhook service. The only
// rows this application writes locally are the delete audit trail and the
// idempotency records for contact-form posts. StoredSubmission backs the
// development webhook stub, which stands in for the remote service.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Delete audit outcomes.
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
	OutcomeRejected   = "rejected"
	OutcomeDeclined   = "declined"
	OutcomeDiscarded  = "discarded"
)

// DeleteAudit records how one delete intent ended.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - SubmissionID: remote id of the submission the intent targeted (may be empty
//     for rejected intents).
//   - Actor: user id of the operator.
//   - Outcome: one of the Outcome* constants (enforced by DB constraint).
//   - Message: the notice shown to the operator.
//   - RequestedAt / ResolvedAt: when the intent was created and settled.
type DeleteAudit struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	SubmissionID string    `json:"submission_id" gorm:"type:varchar(128);not null;default:'';index:idx_audit_submission"`
	Actor        string    `json:"actor"         gorm:"type:varchar(64);not null;index:idx_audit_actor"`
	Outcome      string    `json:"outcome"       gorm:"type:varchar(16);not null;check:outcome IN ('committed','rolled_back','rejected','declined','discarded')"`
	Message      string    `json:"message"       gorm:"type:text;not null;default:''"`
	RequestedAt  time.Time `json:"requested_at"`
	ResolvedAt   time.Time `json:"resolved_at"   gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for DeleteAudit.
func (DeleteAudit) TableName() string { return "delete_audit" }

// StoredSubmission is a contact submission persisted by the development
// webhook stub. Date keeps the raw string the stub hands back, so callers see
// the same heterogeneous formats the real service produces.
type StoredSubmission struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	Name      string         `json:"name"       gorm:"type:varchar(255);not null;default:''"`
	Email     string         `json:"email"      gorm:"type:varchar(320);not null;default:'';index"`
	Date      string         `json:"date"       gorm:"type:varchar(64);not null;default:''"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for StoredSubmission.
func (StoredSubmission) TableName() string { return "submissions" }

// Submission converts the stored row into the wire shape.
func (s StoredSubmission) Submission() Submission {
	return Submission{
		ID:           s.ID,
		Name:         s.Name,
		Email:        s.Email,
		Date:         s.Date,
		EmailPresent: true,
	}
}
