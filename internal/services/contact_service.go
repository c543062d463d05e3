// Package services – ContactService
//
// This file implements ContactService, which forwards contact-form posts to
// the webhook. When the caller supplies an idempotency key, the first
// successful outcome is recorded for (user, "contact", key) and replayed for
// retries within the TTL instead of posting the form again. Failures are never
// recorded, so a retry after a failure reaches the webhook.
package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/contact-dashboard/internal/repo"
	"github.com/tbourn/contact-dashboard/internal/webhook"
)

// ScopeContact is the idempotency scope of contact submissions.
const ScopeContact = "contact"

// DefaultIdempotencyTTL is how long a recorded contact outcome is replayed.
const DefaultIdempotencyTTL = 24 * time.Hour

// Operator-facing contact messages for failed submissions.
const (
	MsgContactUnexpected = "Unexpected response from server!"
	MsgContactNetwork    = "Something went wrong."
)

// ContactSender posts a contact form to the remote service.
type ContactSender interface {
	SubmitContact(ctx context.Context, in webhook.ContactRequest) (string, error)
}

// ContactResult is the outcome shown to the submitter.
type ContactResult struct {
	Status   int    `json:"-"`
	Message  string `json:"message"`
	Replayed bool   `json:"-"`
}

// ContactService submits contact forms with optional replay protection.
type ContactService struct {
	// DB stores idempotency records; nil disables replay protection.
	DB     *gorm.DB
	Sender ContactSender
	TTL    time.Duration
}

// NewContactService constructs a ContactService with DefaultIdempotencyTTL.
func NewContactService(db *gorm.DB, sender ContactSender) *ContactService {
	return &ContactService{DB: db, Sender: sender, TTL: DefaultIdempotencyTTL}
}

// Replayable reports whether a recorded outcome exists for (userID, key).
// It backs the idempotency middleware lookup.
func (s *ContactService) Replayable(ctx context.Context, userID, key string, now time.Time) (bool, error) {
	if s.DB == nil || key == "" {
		return false, nil
	}
	_, err := repo.GetIdempotency(ctx, s.DB, userID, ScopeContact, key, now)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Submit validates in and forwards it. Name and email are trimmed; both are
// required.
func (s *ContactService) Submit(ctx context.Context, userID, key string, in webhook.ContactRequest) (*ContactResult, error) {
	tr := otel.Tracer("services/ContactService")
	ctx, span := tr.Start(ctx, "Submit",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Bool("idempotent", key != ""),
		),
	)
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" {
		return nil, ErrInvalidContact
	}

	if s.DB != nil && key != "" {
		rec, err := repo.GetIdempotency(ctx, s.DB, userID, ScopeContact, key, time.Now().UTC())
		if err == nil {
			span.SetAttributes(attribute.Bool("replayed", true))
			return &ContactResult{Status: rec.Status, Message: rec.Body, Replayed: true}, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			log.Warn().Err(err).Str("key", key).Msg("idempotency lookup failed")
		}
	}

	msg, err := s.Sender.SubmitContact(ctx, in)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	res := &ContactResult{Status: http.StatusOK, Message: msg}

	if s.DB != nil && key != "" {
		ttl := s.TTL
		if ttl <= 0 {
			ttl = DefaultIdempotencyTTL
		}
		if _, err := repo.CreateIdempotency(ctx, s.DB, userID, ScopeContact, key, res.Status, res.Message, ttl); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			log.Warn().Err(err).Str("key", key).Msg("idempotency record failed")
		}
	}
	return res, nil
}

// FailureMessage maps a Submit error to the message shown to the submitter.
// A JSON reply that fails to decode gets the same generic message as a
// transport failure.
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidContact):
		return ErrInvalidContact.Error()
	case errors.Is(err, webhook.ErrNetwork), errors.Is(err, webhook.ErrMalformedBody):
		return MsgContactNetwork
	default:
		return MsgContactUnexpected
	}
}
