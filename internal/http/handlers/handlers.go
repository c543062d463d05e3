// Package handlers exposes the submissions dashboard over HTTP.
//
// Handlers are transport-thin: they parse and validate the request, call an
// application service, and translate the result or error into the standard
// envelope (see response.go and errors.go). Identity comes from the
// Authenticate middleware; role gates are applied by the router.
package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/contact-dashboard/internal/auth"
	"github.com/tbourn/contact-dashboard/internal/domain"
	"github.com/tbourn/contact-dashboard/internal/export"
	"github.com/tbourn/contact-dashboard/internal/http/middleware"
	"github.com/tbourn/contact-dashboard/internal/mutation"
	"github.com/tbourn/contact-dashboard/internal/services"
	"github.com/tbourn/contact-dashboard/internal/webhook"
)

//
// Service contracts (context-aware)
//

// SubmissionService serves the dashboard list, deletes and exports.
type SubmissionService interface {
	List(ctx context.Context, viewer string, q services.ListQuery) (*services.ListResult, error)
	Delete(ctx context.Context, actor, id string, confirmed bool) (mutation.Intent, error)
	Export(ctx context.Context, q services.ListQuery, f export.Format, w io.Writer) error
}

// AnalyticsService computes and exports the analytics view.
type AnalyticsService interface {
	Report(ctx context.Context, q services.AnalyticsQuery) (*services.AnalyticsReport, error)
	Export(ctx context.Context, q services.AnalyticsQuery, f export.Format, w io.Writer) error
}

// ContactService forwards contact-form submissions.
type ContactService interface {
	Submit(ctx context.Context, userID, key string, in webhook.ContactRequest) (*services.ContactResult, error)
}

// AuditService reads the delete audit trail.
type AuditService interface {
	List(ctx context.Context, submissionID string, limit int) ([]domain.DeleteAudit, error)
	Outcomes(ctx context.Context) (map[string]int64, error)
}

//
// Handler wiring
//

// Handlers groups the dashboard endpoints. Any service may be nil when the
// router does not mount its routes.
type Handlers struct {
	subs      SubmissionService
	analytics AnalyticsService
	contact   ContactService
	audit     AuditService
}

// New constructs Handlers bound to the given services.
func New(subs SubmissionService, analytics AnalyticsService, contact ContactService, audit AuditService) *Handlers {
	return &Handlers{subs: subs, analytics: analytics, contact: contact, audit: audit}
}

// viewer keys per-viewer dashboard state and audit entries.
func viewer(c *gin.Context) string {
	return middleware.UserIDOrAnonymous(c)
}

// MeResponse describes the caller.
type MeResponse struct {
	auth.Identity
	IsAdmin bool `json:"is_admin" example:"false"`
}

// Me godoc
// @ID          getMe
// @Summary     Current identity
// @Description Returns the resolved caller: load and sign-in state, role, and whether deletes are allowed.
// @Tags        Identity
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  handlers.MeResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Signed out"
// @Router      /me [get]
func (h *Handlers) Me(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	ok(c, http.StatusOK, MeResponse{Identity: id, IsAdmin: id.IsAdmin()})
}
