// Delete audit HTTP handler.
//
//   - GET /audit   (recent delete outcomes, admin only)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/contact-dashboard/internal/domain"
	"github.com/tbourn/contact-dashboard/internal/repo"
	"github.com/tbourn/contact-dashboard/internal/utils"
)

const defaultAuditLimit = 50

// AuditResponse lists recent delete attempts and totals per outcome.
type AuditResponse struct {
	Entries  []domain.DeleteAudit `json:"entries"`
	Outcomes map[string]int64     `json:"outcomes"`
}

// ListDeleteAudit godoc
// @ID          listDeleteAudit
// @Summary     Delete audit trail
// @Description Most recent delete attempts first, optionally for one submission, with totals per outcome.
// @Tags        Audit
// @Produce     json
// @Security    BearerAuth
// @Param       submission_id  query  string  false  "Only this submission"
// @Param       limit          query  int     false  "Entries to return"  minimum(1) maximum(500) default(50)
// @Success     200  {object}  handlers.AuditResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Signed out"
// @Failure     403  {object}  handlers.ErrorResponse  "Not an admin"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /audit [get]
func (h *Handlers) ListDeleteAudit(c *gin.Context) {
	ctx := c.Request.Context()
	limit := utils.AtoiDefault(c.Query("limit"), defaultAuditLimit)
	if limit < 1 {
		limit = defaultAuditLimit
	}
	if limit > repo.MaxAuditPage {
		limit = repo.MaxAuditPage
	}

	entries, err := h.audit.List(ctx, strings.TrimSpace(c.Query("submission_id")), limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	outcomes, err := h.audit.Outcomes(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	if entries == nil {
		entries = []domain.DeleteAudit{}
	}
	ok(c, http.StatusOK, AuditResponse{Entries: entries, Outcomes: outcomes})
}
