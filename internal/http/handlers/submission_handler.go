// Submission HTTP handlers.
//
// This file exposes the dashboard endpoints:
//   - GET    /submissions          (query, sort, paginate)
//   - DELETE /submissions/{id}     (optimistic delete, admin only)
//   - GET    /submissions/export   (XLSX, CSV or PDF of the full processed list)
package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/contact-dashboard/internal/export"
	"github.com/tbourn/contact-dashboard/internal/mutation"
	"github.com/tbourn/contact-dashboard/internal/search"
	"github.com/tbourn/contact-dashboard/internal/services"
)

//
// DTOs
//

// DeleteResponse reports a committed delete.
type DeleteResponse struct {
	ID     string `json:"id" example:"42"`
	State  string `json:"state" example:"committed"`
	Notice string `json:"notice" example:"Record Deleted Successfully!"`
}

//
// Helpers
//

// parseListQuery reads q, today, sort, page and refresh. A missing page
// keeps the viewer's remembered page.
func parseListQuery(c *gin.Context) (services.ListQuery, string, string) {
	sort, err := search.ParseSortKey(c.Query("sort"))
	if err != nil {
		return services.ListQuery{}, ErrCodeBadSort, err.Error()
	}
	page := 0
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return services.ListQuery{}, ErrCodeBadPage, "page must be a positive integer"
		}
		page = n
	}
	return services.ListQuery{
		Term:      c.Query("q"),
		TodayOnly: queryBool(c, "today"),
		Sort:      sort,
		Page:      page,
		Refresh:   queryBool(c, "refresh"),
	}, "", ""
}

// queryBool treats "1", "true", "yes" and "on" (any case) as true.
func queryBool(c *gin.Context, key string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(key))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// failLoad maps list-loading errors shared by every read endpoint.
func failLoad(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnavailable):
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "submissions are unavailable, try again later")
	case errors.Is(err, services.ErrUnsupportedFormat):
		fail(c, http.StatusBadRequest, ErrCodeBadFormat, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

//
// Handlers
//

// ListSubmissions godoc
// @ID          listSubmissions
// @Summary     List submissions
// @Description Filters by a case-insensitive term over name and email, optionally keeps only today's
// @Description submissions, sorts, and returns one page. Changing the query resets the viewer to page 1;
// @Description an out-of-range page is clamped. Omit page to stay on the remembered page.
// @Tags        Submissions
// @Produce     json
// @Security    BearerAuth
// @Param       q        query  string  false  "Search term"                     example(acme)
// @Param       today    query  bool    false  "Only submissions dated today"
// @Param       sort     query  string  false  "Sort order"                      Enums(date_desc, date_asc, name_asc, name_desc) default(date_desc)
// @Param       page     query  int     false  "Page number"                     minimum(1)
// @Param       refresh  query  bool    false  "Refetch from the webhook first"
// @Success     200  {object}  services.ListResult
// @Failure     400  {object}  handlers.ErrorResponse  "Bad sort or page"
// @Failure     401  {object}  handlers.ErrorResponse  "Signed out"
// @Failure     503  {object}  handlers.ErrorResponse  "Submissions never loaded"
// @Router      /submissions [get]
func (h *Handlers) ListSubmissions(c *gin.Context) {
	q, code, msg := parseListQuery(c)
	if code != "" {
		fail(c, http.StatusBadRequest, code, msg)
		return
	}
	res, err := h.subs.List(c.Request.Context(), viewer(c), q)
	if err != nil {
		failLoad(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// DeleteSubmission godoc
// @ID          deleteSubmission
// @Summary     Delete a submission
// @Description Removes the submission from the list immediately, then asks the webhook to delete it.
// @Description On failure the row is restored at its original position. confirm=true answers the
// @Description confirmation prompt; without it nothing changes.
// @Tags        Submissions
// @Produce     json
// @Security    BearerAuth
// @Param       id       path   string  true  "Submission id"
// @Param       confirm  query  bool    true  "Confirm the delete"
// @Success     200  {object}  handlers.DeleteResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing id or confirmation"
// @Failure     401  {object}  handlers.ErrorResponse  "Signed out"
// @Failure     403  {object}  handlers.ErrorResponse  "Not an admin"
// @Failure     409  {object}  handlers.ErrorResponse  "Delete already in flight"
// @Failure     502  {object}  handlers.ErrorResponse  "Webhook rejected the delete or was unreachable"
// @Router      /submissions/{id} [delete]
func (h *Handlers) DeleteSubmission(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	in, err := h.subs.Delete(c.Request.Context(), viewer(c), id, queryBool(c, "confirm"))

	var fe *mutation.FailureError
	switch {
	case errors.Is(err, mutation.ErrMissingID):
		fail(c, http.StatusBadRequest, ErrCodeMissingID, mutation.MsgMissingID)
	case errors.Is(err, mutation.ErrDuplicate):
		fail(c, http.StatusConflict, ErrCodeDeleteInFlight, err.Error())
	case errors.Is(err, mutation.ErrDiscarded):
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, err.Error())
	case errors.As(err, &fe) && fe.Network:
		fail(c, http.StatusBadGateway, ErrCodeNetwork, fe.Message)
	case errors.As(err, &fe):
		fail(c, http.StatusBadGateway, ErrCodeDeleteFailed, fe.Message)
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	case in.State != mutation.Committed:
		fail(c, http.StatusBadRequest, ErrCodeConfirmationRequired, mutation.MsgConfirm)
	default:
		ok(c, http.StatusOK, DeleteResponse{ID: in.ID, State: in.State.String(), Notice: in.Notice})
	}
}

// ExportSubmissions godoc
// @ID          exportSubmissions
// @Summary     Export submissions
// @Description Downloads the full filtered and sorted list (not just the current page) as
// @Description Submissions_Dashboard.xlsx, .csv or .pdf.
// @Tags        Submissions
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce     text/csv
// @Produce     application/pdf
// @Security    BearerAuth
// @Param       format   query  string  true   "Document format"  Enums(xlsx, csv, pdf)
// @Param       q        query  string  false  "Search term"
// @Param       today    query  bool    false  "Only submissions dated today"
// @Param       sort     query  string  false  "Sort order"       Enums(date_desc, date_asc, name_asc, name_desc)
// @Success     200  {file}    file
// @Failure     400  {object}  handlers.ErrorResponse  "Bad format or sort"
// @Failure     503  {object}  handlers.ErrorResponse  "Submissions never loaded"
// @Router      /submissions/export [get]
func (h *Handlers) ExportSubmissions(c *gin.Context) {
	f, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadFormat, err.Error())
		return
	}
	q, code, msg := parseListQuery(c)
	if code != "" {
		fail(c, http.StatusBadRequest, code, msg)
		return
	}

	var buf bytes.Buffer
	if err := h.subs.Export(c.Request.Context(), q, f, &buf); err != nil {
		failLoad(c, err)
		return
	}
	attachment(c, f.Filename(services.DashboardFile), f.ContentType(), buf.Bytes())
}
