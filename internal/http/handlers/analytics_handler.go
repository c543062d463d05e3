// Analytics HTTP handlers.
//
//   - GET /analytics          (daily series, 7-day average, top domains)
//   - GET /analytics/export   (XLSX or PDF)
package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/contact-dashboard/internal/export"
	"github.com/tbourn/contact-dashboard/internal/services"
)

// parseAnalyticsQuery reads days, top and refresh. Missing values pick the
// service defaults.
func parseAnalyticsQuery(c *gin.Context) (services.AnalyticsQuery, string, string) {
	q := services.AnalyticsQuery{Refresh: queryBool(c, "refresh")}
	var err error
	if q.DaysBack, err = optionalInt(c.Query("days")); err != nil {
		return q, ErrCodeInvalidRange, "days must be an integer"
	}
	if q.TopN, err = optionalInt(c.Query("top")); err != nil {
		return q, ErrCodeInvalidTop, "top must be an integer"
	}
	return q, "", ""
}

func optionalInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func failAnalytics(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRange):
		fail(c, http.StatusBadRequest, ErrCodeInvalidRange, err.Error())
	case errors.Is(err, services.ErrInvalidTopN):
		fail(c, http.StatusBadRequest, ErrCodeInvalidTop, err.Error())
	default:
		failLoad(c, err)
	}
}

// GetAnalytics godoc
// @ID          getAnalytics
// @Summary     Submission analytics
// @Description Daily submission counts over the last N calendar days (zero-filled, oldest first) with a
// @Description trailing 7-day average, plus the top email domains over all submissions.
// @Tags        Analytics
// @Produce     json
// @Security    BearerAuth
// @Param       days     query  int   false  "Look-back in days"  Enums(7, 14, 30, 60, 90) default(30)
// @Param       top      query  int   false  "Domains to rank"    Enums(5, 7, 10, 15) default(10)
// @Param       refresh  query  bool  false  "Refetch from the webhook first"
// @Success     200  {object}  services.AnalyticsReport
// @Failure     400  {object}  handlers.ErrorResponse  "Range or ranking size not allowed"
// @Failure     503  {object}  handlers.ErrorResponse  "Submissions never loaded"
// @Router      /analytics [get]
func (h *Handlers) GetAnalytics(c *gin.Context) {
	q, code, msg := parseAnalyticsQuery(c)
	if code != "" {
		fail(c, http.StatusBadRequest, code, msg)
		return
	}
	rep, err := h.analytics.Report(c.Request.Context(), q)
	if err != nil {
		failAnalytics(c, err)
		return
	}
	ok(c, http.StatusOK, rep)
}

// ExportAnalytics godoc
// @ID          exportAnalytics
// @Summary     Export analytics
// @Description Downloads Analytics.xlsx (Daily and Domains sheets) or Analytics.pdf (summary and charts).
// @Tags        Analytics
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce     application/pdf
// @Security    BearerAuth
// @Param       format  query  string  true   "Document format"    Enums(xlsx, pdf)
// @Param       days    query  int     false  "Look-back in days"  Enums(7, 14, 30, 60, 90)
// @Param       top     query  int     false  "Domains to rank"    Enums(5, 7, 10, 15)
// @Success     200  {file}    file
// @Failure     400  {object}  handlers.ErrorResponse  "Bad format, range or ranking size"
// @Failure     503  {object}  handlers.ErrorResponse  "Submissions never loaded"
// @Router      /analytics/export [get]
func (h *Handlers) ExportAnalytics(c *gin.Context) {
	f, err := export.ParseFormat(c.Query("format"), export.XLSX, export.PDF)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadFormat, err.Error())
		return
	}
	q, code, msg := parseAnalyticsQuery(c)
	if code != "" {
		fail(c, http.StatusBadRequest, code, msg)
		return
	}

	var buf bytes.Buffer
	if err := h.analytics.Export(c.Request.Context(), q, f, &buf); err != nil {
		failAnalytics(c, err)
		return
	}
	attachment(c, f.Filename(services.AnalyticsFile), f.ContentType(), buf.Bytes())
}
