// Package devhook is a local stand-in for the remote submissions webhook. It
// serves the three webhook endpoints over a SQLite table so the dashboard can
// run end to end without the real backend:
//
//   - GET  /webhook/get-submissions          (JSON array, weak ETag)
//   - POST /webhook/delete-submission?id=    ({"ok":true} or {"ok":false,"error":...})
//   - POST /webhook/react-contact            ({"message":...})
//
// Dates are stored as the raw strings callers send, so the stub reproduces
// the mixed date formats the dashboard has to normalize.
package devhook

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/contact-dashboard/internal/http/middleware"
	"github.com/tbourn/contact-dashboard/internal/repo"
	"github.com/tbourn/contact-dashboard/internal/webhook"
)

// Error texts returned in delete payloads.
const (
	MsgMissingID = "Missing id"
	MsgNotFound  = "Record not found"
)

// ContactPayload is the body accepted by the contact endpoint. Date is an
// optional raw date string; empty means "now".
type ContactPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
}

// Server serves the webhook endpoints from db.
type Server struct {
	db *gorm.DB
}

// New returns a Server over db. The caller runs repo.AutoMigrateDevhook.
func New(db *gorm.DB) *Server { return &Server{db: db} }

// Register mounts the webhook routes on r.
func (s *Server) Register(r gin.IRouter) {
	r.GET(webhook.PathList, s.list)
	r.POST(webhook.PathDelete, s.delete)
	r.POST(webhook.PathContact, s.contact)
}

// Router returns a standalone engine with request ids, access logs and panic
// recovery in front of the webhook routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))
	r.Use(middleware.Recovery())
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	s.Register(r)
	return r
}

func (s *Server) list(c *gin.Context) {
	ctx := c.Request.Context()

	count, maxTS, err := repo.SubmissionsStats(ctx, s.db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}
	var ts int64
	if maxTS != nil {
		ts = maxTS.UnixNano()
	}
	etag := fmt.Sprintf(`W/"submissions:%d:%d"`, count, ts)
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return
	}

	subs, err := repo.ListSubmissions(ctx, s.db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	out := make([]gin.H, len(subs))
	for i, sub := range subs {
		out[i] = gin.H{"id": sub.ID, "name": sub.Name, "email": sub.Email, "date": sub.Date}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) delete(c *gin.Context) {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": MsgMissingID})
		return
	}
	err := repo.DeleteSubmission(c.Request.Context(), s.db, id)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": MsgNotFound})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "delete failed"})
	default:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func (s *Server) contact(c *gin.Context) {
	var in ContactPayload
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON body"})
		return
	}
	name, email := strings.TrimSpace(in.Name), strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name and email are required"})
		return
	}
	if _, err := repo.CreateSubmission(c.Request.Context(), s.db, name, email, strings.TrimSpace(in.Date)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "store failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": webhook.MsgContactSuccess})
}
