// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// identity, idempotency, rate limiting, CORS, and security headers.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/tbourn/contact-dashboard/docs"
	"github.com/tbourn/contact-dashboard/internal/auth"
	"github.com/tbourn/contact-dashboard/internal/config"
	"github.com/tbourn/contact-dashboard/internal/http/handlers"
	"github.com/tbourn/contact-dashboard/internal/http/middleware"
	"github.com/tbourn/contact-dashboard/internal/services"
)

// maxBodyBytes caps request bodies; the only body the API accepts is the
// contact form.
const maxBodyBytes = 1 << 20

// ContactService is the contact handler contract plus the replay lookup the
// idempotency middleware needs.
type ContactService interface {
	handlers.ContactService
	Replayable(ctx context.Context, userID, key string, now time.Time) (bool, error)
}

// Deps are the services and identity verifier the routes are bound to. A nil
// Verifier selects header identity.
type Deps struct {
	Submissions handlers.SubmissionService
	Analytics   handlers.AnalyticsService
	Contact     ContactService
	Audit       handlers.AuditService
	Verifier    *auth.Verifier
}

// RegisterRoutes attaches all middleware and HTTP endpoints to r.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip
//  7. Metrics
//  8. Authenticate (identity keys the next two layers)
//  9. Idempotency validator (before rate limiter to allow bypass on replay)
//  10. Rate limiter (per user/IP, bypass on replay)
//  11. CORS and Security headers
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(middleware.Authenticate(deps.Verifier))

	var lookup middleware.IdempotencyLookup
	if deps.Contact != nil {
		lookup = func(ctx context.Context, userID, _, key string, now time.Time) (bool, error) {
			return deps.Contact.Replayable(ctx, userID, key, now)
		}
	}
	contactPath := joinPath(cfg.APIBasePath, "/contact")
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
			Scope: func(c *gin.Context) string {
				if c.FullPath() == contactPath {
					return services.ScopeContact
				}
				return ""
			},
		},
		lookup,
	))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP(), "/health", "/metrics")
	r.Use(rl.Handler())

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		EnablePolicy: true,
		Expose:       middleware.DefaultExposedHeaders,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(deps.Submissions, deps.Analytics, deps.Contact, deps.Audit)
	viewers := middleware.RequireRoles(auth.RoleUser, auth.RoleAdmin)
	admins := middleware.RequireRoles(auth.RoleAdmin)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.GET("/me", middleware.RequireSignedIn(), h.Me)

		if deps.Contact != nil {
			api.POST("/contact", h.SubmitContact)
		}

		if deps.Submissions != nil {
			api.GET("/submissions", viewers, h.ListSubmissions)
			api.GET("/submissions/export", viewers, h.ExportSubmissions)
			api.DELETE("/submissions/:id", admins, h.DeleteSubmission)
		}

		if deps.Analytics != nil {
			api.GET("/analytics", viewers, h.GetAnalytics)
			api.GET("/analytics/export", viewers, h.ExportAnalytics)
		}

		if deps.Audit != nil {
			api.GET("/audit", admins, h.ListDeleteAudit)
		}
	}
}

// corsMiddleware returns the CORS layers. With no allowlist every origin is
// allowed without credentials; otherwise allowed origins are echoed back.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	methods := []string{"GET", "POST", "DELETE", "OPTIONS"}
	headers := []string{
		"Origin", "Content-Type", "Accept", "Authorization",
		middleware.HeaderUserID, middleware.HeaderUserRole, middleware.HeaderIdempotencyKey,
	}
	expose := append([]string{"X-Request-ID", "Content-Length"}, middleware.DefaultExposedHeaders...)

	if len(origins) == 0 {
		return []gin.HandlerFunc{
			// Force ACAO: * even without an Origin header.
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(cors.Config{
				AllowAllOrigins:  true,
				AllowMethods:     methods,
				AllowHeaders:     headers,
				ExposeHeaders:    expose,
				AllowCredentials: false, // must remain false with AllowAllOrigins
				MaxAge:           12 * time.Hour,
			}),
		}
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return []gin.HandlerFunc{
		func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		},
		cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     methods,
			AllowHeaders:     headers,
			ExposeHeaders:    expose,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
	}
}

// limitBody caps the request body at maxBytes using http.MaxBytesReader;
// reads past the cap fail.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

// joinPath joins the API base path and a route the way groupWithPrefix does.
func joinPath(base, route string) string {
	if base == "" || base == "/" {
		return route
	}
	return base + route
}
