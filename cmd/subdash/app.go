package main

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tbourn/contact-dashboard/internal/auth"
	"github.com/tbourn/contact-dashboard/internal/config"
	"github.com/tbourn/contact-dashboard/internal/dashboard"
	"github.com/tbourn/contact-dashboard/internal/mutation"
	"github.com/tbourn/contact-dashboard/internal/repo"
	"github.com/tbourn/contact-dashboard/internal/search"
	"github.com/tbourn/contact-dashboard/internal/services"
	"github.com/tbourn/contact-dashboard/internal/store"
	"github.com/tbourn/contact-dashboard/internal/webhook"
)

// app is the fully wired service graph shared by the server and the CLI.
type app struct {
	db        *gorm.DB
	client    *webhook.Client
	store     *store.Store
	deletes   *mutation.Coordinator
	subs      *services.SubmissionService
	analytics *services.AnalyticsService
	contact   *services.ContactService
	audit     *services.AuditService
	verifier  *auth.Verifier
}

func newApp(c config.Config) (*app, error) {
	db, err := repo.OpenSQLite(c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.DBPath, err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	loc := c.Location()
	client := webhook.New(c.Webhook.BaseURL, webhook.WithTimeout(c.Webhook.Timeout))
	st := store.New(client)
	auditSvc := services.NewAuditService(db)
	deletes := mutation.New(st, client,
		mutation.WithNoticeTTL(c.Dashboard.NoticeTTL),
		mutation.WithAuditor(auditSvc),
	)

	views, err := dashboard.NewViews(c.Dashboard.ViewCacheSize)
	if err != nil {
		if sqlDB, derr := db.DB(); derr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	subs := services.NewSubmissionService(st, search.NewEngine(search.WithLocation(loc)), views, deletes)
	subs.PageSize = c.Dashboard.PageSize
	subs.Window = c.Dashboard.PageWindow

	an := services.NewAnalyticsService(st, loc)
	an.DefaultDays = c.Analytics.DaysDefault
	an.DaysChoices = c.Analytics.DaysChoices
	an.DefaultTop = c.Analytics.TopDefault
	an.TopChoices = c.Analytics.TopChoices

	contact := services.NewContactService(db, client)
	contact.TTL = c.IdempotencyTTL

	a := &app{
		db:        db,
		client:    client,
		store:     st,
		deletes:   deletes,
		subs:      subs,
		analytics: an,
		contact:   contact,
		audit:     auditSvc,
	}
	if c.Auth.JWTSecret != "" {
		a.verifier = auth.NewVerifier(c.Auth.JWTSecret, c.Auth.JWTIssuer)
	}
	return a, nil
}

// Close stops the notice timer, discards late delete responses and closes
// the database.
func (a *app) Close() error {
	a.deletes.Close()
	a.store.Close()
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// withApp builds the app for the duration of fn.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
