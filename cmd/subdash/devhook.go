package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/tbourn/contact-dashboard/internal/devhook"
	"github.com/tbourn/contact-dashboard/internal/repo"
)

var devhookCmd = &cobra.Command{
	Use:   "devhook",
	Short: "Run a local stand-in for the submissions webhook",
	Long: `devhook serves GET /webhook/get-submissions,
POST /webhook/delete-submission?id= and POST /webhook/react-contact from a
local SQLite file (DEVHOOK_DB_PATH) on DEVHOOK_PORT. Point API_BASE at it
to run the dashboard without the real backend.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, err := repo.OpenSQLite(cfg.Devhook.DBPath)
		if err != nil {
			return fmt.Errorf("open %s: %w", cfg.Devhook.DBPath, err)
		}
		if err := repo.AutoMigrateDevhook(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		gin.SetMode(cfg.GinMode)
		srv := &http.Server{
			Addr:              ":" + cfg.Devhook.Port,
			Handler:           devhook.New(db).Router(),
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		}
		return runServer(ctx, srv, "devhook")
	},
}
