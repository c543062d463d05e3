// Command subdash serves and operates the contact submissions dashboard.
//
//	@title						Contact Submissions Dashboard API
//	@version					1.0
//	@description				Search, page, analyse, export and delete contact-form submissions held by the remote webhook.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tbourn/contact-dashboard/internal/config"
	"github.com/tbourn/contact-dashboard/internal/sysutil"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	envFiles []string
	cfg      config.Config
)

var rootCmd = &cobra.Command{
	Use:   "subdash",
	Short: "Contact submissions dashboard",
	Long: `subdash fronts the remote contact-form webhook.

It serves the dashboard API (search, paging, analytics, exports and
optimistic deletes) and exposes the same operations on the command line.
Configuration comes from the environment and optional .env files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.LoadDotEnv(envFiles...); err != nil {
			return err
		}
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		cfg = loaded
		sysutil.SetupLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogPretty)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")
	rootCmd.Version = version

	rootCmd.AddCommand(
		serveCmd,
		devhookCmd,
		listCmd,
		analyticsCmd,
		exportCmd,
		deleteCmd,
		submitCmd,
		tokenCmd,
		auditCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
