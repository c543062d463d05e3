package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tbourn/contact-dashboard/internal/auth"
	"github.com/tbourn/contact-dashboard/internal/export"
	"github.com/tbourn/contact-dashboard/internal/mutation"
	"github.com/tbourn/contact-dashboard/internal/search"
	"github.com/tbourn/contact-dashboard/internal/services"
	"github.com/tbourn/contact-dashboard/internal/sysutil"
	"github.com/tbourn/contact-dashboard/internal/webhook"
)

// cliViewer keys the CLI's remembered dashboard view and audit entries.
const cliViewer = "cli"

var (
	listQ      string
	listToday  bool
	listSort   string
	listPage   int
	asJSON     bool
	daysBack   int
	topN       int
	exportFmt  string
	exportOut  string
	assumeYes  bool
	actor      string
	submitName string
	submitMail string
	submitKey  string
	tokenSub   string
	tokenRole  string
	tokenTTL   time.Duration
	auditID    string
	auditLimit int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Search, sort and page submissions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		q, err := listQuery()
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			res, err := a.subs.List(ctx, cliViewer, q)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			return printPage(cmd.OutOrStdout(), res)
		})
	},
}

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Daily volume with a 7-day average and the top email domains",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			r, err := a.analytics.Report(ctx, services.AnalyticsQuery{DaysBack: daysBack, TopN: topN, Refresh: true})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), r)
			}
			return printReport(cmd.OutOrStdout(), r)
		})
	},
}

var exportCmd = &cobra.Command{
	Use:       "export dashboard|analytics",
	Short:     "Write the dashboard or analytics view to XLSX, CSV or PDF",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"dashboard", "analytics"},
	RunE: func(cmd *cobra.Command, args []string) error {
		view := args[0]
		allowed := []export.Format{export.XLSX, export.CSV, export.PDF}
		base := services.DashboardFile
		if view == "analytics" {
			allowed = []export.Format{export.XLSX, export.PDF}
			base = services.AnalyticsFile
		} else if view != "dashboard" {
			return fmt.Errorf("unknown view %q", view)
		}
		f, err := export.ParseFormat(exportFmt, allowed...)
		if err != nil {
			return err
		}
		out := exportOut
		if out == "" {
			out = f.Filename(base)
		}

		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			file, err := os.Create(out)
			if err != nil {
				return err
			}
			if view == "analytics" {
				err = a.analytics.Export(ctx, services.AnalyticsQuery{DaysBack: daysBack, TopN: topN}, f, file)
			} else {
				var q services.ListQuery
				if q, err = listQuery(); err == nil {
					err = a.subs.Export(ctx, q, f, file)
				}
			}
			if cerr := file.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(out)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a submission (asks for confirmation unless --yes)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			// Load first so the optimistic removal has something to remove.
			if _, err := a.store.Load(ctx); err != nil {
				return err
			}
			confirmed := assumeYes || prompt(cmd.InOrStdin(), cmd.OutOrStdout(), mutation.MsgConfirm+" [y/N] ")
			in, err := a.subs.Delete(ctx, actor, id, confirmed)
			if err != nil {
				var fe *mutation.FailureError
				if errors.As(err, &fe) {
					return errors.New(fe.Message)
				}
				return err
			}
			if in.State != mutation.Committed {
				fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), in.Notice)
			return nil
		})
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Send a contact form to the webhook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			res, err := a.contact.Submit(ctx, cliViewer, submitKey, webhook.ContactRequest{Name: submitName, Email: submitMail})
			if err != nil {
				return errors.New(services.FailureMessage(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		})
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token signed with AUTH_JWT_SECRET",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.Auth.JWTSecret == "" {
			return errors.New("AUTH_JWT_SECRET is not set")
		}
		tok, err := auth.NewMinter(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, tokenTTL).Mint(tokenSub, tokenRole)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the delete audit trail",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			entries, err := a.audit.List(ctx, auditID, auditLimit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RESOLVED\tSUBMISSION\tACTOR\tOUTCOME\tMESSAGE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					e.ResolvedAt.Local().Format(time.DateTime), e.SubmissionID, e.Actor, e.Outcome, e.Message)
			}
			return tw.Flush()
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{listCmd, exportCmd} {
		c.Flags().StringVar(&listQ, "q", "", "search term (name, email or date)")
		c.Flags().BoolVar(&listToday, "today", false, "only submissions dated today")
		c.Flags().StringVar(&listSort, "sort", string(search.DefaultSort), "date_desc|date_asc|name_asc|name_desc")
	}
	listCmd.Flags().IntVar(&listPage, "page", 1, "page number")

	for _, c := range []*cobra.Command{analyticsCmd, exportCmd} {
		c.Flags().IntVar(&daysBack, "days", 0, "look-back in days (default from DAYS_BACK_DEFAULT)")
		c.Flags().IntVar(&topN, "top", 0, "email domains to rank (default from TOP_N_DEFAULT)")
	}
	for _, c := range []*cobra.Command{listCmd, analyticsCmd, auditCmd} {
		c.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	}

	exportCmd.Flags().StringVar(&exportFmt, "format", "xlsx", "xlsx|csv|pdf (analytics: xlsx|pdf)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default <view name>.<format>)")

	deleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")
	deleteCmd.Flags().StringVar(&actor, "actor", cliViewer, "actor recorded in the audit trail")

	submitCmd.Flags().StringVar(&submitName, "name", "", "submitter name")
	submitCmd.Flags().StringVar(&submitMail, "email", "", "submitter email")
	submitCmd.Flags().StringVar(&submitKey, "idempotency-key", "", "replay-safe retry key")

	tokenCmd.Flags().StringVar(&tokenSub, "sub", "", "subject (default random uuid)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", auth.RoleUser, "user|admin")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")

	auditCmd.Flags().StringVar(&auditID, "id", "", "only this submission")
	auditCmd.Flags().IntVar(&auditLimit, "limit", 50, "entries to show")
}

func listQuery() (services.ListQuery, error) {
	sort, err := search.ParseSortKey(listSort)
	if err != nil {
		return services.ListQuery{}, err
	}
	return services.ListQuery{Term: listQ, TodayOnly: listToday, Sort: sort, Page: listPage, Refresh: true}, nil
}

// prompt asks question on out and reads a yes/no answer from in. Anything
// other than an explicit yes is a no.
func prompt(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprint(out, question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return sysutil.IsTruthy(line)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printPage(w io.Writer, res *services.ListResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tDATE\tWHEN")
	for _, r := range res.Page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Email, r.Date, r.When)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\npage %d of %d (%d submissions)", res.Page.Page, max(res.Page.TotalPages, 1), res.Page.Total)
	if len(res.Page.Window) > 1 {
		fmt.Fprintf(w, "  pages %s", joinInts(res.Page.Window))
	}
	fmt.Fprintln(w)
	if res.Stale {
		fmt.Fprintln(w, "warning: webhook unreachable, showing the last loaded list")
	}
	return nil
}

func printReport(w io.Writer, r *services.AnalyticsReport) error {
	for _, line := range r.Summary.Lines() {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DATE\tCOUNT\t7-DAY AVG\t")
	for _, b := range r.Daily {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t\n", b.Label, b.Count, b.Avg7)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "TOP %d DOMAINS\tCOUNT\n", r.TopN)
	for _, d := range r.Domains {
		fmt.Fprintf(tw, "%s\t%d\n", d.Domain, d.Count)
	}
	return tw.Flush()
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, " ")
}
