package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	app "github.com/creditnote/backend/internal/application/creditnote"
	"github.com/creditnote/backend/internal/application/lotimport"
	"github.com/creditnote/backend/internal/domain/creditnote"
	"github.com/creditnote/backend/internal/domain/reconcile"
	"github.com/creditnote/backend/internal/infrastructure/auth"
	"github.com/creditnote/backend/internal/infrastructure/config"
	"github.com/creditnote/backend/internal/infrastructure/logger"
	"github.com/creditnote/backend/internal/infrastructure/odoo"
)

var (
	logLevel  string
	lotsFile  string
	issueDate string
	dueDate   string
	reference string
)

var rootCmd = &cobra.Command{
	Use:   "creditctl",
	Short: "Vendor credit note tooling for damaged inventory lots",
	Long: `creditctl reconciles damaged inventory lot numbers against purchase
order lines in the ERP backend and creates vendor credit notes for them.
Configuration is read the same way as the server (config.toml and
CREDITNOTE_ environment variables).`,
	SilenceUsage: true,
}

var lookupCmd = &cobra.Command{
	Use:   "lookup [lots...]",
	Short: "Reconcile lots and show the per-vendor groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newBulkService()
		if err != nil {
			return err
		}

		lots, err := gatherLots(args)
		if err != nil {
			return err
		}

		result, err := svc.Lookup(cmd.Context(), lots)
		if err != nil {
			return err
		}

		printLookup(result)
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:   "create [lots...]",
	Short: "Create one vendor credit note per vendor for the given lots",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newBulkService()
		if err != nil {
			return err
		}

		lots, err := gatherLots(args)
		if err != nil {
			return err
		}

		issue, err := parseDateFlag(issueDate)
		if err != nil {
			return fmt.Errorf("invalid --issue-date: %w", err)
		}
		due, err := parseDateFlag(dueDate)
		if err != nil {
			return fmt.Errorf("invalid --due-date: %w", err)
		}

		result, err := svc.CreateBulk(cmd.Context(), app.BulkCreateRequest{
			Lots:      lots,
			IssueDate: issue,
			DueDate:   due,
			Reference: reference,
			CreatedBy: "creditctl",
		})
		if err != nil {
			return err
		}

		printBulkResult(result)
		if result.Failed > 0 {
			return fmt.Errorf("%d vendor(s) failed", result.Failed)
		}
		return nil
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Hash a password for the auth.password_hash config entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	for _, cmd := range []*cobra.Command{lookupCmd, createCmd} {
		cmd.Flags().StringVarP(&lotsFile, "file", "f", "", "read lot numbers from a file (.xlsx, .csv, or plain text)")
	}
	createCmd.Flags().StringVar(&issueDate, "issue-date", "", "issue date (YYYY-MM-DD, default today)")
	createCmd.Flags().StringVar(&dueDate, "due-date", "", "due date (YYYY-MM-DD, default issue date plus configured days)")
	createCmd.Flags().StringVar(&reference, "reference", "", "document reference (default from config)")

	rootCmd.AddCommand(lookupCmd, createCmd, hashPasswordCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newBulkService wires the reconciliation stack against the configured
// backend. The CLI keeps no local state: no database, no session store.
func newBulkService() (*app.BulkService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		return nil, err
	}

	gateway, err := odoo.NewClient(&odoo.Config{
		URL:            cfg.Odoo.URL,
		Database:       cfg.Odoo.Database,
		Username:       cfg.Odoo.Username,
		Password:       cfg.Odoo.Password,
		TimeoutSeconds: cfg.Odoo.TimeoutSeconds,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create ERP client: %w", err)
	}

	return app.NewBulkService(
		reconcile.NewEngine(gateway, cfg.CreditNote.ExcludedVendors, log),
		creditnote.NewLineBuilder(gateway, log),
		creditnote.NewSubmitter(gateway, cfg.CreditNote.JournalName, log),
		app.NewCompanyResolver(gateway, cfg.Company.Name),
		nil,
		app.Defaults{
			Reference: cfg.CreditNote.DefaultReference,
			DueDays:   cfg.CreditNote.DueDays,
		},
		log,
	), nil
}

// gatherLots collects lot numbers from positional arguments or --file.
func gatherLots(args []string) ([]string, error) {
	if lotsFile != "" {
		f, err := os.Open(lotsFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return lotimport.ParseFile(lotsFile, f)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("no lot numbers given, pass them as arguments or use --file")
	}
	return lotimport.ParseList(strings.Join(args, ","))
}

// parseDateFlag parses an optional YYYY-MM-DD flag; empty means unset.
func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

func printLookup(result *app.LookupResult) {
	fmt.Printf("Company %d, %d vendor(s)\n", result.CompanyID, len(result.Vendors))
	for _, g := range result.Groups {
		fmt.Printf("  %-20s %-12s qty %-3d @ %.2f (-%g%%)  %s\n",
			g.Vendor, g.PurchaseOrder, g.Quantity, g.UnitPrice, g.Discount, g.LineDescription)
		fmt.Printf("    lots: %v\n", g.Lots)
	}
	printDiagnostics(result.Diagnostics)
}

func printBulkResult(result *app.BulkResult) {
	for _, v := range result.Vendors {
		if v.Error != "" {
			fmt.Printf("  FAILED  %-20s %s\n", v.Vendor, v.Error)
			continue
		}
		fmt.Printf("  created %-20s note %d, %d line(s), %d lot(s), total %s\n",
			v.Vendor, v.CreditNoteID, v.LineCount, v.LotCount, v.Total)
	}
	fmt.Printf("%d created, %d failed\n", result.Created, result.Failed)
	printDiagnostics(result.Diagnostics)
}

func printDiagnostics(diagnostics []app.DiagnosticView) {
	if len(diagnostics) == 0 {
		return
	}
	fmt.Printf("%d lot(s) not reconciled:\n", len(diagnostics))
	for _, d := range diagnostics {
		fmt.Printf("  %-12s %s\n", d.Lot, d.Message)
	}
}
