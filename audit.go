package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vneid/admin-dashboard/audit"
	"github.com/vneid/admin-dashboard/models"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect and maintain the audit trail",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit records, newest first",
	RunE:  runAuditList,
}

var auditPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete audit records older than the retention period",
	RunE:  runAuditPurge,
}

var (
	auditTarget string
	auditAdmin  string
	auditAction string
	auditSince  string
	auditLimit  int
	auditTable  bool
	purgeDays   int
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd)
	auditCmd.AddCommand(auditPurgeCmd)

	auditListCmd.Flags().StringVar(&auditTarget, "target", "", "Only records for this target ID")
	auditListCmd.Flags().StringVar(&auditAdmin, "admin", "", "Only records by this admin")
	auditListCmd.Flags().StringVar(&auditAction, "action", "", "Only this action (create, update, delete)")
	auditListCmd.Flags().StringVar(&auditSince, "since", "", "Only records on or after this date (DD/MM/YYYY)")
	auditListCmd.Flags().IntVarP(&auditLimit, "limit", "n", 0, "Maximum records (0 uses AUDIT_DEFAULT_LIMIT)")
	auditListCmd.Flags().BoolVar(&auditTable, "table", false, "Print a table instead of JSON")

	auditPurgeCmd.Flags().IntVar(&purgeDays, "days", 0, "Retention in days (0 uses AUDIT_RETENTION_DAYS)")
}

func runAuditList(cmd *cobra.Command, args []string) error {
	kind, err := audit.ParseActionKind(auditAction)
	if err != nil {
		return err
	}
	filters := audit.Filters{
		TargetID:      auditTarget,
		AdminIdentity: auditAdmin,
		ActionKind:    kind,
		Limit:         auditLimit,
	}
	if auditSince != "" {
		if filters.Start, err = models.ParseDate(auditSince); err != nil {
			return fmt.Errorf("--since must be DD/MM/YYYY: %w", err)
		}
	}

	a, err := newApp(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer a.Close()

	records := a.services.Audit.Query(cmd.Context(), filters)
	if !auditTable {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tACTION\tADMIN\tTARGET\tLABEL\tORIGIN")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.Timestamp.Local().Format(time.DateTime),
			rec.ActionKind,
			rec.AdminIdentity,
			rec.TargetID,
			rec.TargetLabel,
			rec.OriginAddress,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d record(s)\n", len(records))
	return nil
}

func runAuditPurge(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer a.Close()

	deleted := a.services.Audit.PurgeOlderThan(cmd.Context(), purgeDays)
	log.Info().Int("deleted", deleted).Int("days", purgeDays).Msg("audit purge finished")
	fmt.Printf("Deleted %d audit record(s)\n", deleted)
	return nil
}
