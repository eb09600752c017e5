package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vneid/admin-dashboard/models"
	"github.com/vneid/admin-dashboard/userctx"
)

var userCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage VNeID users from the command line",
}

var userImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Create users from a YAML file",
	Long:  "Create users from a YAML list of user forms. Each entry holds a profile and optional citizen_card, residence and household_members.",
	RunE:  runUserImport,
}

var userPurgeCmd = &cobra.Command{
	Use:   "purge-deleted",
	Short: "Permanently delete users soft-deleted before the retention period",
	RunE:  runUserPurge,
}

var (
	cliAdmin       string
	importFile     string
	userPurgeDays  int
	userPurgeForce bool
)

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userImportCmd)
	userCmd.AddCommand(userPurgeCmd)

	userCmd.PersistentFlags().StringVar(&cliAdmin, "admin", "", "Admin identity recorded in the audit trail (defaults to DEV_ADMIN_EMAIL)")

	userImportCmd.Flags().StringVarP(&importFile, "file", "f", "", "YAML file with the users to create (required)")
	userImportCmd.MarkFlagRequired("file")

	userPurgeCmd.Flags().IntVar(&userPurgeDays, "days", 0, "Purge users soft-deleted at least this many days ago (0 uses the default)")
	userPurgeCmd.Flags().BoolVar(&userPurgeForce, "yes", false, "Do not ask for confirmation")
}

// adminContext attributes CLI mutations to an admin identity.
func adminContext(ctx context.Context) (context.Context, error) {
	admin := cliAdmin
	if admin == "" {
		admin = cfg.Admin.DevEmail
	}
	if !cfg.Admin.IsAllowedAdmin(admin) && admin != cfg.Admin.DevEmail {
		return nil, fmt.Errorf("%s is not an admin identity", admin)
	}
	ctx = userctx.SetUserEmail(ctx, admin)
	return userctx.SetOriginAddress(ctx, "cli"), nil
}

func runUserImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(importFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", importFile, err)
	}
	var forms []*models.CreateUserForm
	if err := yaml.Unmarshal(data, &forms); err != nil {
		return fmt.Errorf("failed to parse %s: %w", importFile, err)
	}
	if len(forms) == 0 {
		return fmt.Errorf("%s contains no users", importFile)
	}

	ctx, err := adminContext(cmd.Context())
	if err != nil {
		return err
	}
	a, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.services.Users.CreateUsers(ctx, forms)
	printBatch(result)
	log.Info().
		Int("created", len(result.Successful)).
		Int("failed", len(result.Failed)).
		Str("file", importFile).
		Msg("user import finished")

	if len(result.Failed) > 0 {
		return fmt.Errorf("%d of %d user(s) failed to import", len(result.Failed), result.Total)
	}
	return nil
}

func runUserPurge(cmd *cobra.Command, args []string) error {
	if !userPurgeForce {
		fmt.Print("Soft-deleted users and all their documents will be removed permanently. Continue? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted")
			return nil
		}
	}

	ctx, err := adminContext(cmd.Context())
	if err != nil {
		return err
	}
	a, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.services.Users.PurgeSoftDeleted(ctx, userPurgeDays)
	if err != nil {
		return err
	}
	printBatch(result)
	return nil
}

func printBatch(result *models.BatchResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tUID\tSTATUS")
	for _, item := range result.Successful {
		fmt.Fprintf(w, "%d\t%s\tok\n", item.Index, item.ID)
	}
	for _, item := range result.Failed {
		fmt.Fprintf(w, "%d\t%s\t%s\n", item.Index, item.ID, item.Error)
	}
	w.Flush()
	fmt.Printf("\n%d processed, %d succeeded, %d failed\n", result.Total, len(result.Successful), len(result.Failed))
}
