package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/frahmantamala/grievance-management/internal/audit"
	"github.com/frahmantamala/grievance-management/internal/core/events"
	"github.com/frahmantamala/grievance-management/internal/core/identity"
	"github.com/frahmantamala/grievance-management/internal/core/role"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "events",
	Short: "Event and audit trail commands",
	Long:  `Inspect the domain events the services publish and the audit entries recorded for them`,
}

var eventTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List published event types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range events.AllTypes() {
			fmt.Println(t)
		}
	},
}

var eventTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print the most recent audit entries as JSON lines",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		deps, err := initializeDependencies(ctx, cfg)
		if err != nil {
			log.Fatalf("failed to init dependencies: %v", err)
		}
		defer deps.Close()

		if err := printAuditEntries(ctx, deps.Audit, tailFilter, json.NewEncoder(os.Stdout)); err != nil {
			log.Fatalf("failed to list audit entries: %v", err)
		}
	},
}

var tailFilter audit.ListFilter

// operator is the caller the CLI reads the audit trail as.
var operator = &identity.Identity{Role: role.Admin}

type auditLister interface {
	List(ctx context.Context, actor *identity.Identity, filter audit.ListFilter) ([]*audit.Entry, error)
}

func printAuditEntries(ctx context.Context, lister auditLister, filter audit.ListFilter, enc *json.Encoder) error {
	entries, err := lister.List(ctx, operator, filter)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	eventTailCmd.Flags().StringVar(&tailFilter.SubjectType, "subject-type", "", "only entries about this subject type (grievance, account)")
	eventTailCmd.Flags().StringVar(&tailFilter.SubjectID, "subject-id", "", "only entries about this subject id")
	eventTailCmd.Flags().IntVarP(&tailFilter.Limit, "limit", "n", audit.DefaultListLimit, "maximum number of entries")

	eventCmd.AddCommand(eventTypesCmd)
	eventCmd.AddCommand(eventTailCmd)

	rootCmd.AddCommand(eventCmd)
}
