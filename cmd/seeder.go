package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/grievance-management/internal/core/role"
	"github.com/frahmantamala/grievance-management/internal/seed"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	seedValue    int64
	seedPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with one supervisor and one member per unit, plus sample grievances and notes, for development and testing purposes.`,
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

		if clearData {
			if err := clearSeedData(ctx, deps.Gorm); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared grievances, notes, audit entries and non-admin accounts")
		}

		types, err := deps.GrievanceTypes.ListTypes(ctx)
		if err != nil {
			log.Fatalf("failed to load grievance types: %v", err)
		}

		seeder := seed.NewSeeder(deps.Accounts, deps.Grievances, seed.Options{
			Seed:     seedValue,
			Password: seedPassword,
			Types:    types,
		}, deps.Logger)

		res, err := seeder.Run(ctx)
		if err != nil {
			log.Fatalf("failed to seed: %v", err)
		}

		fmt.Printf("Seeded %d accounts, %d grievances, %d notes\n", res.Accounts, res.Grievances, res.Notes)
		for _, unit := range res.SkippedUnits {
			fmt.Println("Skipped already seeded unit:", unit)
		}
		fmt.Printf("Seeded accounts log in as e.g. %s with password %q\n",
			seed.AccountEmail("supervisor", seed.Units[0]), seeder.Password())
	},
}

// clearSeedData removes everything except admin accounts, children first.
func clearSeedData(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range []string{
			"DELETE FROM notes",
			"DELETE FROM grievances",
			"DELETE FROM audit_logs",
		} {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("%s: %w", stmt, err)
			}
		}
		if err := tx.Exec("DELETE FROM users WHERE role <> ?", string(role.Admin)).Error; err != nil {
			return fmt.Errorf("delete users: %w", err)
		}
		return nil
	})
}

func init() {
	seedCmd.Flags().Int64Var(&seedValue, "seed", 1, "random seed; equal seeds produce equal data")
	seedCmd.Flags().StringVar(&seedPassword, "password", seed.DefaultPassword, "password for every seeded account")
}
