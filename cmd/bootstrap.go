package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/account"
	"github.com/spf13/cobra"
)

var (
	bootstrapEmail    string
	bootstrapPassword string
	bootstrapName     string
)

var bootstrapAdminCmd = &cobra.Command{
	Use:   "bootstrap-admin",
	Short: "Create the first admin account",
	Long:  `Create the first admin account of a deployment. Does nothing once any admin exists. Flags override the bootstrap section of the config.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		bc := cfg.Bootstrap
		if bootstrapEmail != "" {
			bc.AdminEmail = bootstrapEmail
		}
		if bootstrapPassword != "" {
			bc.AdminPassword = bootstrapPassword
		}
		if bootstrapName != "" {
			bc.AdminName = bootstrapName
		}
		if !bc.Enabled() {
			log.Fatal("admin email and password are required, via flags or the bootstrap config")
		}

		deps, err := initializeDependencies(ctx, cfg)
		if err != nil {
			log.Fatalf("failed to init dependencies: %v", err)
		}
		defer deps.Close()

		if err := bootstrapAdmin(ctx, deps.Accounts, bc); err != nil {
			log.Fatalf("failed to bootstrap admin: %v", err)
		}
	},
}

type adminBootstrapper interface {
	BootstrapAdmin(ctx context.Context, dto account.BootstrapAdminDTO) (*account.Account, error)
}

// bootstrapAdmin treats an already bootstrapped deployment as success, so it
// is safe to run on every start.
func bootstrapAdmin(ctx context.Context, svc adminBootstrapper, cfg internal.BootstrapConfig) error {
	a, err := svc.BootstrapAdmin(ctx, account.BootstrapAdminDTO{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Name:     cfg.AdminName,
	})
	switch {
	case errors.Is(err, internal.ErrBootstrapCompleted):
		fmt.Println("An admin already exists; nothing to do")
		return nil
	case err != nil:
		return err
	}
	fmt.Println("Created admin account:", a.Email)
	return nil
}

func init() {
	bootstrapAdminCmd.Flags().StringVar(&bootstrapEmail, "email", "", "admin email")
	bootstrapAdminCmd.Flags().StringVar(&bootstrapPassword, "password", "", "admin password")
	bootstrapAdminCmd.Flags().StringVar(&bootstrapName, "name", "", "admin display name")
}
