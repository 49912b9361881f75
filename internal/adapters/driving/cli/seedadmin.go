package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerworks/analyst-api/internal/adapters/driven/storage/sqlite"
	"github.com/ledgerworks/analyst-api/internal/config"
	"github.com/ledgerworks/analyst-api/internal/core/services"
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the bootstrap admin account if it does not exist",
	RunE:  runSeedAdmin,
}

func init() {
	rootCmd.AddCommand(seedAdminCmd)
}

func runSeedAdmin(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	auth := services.NewAuthService(store.UserStore())
	user, created, err := auth.SeedAdmin(cmd.Context())
	if err != nil {
		return err
	}

	if created {
		cmd.Printf("admin created: %s\n", user.ID)
	} else {
		cmd.Printf("admin already exists: %s\n", user.ID)
	}
	return nil
}
