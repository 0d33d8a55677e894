package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/treydbuddy/backend/internal/repositories"
	"github.com/treydbuddy/backend/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the account store once and exit",
	Long: `For the "tb" key set the default admin and student are added when no admin exists.
For the "legacy" key set the accounts of SEED_SOURCE are imported when no account list is stored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if a.keys.Name == repositories.KeySetLegacy.Name {
			if a.cfg.Storage.SeedSource == "" {
				return fmt.Errorf("SEED_SOURCE is required for the legacy key set")
			}
			n, err := a.service.ImportSeed(ctx, seed.NewSource(a.cfg.Storage.SeedSource))
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(out, "account list already present, nothing imported")
				return nil
			}
			fmt.Fprintf(out, "imported %d accounts\n", n)
			return nil
		}

		seeded, err := a.service.SeedDefaults(ctx)
		if err != nil {
			return err
		}
		if !seeded {
			fmt.Fprintln(out, "an admin already exists, nothing seeded")
			return nil
		}
		fmt.Fprintln(out, "default accounts seeded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
