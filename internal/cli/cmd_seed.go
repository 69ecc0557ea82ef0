package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sarren/internal/kv"
	"sarren/internal/store"
)

func newSeedCmd(deps *Deps) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "write the initial product catalog and an empty PDF library",
		Long: `seed stores the four starter categories and an empty PDF library.
Existing catalogs are kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), deps, func(s kv.Store) error {
				if err := store.Seed(cmd.Context(), s, force); err != nil {
					return err
				}
				if force {
					fmt.Fprintln(cmd.OutOrStdout(), "catalogs overwritten with seed data")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "missing catalogs seeded")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite catalogs that already exist")
	return cmd
}
