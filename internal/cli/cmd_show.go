package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"sarren/internal/catalog"
	"sarren/internal/documents"
	"sarren/internal/kv"
	"sarren/internal/store"
)

func newShowCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "show products|pdfs",
		Short:     "print a stored catalog as JSON",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{catalog.Key, documents.Key},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), deps, func(s kv.Store) error {
				var (
					v       any
					version int64
					err     error
				)
				switch args[0] {
				case catalog.Key:
					v, version, err = store.NewProductStore(s).Load(cmd.Context())
				default:
					v, version, err = store.NewDocumentStore(s).Load(cmd.Context())
				}
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.ErrOrStderr(), "%s at version %d\n", args[0], version)
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(v)
			})
		},
	}
	return cmd
}
