// Package cli implements sarrenctl, the operator command line for the
// catalog service: seeding the KV store, inspecting stored catalogs and
// preparing admin credentials.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sarren/internal/kv"
)

// Deps carries what the commands need from the outside world.
type Deps struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// OpenStore connects the configured KV backend. The caller closes it.
	OpenStore func(ctx context.Context) (kv.Store, error)
}

func (d *Deps) applyDefaults() {
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.Err == nil {
		d.Err = os.Stderr
	}
}

// NewRootCmd builds the root command and wires up subcommands.
func NewRootCmd(deps *Deps) *cobra.Command {
	deps.applyDefaults()

	root := &cobra.Command{
		Use:           "sarrenctl",
		Short:         "sarrenctl manages the Sarren catalog store and admin credentials",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.SetIn(deps.In)
	root.SetOut(deps.Out)
	root.SetErr(deps.Err)

	root.AddCommand(newSeedCmd(deps))
	root.AddCommand(newShowCmd(deps))
	root.AddCommand(newTOTPCmd(deps))
	root.AddCommand(newHashPasswordCmd(deps))
	return root
}

// withStore opens the store for the duration of fn.
func withStore(ctx context.Context, deps *Deps, fn func(kv.Store) error) error {
	s, err := deps.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}
