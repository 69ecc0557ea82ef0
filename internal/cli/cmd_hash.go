package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sarren/internal/auth"
)

func newHashPasswordCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-password [PASSWORD]",
		Short: "print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Long: `hash-password hashes the given password, or the first line of stdin when
no argument is given, so the plain password never has to be deployed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password must not be empty")
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ADMIN_PASSWORD_HASH=%s\n", hash)
			return nil
		},
	}
	return cmd
}
