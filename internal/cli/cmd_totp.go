package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sarren/internal/auth"
)

func newTOTPCmd(deps *Deps) *cobra.Command {
	var (
		issuer  string
		account string
		qrPath  string
	)

	cmd := &cobra.Command{
		Use:   "totp-setup",
		Short: "generate a TOTP secret for the admin login",
		Long: `totp-setup generates a one-time password secret and writes its QR code
as a PNG. Scan the code with an authenticator app, then set ADMIN_TOTP_SECRET.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enrollment, err := auth.Enroll(issuer, account)
			if err != nil {
				return err
			}
			if err := os.WriteFile(qrPath, enrollment.QRCode, 0o600); err != nil {
				return fmt.Errorf("write qr code: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "QR code written to %s\n", qrPath)
			fmt.Fprintf(out, "otpauth URL: %s\n", enrollment.URL)
			fmt.Fprintf(out, "ADMIN_TOTP_SECRET=%s\n", enrollment.Secret)
			return nil
		},
	}

	cmd.Flags().StringVar(&issuer, "issuer", "Sarren Chemicals", "issuer shown in the authenticator app")
	cmd.Flags().StringVar(&account, "account", "admin", "account name shown in the authenticator app")
	cmd.Flags().StringVarP(&qrPath, "output", "o", "totp-qr.png", "where to write the QR code PNG")
	return cmd
}
