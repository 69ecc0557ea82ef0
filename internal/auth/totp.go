package auth

import (
	"fmt"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// Enrollment is a freshly generated TOTP secret ready to be added to an
// authenticator app.
type Enrollment struct {
	Secret string
	URL    string
	QRCode []byte // PNG
}

// Enroll generates a new TOTP secret and its QR code.
func Enroll(issuer, account string) (*Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
	})
	if err != nil {
		return nil, fmt.Errorf("totp generate: %w", err)
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}

	return &Enrollment{Secret: key.Secret(), URL: key.URL(), QRCode: png}, nil
}
