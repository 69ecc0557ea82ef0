package mail

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Form types accepted by the contact endpoint.
const (
	FormRFQ     = "rfq"
	FormSurplus = "surplus"
	FormContact = "contact"
)

var (
	// ErrMissingFields reports a form without type, name or email.
	ErrMissingFields = errors.New("missing required fields")

	// ErrUnknownForm reports an unsupported form type.
	ErrUnknownForm = errors.New("unknown form type")
)

// Form is a submitted website form. Fields holds every submitted field
// except the type.
type Form struct {
	Type   string
	Fields map[string]string
}

// Validate checks the fields every form needs.
func (f Form) Validate() error {
	if f.Type == "" || strings.TrimSpace(f.Fields["name"]) == "" || strings.TrimSpace(f.Fields["email"]) == "" {
		return ErrMissingFields
	}
	switch f.Type {
	case FormRFQ, FormSurplus, FormContact:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownForm, f.Type)
	}
}

// Subject builds the subject line for the form type.
func (f Form) Subject() string {
	from := f.or("company", f.Fields["name"])
	switch f.Type {
	case FormRFQ:
		return fmt.Sprintf("RFQ — %s from %s", f.or("product", "Unknown product"), from)
	case FormSurplus:
		return fmt.Sprintf("Surplus Inquiry — %s from %s", f.or("material", "Unknown material"), from)
	default:
		return fmt.Sprintf("Contact Form — %s from %s", f.or("subject", "General"), f.Fields["name"])
	}
}

// Body lists every field as "KEY: value", sorted by key.
func (f Form) Body() string {
	keys := make([]string, 0, len(f.Fields))
	for k := range f.Fields {
		if k != "type" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "Form: %s\n\n", strings.ToUpper(f.Type))
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", strings.ToUpper(k), f.Fields[k])
	}
	return b.String()
}

// Message converts the form into an email replying to the submitter.
func (f Form) Message() Message {
	return Message{ReplyTo: f.Fields["email"], Subject: f.Subject(), Body: f.Body()}
}

func (f Form) or(key, fallback string) string {
	if v, ok := f.Fields[key]; ok && v != "" {
		return v
	}
	return fallback
}
