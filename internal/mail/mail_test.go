package mail

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/textproto"
	"strings"
	"testing"
	"time"
)

// fakeSMTP accepts one session on a local port and returns the DATA it
// received on the channel. It offers no extensions, so the client skips
// STARTTLS and AUTH.
func fakeSMTP(t *testing.T) (host, port string, got <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	ch := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		tp := textproto.NewConn(conn)
		tp.PrintfLine("220 fake ESMTP")
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			cmd := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
			switch cmd {
			case "EHLO", "HELO":
				tp.PrintfLine("250 fake")
			case "MAIL", "RCPT":
				tp.PrintfLine("250 ok")
			case "DATA":
				tp.PrintfLine("354 go ahead")
				data, err := tp.ReadDotBytes()
				if err != nil {
					return
				}
				ch <- string(data)
				tp.PrintfLine("250 queued")
			case "QUIT":
				tp.PrintfLine("221 bye")
				return
			default:
				tp.PrintfLine("502 unsupported")
			}
		}
	}()

	host, port, _ = net.SplitHostPort(ln.Addr().String())
	return host, port, ch
}

func TestSMTP_Send(t *testing.T) {
	host, port, got := fakeSMTP(t)
	s := NewSMTP(host, port, "", "", "website@sarren.com", "info@sarren.com")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.Send(ctx, Message{
		ReplyTo: "buyer@example.com",
		Subject: "RFQ — MEK from Acme",
		Body:    "Form: RFQ\n\nNAME: Jane",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	var data string
	select {
	case data = <-got:
	case <-time.After(5 * time.Second):
		t.Fatal("server received no message")
	}

	for _, want := range []string{
		"To: info@sarren.com",
		"Reply-To: buyer@example.com",
		"Subject: =?utf-8?q?RFQ_",
		"Content-Type: text/plain; charset=utf-8",
		"Form: RFQ",
		"NAME: Jane",
	} {
		if !strings.Contains(data, want) {
			t.Errorf("message missing %q:\n%s", want, data)
		}
	}
}

func TestSMTP_SendUnreachable(t *testing.T) {
	ln, _ := net.Listen("tcp", "127.0.0.1:0")
	addr := ln.Addr().String()
	ln.Close()
	host, port, _ := net.SplitHostPort(addr)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := NewSMTP(host, port, "", "", "a@b.c", "d@e.f").Send(ctx, Message{}); err == nil {
		t.Error("expected error for closed port")
	}
}

func TestSMTP_FormatStripsHeaderBreaks(t *testing.T) {
	s := NewSMTP("localhost", "25", "", "", "website@sarren.com", "info@sarren.com")
	msg := string(s.format(Message{
		ReplyTo: "evil@example.com\r\nBcc: victim@example.com",
		Subject: "Hi\r\nBcc: other@example.com",
		Body:    "line one\nline two",
	}, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	headers, body, _ := strings.Cut(msg, "\r\n\r\n")
	r := textproto.NewReader(bufio.NewReader(strings.NewReader(headers + "\r\n\r\n")))
	h, err := r.ReadMIMEHeader()
	if err != nil {
		t.Fatalf("parse headers: %v", err)
	}
	if _, ok := h["Bcc"]; ok {
		t.Error("injected Bcc header present")
	}
	if body != "line one\r\nline two\r\n" {
		t.Errorf("body: got %q", body)
	}
}

func TestLog_Send(t *testing.T) {
	if err := (Log{}).Send(context.Background(), Message{Subject: "x"}); err != nil {
		t.Errorf("Log.Send: %v", err)
	}
}

func TestForm_Validate(t *testing.T) {
	tests := []struct {
		name    string
		form    Form
		wantErr error
	}{
		{"valid rfq", Form{Type: "rfq", Fields: map[string]string{"name": "Jane", "email": "j@x.com"}}, nil},
		{"missing type", Form{Fields: map[string]string{"name": "Jane", "email": "j@x.com"}}, ErrMissingFields},
		{"missing name", Form{Type: "contact", Fields: map[string]string{"email": "j@x.com"}}, ErrMissingFields},
		{"missing email", Form{Type: "contact", Fields: map[string]string{"name": "Jane"}}, ErrMissingFields},
		{"unknown type", Form{Type: "spam", Fields: map[string]string{"name": "Jane", "email": "j@x.com"}}, ErrUnknownForm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.form.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestForm_Subject(t *testing.T) {
	tests := []struct {
		name   string
		form   Form
		wanted string
	}{
		{
			"rfq with company",
			Form{Type: FormRFQ, Fields: map[string]string{"name": "Jane", "company": "Acme", "product": "MEK"}},
			"RFQ — MEK from Acme",
		},
		{
			"rfq without product or company",
			Form{Type: FormRFQ, Fields: map[string]string{"name": "Jane"}},
			"RFQ — Unknown product from Jane",
		},
		{
			"surplus",
			Form{Type: FormSurplus, Fields: map[string]string{"name": "Jane", "material": "Talc"}},
			"Surplus Inquiry — Talc from Jane",
		},
		{
			"contact without subject",
			Form{Type: FormContact, Fields: map[string]string{"name": "Jane", "company": "Acme"}},
			"Contact Form — General from Jane",
		},
		{
			"contact with subject",
			Form{Type: FormContact, Fields: map[string]string{"name": "Jane", "subject": "Logistics"}},
			"Contact Form — Logistics from Jane",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.form.Subject(); got != tt.wanted {
				t.Errorf("Subject() = %q, want %q", got, tt.wanted)
			}
		})
	}
}

func TestForm_Body(t *testing.T) {
	f := Form{Type: FormSurplus, Fields: map[string]string{
		"name":     "Jane",
		"email":    "j@x.com",
		"material": "Talc",
	}}
	want := "Form: SURPLUS\n\nEMAIL: j@x.com\nMATERIAL: Talc\nNAME: Jane"
	if got := f.Body(); got != want {
		t.Errorf("Body() = %q, want %q", got, want)
	}

	m := f.Message()
	if m.ReplyTo != "j@x.com" || m.Subject != f.Subject() || m.Body != want {
		t.Errorf("Message() = %+v", m)
	}
}
