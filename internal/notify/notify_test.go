package notify

import (
	"strings"
	"testing"
)

func TestNewSMTPMailerValidation(t *testing.T) {
	t.Parallel()
	if _, err := NewSMTPMailer(SMTPConfig{From: "a@b"}); err == nil {
		t.Fatal("expected error when host is missing")
	}
	if _, err := NewSMTPMailer(SMTPConfig{Host: "mail.local"}); err == nil {
		t.Fatal("expected error when from is missing")
	}
	m, err := NewSMTPMailer(SMTPConfig{Host: "mail.local", From: "a@b"})
	if err != nil {
		t.Fatalf("NewSMTPMailer error: %v", err)
	}
	if m.addr != "mail.local:25" {
		t.Fatalf("addr = %q, want default port 25", m.addr)
	}
	if m.auth != nil {
		t.Fatal("auth should be nil without credentials")
	}
}

func TestParseChatID(t *testing.T) {
	t.Parallel()
	id, err := parseChatID(" -100123 ")
	if err != nil {
		t.Fatalf("parseChatID error: %v", err)
	}
	if id != -100123 {
		t.Fatalf("id = %d, want -100123", id)
	}
	if _, err := parseChatID("ops@example.com"); err == nil {
		t.Fatal("expected error for non-numeric recipient")
	}
	if _, err := parseChatID("ops@example.com"); err != nil && !strings.Contains(err.Error(), "chat id") {
		t.Fatalf("unexpected error text: %v", err)
	}
}
