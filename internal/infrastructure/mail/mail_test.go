package mail

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLogMailer_HidesBodyByDefault(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(zerolog.New(&buf), false)

	if err := m.Send(context.Background(), "a@x.com", "Your 2FA Code", "Code: 123456"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "a@x.com") || !strings.Contains(out, "Your 2FA Code") {
		t.Fatalf("expected recipient and subject in log, got %s", out)
	}
	if strings.Contains(out, "123456") {
		t.Fatalf("body must not be logged: %s", out)
	}
}

func TestLogMailer_ShowBody(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(zerolog.New(&buf), true)

	_ = m.Send(context.Background(), "a@x.com", "Your 2FA Code", "Code: 123456")
	if !strings.Contains(buf.String(), "123456") {
		t.Fatalf("expected body in log, got %s", buf.String())
	}
}

func TestNewSMTPMailer_DefaultsFromToUsername(t *testing.T) {
	m, err := NewSMTPMailer(Config{Host: "smtp.example.com", Port: 587, Username: "patrol@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("NewSMTPMailer: %v", err)
	}
	if m.from != "patrol@example.com" {
		t.Fatalf("expected from to default to username, got %q", m.from)
	}
}
