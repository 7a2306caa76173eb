package main

import (
	"errors"
	"strings"
	"testing"
)

func TestComposeEmailEscapesSubmission(t *testing.T) {
	cfg := smtpConfig{User: "site@example.com", To: "owner@example.com"}
	msg := ContactMessage{
		Name:    "Eve\r\nBcc: victim@example.com",
		Email:   "eve@example.com",
		Message: "<script>alert(1)</script>\nsecond line",
	}

	raw := string(composeEmail(cfg, msg))
	headers, body, ok := strings.Cut(raw, "\r\n\r\n")
	if !ok {
		t.Fatalf("expected a header/body separator")
	}

	for _, line := range strings.Split(headers, "\r\n") {
		if strings.HasPrefix(line, "Bcc:") {
			t.Fatalf("expected injected header to be neutralized, got %q", line)
		}
	}
	if !strings.Contains(headers, "Subject: Portfolio Contact: Eve  Bcc: victim@example.com") {
		t.Fatalf("unexpected subject in %q", headers)
	}
	if strings.Contains(body, "<script>") {
		t.Fatalf("expected message html to be escaped")
	}
	if !strings.Contains(body, "&lt;script&gt;") || !strings.Contains(body, "<br>second line") {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestSMTPMailerRequiresCredentials(t *testing.T) {
	err := smtpMailer{cfg: smtpConfig{Host: "localhost", Port: "25"}}.Send(ContactMessage{Name: "a"})
	if !errors.Is(err, errSMTPNotConfigured) {
		t.Fatalf("expected errSMTPNotConfigured, got %v", err)
	}
}

func TestRelayContactWithoutDatabase(t *testing.T) {
	fake := &fakeMailer{}
	mailer = fake
	db = nil
	t.Cleanup(func() { mailer = smtpMailer{} })

	if err := relayContact(ContactMessage{Name: "Ada", Email: "ada@example.com", Message: "hi"}); err != nil {
		t.Fatalf("expected relay to succeed without a database, got %v", err)
	}
	if len(fake.sent) != 1 {
		t.Fatalf("expected one message sent, got %d", len(fake.sent))
	}
}
