package notify_test

import (
	"context"
	"testing"

	"github.com/dropDatabas3/tenantd/internal/notify"
)

func TestLogMailer_Send(t *testing.T) {
	m := notify.NewLog("Acme")
	err := m.Send(context.Background(), notify.Message{
		To:      "ops@acme.test",
		Subject: "deploy done",
		Body:    "all green",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
}

func TestSMTPMailer_Defaults(t *testing.T) {
	m := notify.NewSMTP("Acme", "smtp.acme.test", 587, "noreply@acme.test", "user", "pass")
	if m.TLSMode != "auto" {
		t.Fatalf("tls mode default: %q", m.TLSMode)
	}
	if m.InsecureSkipVerify {
		t.Fatalf("insecure should default to false")
	}
}
