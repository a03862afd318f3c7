package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dropDatabas3/tenantd/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tenantd.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimal = `
app:
  app_env: dev
tenants:
  - key: Acme
    directory:
      profile:
        display_name: Acme Corp
        plan: enterprise
  - key: Globex
    mailer:
      driver: log
`

func TestLoad_DefaultsApplied(t *testing.T) {
	c, err := config.Load(writeConfig(t, minimal))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Addr != ":8080" {
		t.Fatalf("addr default: %q", c.Server.Addr)
	}
	if c.Resolver.EmptyKey != "not_found" {
		t.Fatalf("empty_key default: %q", c.Resolver.EmptyKey)
	}
	if c.Resolver.TenantHeader != "X-Tenant-Key" {
		t.Fatalf("tenant header default: %q", c.Resolver.TenantHeader)
	}
	if len(c.Tenants) != 2 {
		t.Fatalf("tenants: %d", len(c.Tenants))
	}
	if c.Tenants[0].Directory.Driver != "static" {
		t.Fatalf("directory driver default: %q", c.Tenants[0].Directory.Driver)
	}
	if c.Tenants[0].Mailer.Driver != "log" {
		t.Fatalf("mailer driver default: %q", c.Tenants[0].Mailer.Driver)
	}
}

func TestLoad_PreservesTenantOrder(t *testing.T) {
	c, err := config.Load(writeConfig(t, minimal))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Tenants[0].Key != "Acme" || c.Tenants[1].Key != "Globex" {
		t.Fatalf("order: %q, %q", c.Tenants[0].Key, c.Tenants[1].Key)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Setenv("TENANTD_ADDR", ":9999")
	defer os.Unsetenv("TENANTD_ADDR")

	c, err := config.Load(writeConfig(t, minimal))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Addr != ":9999" {
		t.Fatalf("env override missed: %q", c.Server.Addr)
	}
}

func TestLoad_RejectsDuplicateTenantKey(t *testing.T) {
	body := `
tenants:
  - key: Acme
  - key: Acme
`
	_, err := config.Load(writeConfig(t, body))
	if err == nil || !strings.Contains(err.Error(), "duplicado") {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}

func TestLoad_RejectsPgWithoutDSN(t *testing.T) {
	body := `
tenants:
  - key: Acme
    directory:
      driver: pg
`
	if _, err := config.Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected dsn_enc error")
	}
}

func TestLoad_RejectsUnknownDrivers(t *testing.T) {
	for _, body := range []string{
		"tenants:\n  - key: A\n    directory:\n      driver: mongo\n",
		"tenants:\n  - key: A\n    mailer:\n      driver: carrier-pigeon\n",
		"resolver:\n  empty_key: sometimes\ntenants: []\n",
	} {
		if _, err := config.Load(writeConfig(t, body)); err == nil {
			t.Fatalf("expected validation error for %q", body)
		}
	}
}

func TestLoad_RejectsBadDuration(t *testing.T) {
	body := `
server:
  read_timeout: soon
tenants: []
`
	if _, err := config.Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected duration parse error")
	}
}
