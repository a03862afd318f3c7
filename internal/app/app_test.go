package app_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dropDatabas3/tenantd/internal/app"
	"github.com/dropDatabas3/tenantd/internal/config"
)

const fixture = `
resolver:
  empty_key: not_found
tenants:
  - key: Acme
    directory:
      driver: static
      profile:
        display_name: Acme Corp
        plan: enterprise
        features: [sso, audit]
  - key: AcmeEurope
    directory:
      driver: cached
      profile:
        display_name: Acme Europe
        plan: enterprise
      cache:
        driver: memory
        ttl: 1m
  - key: Globex
    mailer:
      driver: log
`

func buildApp(t *testing.T) *app.App {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tenantd.yaml")
	if err := os.WriteFile(path, []byte(fixture), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	a, err := app.New(cfg)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func do(t *testing.T, a *app.App, method, path, tenant, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if tenant != "" {
		req.Header.Set("X-Tenant-Key", tenant)
	}
	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, req)
	return rec
}

func TestApp_DirectoryProfileStatic(t *testing.T) {
	a := buildApp(t)

	rec := do(t, a, http.MethodGet, "/v1/directory/profile", "Acme", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Acme Corp") {
		t.Fatalf("body: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "AcmeDirectory") {
		t.Fatalf("candidate missing: %s", rec.Body.String())
	}
}

func TestApp_SubstringSelectsLaterTenant(t *testing.T) {
	a := buildApp(t)

	// "Europe" sólo matchea AcmeEuropeDirectory.
	rec := do(t, a, http.MethodGet, "/v1/directory/profile", "Europe", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "AcmeEuropeDirectory") {
		t.Fatalf("body: %s", rec.Body.String())
	}
}

func TestApp_ConfigOrderBreaksTies(t *testing.T) {
	a := buildApp(t)

	// "Acme" es substring de AcmeDirectory y AcmeEuropeDirectory:
	// gana el primero en orden de config.
	rec := do(t, a, http.MethodGet, "/v1/directory/profile", "Acme", "")
	if !strings.Contains(rec.Body.String(), `"candidate":"AcmeDirectory"`) {
		t.Fatalf("body: %s", rec.Body.String())
	}
}

func TestApp_EmptyKeyNotFoundPolicy(t *testing.T) {
	a := buildApp(t)

	rec := do(t, a, http.MethodGet, "/v1/directory/profile", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: %d body: %s", rec.Code, rec.Body.String())
	}
}

func TestApp_NotifyThroughLogMailer(t *testing.T) {
	a := buildApp(t)

	rec := do(t, a, http.MethodPost, "/v1/notify", "Globex",
		`{"to":"ops@globex.test","subject":"hi","body":"hello"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status: %d body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "GlobexMailer") {
		t.Fatalf("body: %s", rec.Body.String())
	}
}

func TestApp_ResolveDryRun(t *testing.T) {
	a := buildApp(t)

	rec := do(t, a, http.MethodGet, "/v1/resolve/notify.Mailer", "Globex", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "GlobexMailer") {
		t.Fatalf("body: %s", rec.Body.String())
	}
}

func TestApp_CachedDriverServesProfile(t *testing.T) {
	a := buildApp(t)

	for i := 0; i < 2; i++ {
		rec := do(t, a, http.MethodGet, "/v1/directory/profile", "AcmeEurope", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status #%d: %d body: %s", i, rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "Acme Europe") {
			t.Fatalf("body #%d: %s", i, rec.Body.String())
		}
	}
}

func TestApp_RejectsBadEmptyKeyPolicyEarly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	body := "resolver:\n  empty_key: sometimes\ntenants: []\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := config.Load(path); err == nil {
		t.Fatalf("expected config validation error")
	}
}
