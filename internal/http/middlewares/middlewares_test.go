package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/tenantd/internal/scope"
)

func TestWithRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}), WithRequestID())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if seen == "" {
		t.Fatalf("request id missing from context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Fatalf("response header %q != context %q", got, seen)
	}
}

func TestWithRequestID_KeepsClientID(t *testing.T) {
	var seen string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}), WithRequestID())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "client-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "client-123" {
		t.Fatalf("expected client id, got %q", seen)
	}
}

func TestWithTenantKey_Header(t *testing.T) {
	var seen string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetTenantKey(r.Context())
	}), WithTenantKey(HeaderTenantResolver("X-Tenant-Key")))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Tenant-Key", "Acme")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "Acme" {
		t.Fatalf("tenant key: %q", seen)
	}
}

func TestWithTenantKey_MissingHeaderIsEmpty(t *testing.T) {
	var seen = "sentinel"
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetTenantKey(r.Context())
	}), WithTenantKey(nil))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if seen != "" {
		t.Fatalf("expected empty tenant key, got %q", seen)
	}
}

func TestChainResolvers_FirstNonEmptyWins(t *testing.T) {
	resolve := ChainResolvers(
		HeaderTenantResolver("X-Tenant-Key"),
		QueryTenantResolver("tenant"),
	)
	req := httptest.NewRequest("GET", "/?tenant=FromQuery", nil)
	if got := resolve(req); got != "FromQuery" {
		t.Fatalf("query fallback: %q", got)
	}
	req.Header.Set("X-Tenant-Key", "FromHeader")
	if got := resolve(req); got != "FromHeader" {
		t.Fatalf("header priority: %q", got)
	}
}

func TestWithScope_OpensAndClosesScope(t *testing.T) {
	var sc *scope.Scope
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sc = scope.FromContext(r.Context())
		if sc == nil {
			t.Error("no scope in context")
		}
	}), WithScope())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if sc == nil {
		t.Fatalf("handler did not run")
	}
	// El scope debe quedar cerrado al terminar el request.
	_, err := sc.Instance("k", func() (any, error) { return 1, nil })
	if err == nil {
		t.Fatalf("expected closed scope error")
	}
}

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestWithAuth_NoTokenPassesThrough(t *testing.T) {
	called := false
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}), WithAuth(AuthConfig{Secret: "s3cret"}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if !called {
		t.Fatalf("request should pass without token")
	}
}

func TestWithAuth_InvalidTokenRejected(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}), WithAuth(AuthConfig{Secret: "s3cret"}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestWithAuth_ClaimSuppliesTenantKey(t *testing.T) {
	var seen string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetTenantKey(r.Context())
	}),
		WithTenantKey(HeaderTenantResolver("X-Tenant-Key")),
		WithAuth(AuthConfig{Secret: "s3cret", TenantClaim: "tid"}),
	)

	req := httptest.NewRequest("GET", "/", nil)
	token := signHS256(t, "s3cret", jwt.MapClaims{
		"tid": "Acme",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "Acme" {
		t.Fatalf("tenant from claim: %q", seen)
	}
}

func TestWithAuth_HeaderBeatsClaim(t *testing.T) {
	var seen string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetTenantKey(r.Context())
	}),
		WithTenantKey(HeaderTenantResolver("X-Tenant-Key")),
		WithAuth(AuthConfig{Secret: "s3cret"}),
	)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Tenant-Key", "Globex")
	token := signHS256(t, "s3cret", jwt.MapClaims{
		"tid": "Acme",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "Globex" {
		t.Fatalf("header should win: %q", seen)
	}
}

func TestWithLogging_RecordsStatus(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), WithRequestID(), WithLogging())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestWithRecover_Returns500(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), WithRecover())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: %d", rec.Code)
	}
}
