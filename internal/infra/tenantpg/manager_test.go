package tenantpg

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNew_RequiresResolver(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrResolverNotConfigured) {
		t.Fatalf("expected ErrResolverNotConfigured, got %v", err)
	}
}

func TestNew_AppliesPoolDefaults(t *testing.T) {
	m, err := New(Config{
		Resolve: func(context.Context, string) (string, error) { return "", ErrNoDBForTenant },
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if m.poolCfg.MaxConns != 15 || m.poolCfg.MinConns != 2 {
		t.Fatalf("pool defaults: %+v", m.poolCfg)
	}
	if m.poolCfg.ConnMaxLifetime != 30*time.Minute {
		t.Fatalf("lifetime default: %v", m.poolCfg.ConnMaxLifetime)
	}
}

func TestGet_BlankKeyFails(t *testing.T) {
	m, _ := New(Config{
		Resolve: func(context.Context, string) (string, error) { return "", ErrNoDBForTenant },
	})
	if _, err := m.Get(context.Background(), "   "); !IsNoDBForTenant(err) {
		t.Fatalf("expected ErrNoDBForTenant, got %v", err)
	}
}

func TestGet_ResolverErrorPropagates(t *testing.T) {
	boom := errors.New("vault unavailable")
	m, _ := New(Config{
		Resolve: func(context.Context, string) (string, error) { return "", boom },
	})
	if _, err := m.Get(context.Background(), "acme"); !errors.Is(err, boom) {
		t.Fatalf("expected resolver error, got %v", err)
	}
}

func TestGet_InvalidDSNFails(t *testing.T) {
	m, _ := New(Config{
		Resolve: func(context.Context, string) (string, error) {
			return "not a dsn ://", nil
		},
	})
	if _, err := m.Get(context.Background(), "acme"); err == nil {
		t.Fatalf("expected parse error for invalid dsn")
	}
}
