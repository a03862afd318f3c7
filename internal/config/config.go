package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	Server struct {
		Addr            string `yaml:"addr"`
		ReadTimeout     string `yaml:"read_timeout"`
		WriteTimeout    string `yaml:"write_timeout"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	// Resolver controla la política del core de resolución.
	Resolver struct {
		// EmptyKey: "wildcard" (primer candidato) | "not_found" (rechazar).
		EmptyKey string `yaml:"empty_key"`
		// TenantHeader es el header del que se extrae el tenant key.
		TenantHeader string `yaml:"tenant_header"`
	} `yaml:"resolver"`

	Auth struct {
		Enabled bool `yaml:"enabled"`
		// HS256Secret valida bearer tokens; vacío => auth deshabilitada.
		HS256Secret string `yaml:"hs256_secret"`
		// TenantClaim es el claim del que puede salir el tenant key ("tid").
		TenantClaim string `yaml:"tenant_claim"`
	} `yaml:"auth"`

	SMTP struct {
		Host               string `yaml:"host"`
		Port               int    `yaml:"port"`
		Username           string `yaml:"username"`
		Password           string `yaml:"password"`
		PasswordEnc        string `yaml:"password_enc"` // secretbox; tiene prioridad sobre password
		From               string `yaml:"from"`
		TLS                string `yaml:"tls"`                  // auto | starttls | ssl | none
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"` // sólo dev
	} `yaml:"smtp"`

	Cache struct {
		Redis struct {
			Addr string `yaml:"addr"`
			DB   int    `yaml:"db"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	Database struct {
		Pool struct {
			MaxConns        int    `yaml:"max_conns"`
			MinConns        int    `yaml:"min_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"pool"`
	} `yaml:"database"`

	// Tenants es la tabla de registración: un candidato por entrada, en orden
	// de archivo. El orden importa (desempate por primer match).
	Tenants []Tenant `yaml:"tenants"`
}

// Tenant declara los candidatos de un tenant para cada capability expuesta.
type Tenant struct {
	// Key es el display name del candidato; el tenant key del request se
	// matchea por substring contra este valor.
	Key       string          `yaml:"key"`
	Directory TenantDirectory `yaml:"directory"`
	Mailer    TenantMailer    `yaml:"mailer"`
}

// TenantDirectory configura el candidato de directorio del tenant.
type TenantDirectory struct {
	// Driver: static | pg | cached
	Driver string `yaml:"driver"`
	// DSNEnc es el DSN de Postgres cifrado con secretbox (driver pg).
	DSNEnc  string        `yaml:"dsn_enc"`
	Schema  string        `yaml:"schema"`
	Profile TenantProfile `yaml:"profile"`
	Cache   TenantCache   `yaml:"cache"`
}

// TenantProfile son los datos servidos por los drivers static/cached.
type TenantProfile struct {
	DisplayName  string   `yaml:"display_name"`
	Plan         string   `yaml:"plan"`
	Features     []string `yaml:"features"`
	SupportEmail string   `yaml:"support_email"`
}

// TenantCache configura el cache por tenant (driver cached).
type TenantCache struct {
	// Driver: memory | redis
	Driver string `yaml:"driver"`
	TTL    string `yaml:"ttl"`
	Prefix string `yaml:"prefix"`
}

// TenantMailer configura el candidato de notificaciones del tenant.
type TenantMailer struct {
	// Driver: smtp | log
	Driver string `yaml:"driver"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "15s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Resolver.EmptyKey == "" {
		c.Resolver.EmptyKey = "not_found"
	}
	if c.Resolver.TenantHeader == "" {
		c.Resolver.TenantHeader = "X-Tenant-Key"
	}
	if c.Auth.TenantClaim == "" {
		c.Auth.TenantClaim = "tid"
	}
	if c.SMTP.TLS == "" {
		c.SMTP.TLS = "auto"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "2m"
	}
	if c.Database.Pool.MaxConns <= 0 {
		c.Database.Pool.MaxConns = 15
	}
	if c.Database.Pool.MinConns <= 0 {
		c.Database.Pool.MinConns = 2
	}
	if c.Database.Pool.ConnMaxLifetime == "" {
		c.Database.Pool.ConnMaxLifetime = "30m"
	}
	for i := range c.Tenants {
		t := &c.Tenants[i]
		if t.Directory.Driver == "" {
			t.Directory.Driver = "static"
		}
		if t.Directory.Cache.Driver == "" {
			t.Directory.Cache.Driver = "memory"
		}
		if t.Directory.Cache.TTL == "" {
			t.Directory.Cache.TTL = c.Cache.Memory.DefaultTTL
		}
		if t.Mailer.Driver == "" {
			t.Mailer.Driver = "log"
		}
	}

	// env overrides
	if v := strings.TrimSpace(os.Getenv("APP_ENV")); v != "" {
		c.App.Env = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("TENANTD_ADDR")); v != "" {
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("TENANTD_REDIS_ADDR")); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("TENANTD_AUTH_SECRET")); v != "" {
		c.Auth.HS256Secret = v
		c.Auth.Enabled = true
	}

	// validate string durations
	for _, d := range []string{
		c.Server.ReadTimeout, c.Server.WriteTimeout, c.Server.ShutdownTimeout,
		c.Cache.Memory.DefaultTTL, c.Database.Pool.ConnMaxLifetime,
	} {
		if _, err := time.ParseDuration(d); err != nil {
			return nil, err
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate chequea la tabla de tenants: keys únicos, drivers conocidos,
// y que pg tenga DSN. Los errores acá son defectos de configuración y deben
// frenar el arranque, no aparecer recién al primer request.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Resolver.EmptyKey) {
	case "wildcard", "not_found", "notfound":
	default:
		return fmt.Errorf("config: resolver.empty_key inválido: %q", c.Resolver.EmptyKey)
	}

	seen := make(map[string]bool, len(c.Tenants))
	for i, t := range c.Tenants {
		if strings.TrimSpace(t.Key) == "" {
			return fmt.Errorf("config: tenants[%d]: key vacío", i)
		}
		if seen[t.Key] {
			return fmt.Errorf("config: tenant key duplicado: %q", t.Key)
		}
		seen[t.Key] = true

		switch t.Directory.Driver {
		case "static", "cached":
		case "pg":
			if strings.TrimSpace(t.Directory.DSNEnc) == "" {
				return fmt.Errorf("config: tenant %q: directory.dsn_enc requerido para driver pg", t.Key)
			}
		default:
			return fmt.Errorf("config: tenant %q: directory.driver desconocido: %q", t.Key, t.Directory.Driver)
		}

		switch t.Directory.Cache.Driver {
		case "memory", "redis":
		default:
			return fmt.Errorf("config: tenant %q: cache.driver desconocido: %q", t.Key, t.Directory.Cache.Driver)
		}
		if t.Directory.Cache.TTL != "" {
			if _, err := time.ParseDuration(t.Directory.Cache.TTL); err != nil {
				return fmt.Errorf("config: tenant %q: cache.ttl: %w", t.Key, err)
			}
		}

		switch t.Mailer.Driver {
		case "smtp", "log":
		default:
			return fmt.Errorf("config: tenant %q: mailer.driver desconocido: %q", t.Key, t.Mailer.Driver)
		}
	}
	return nil
}
