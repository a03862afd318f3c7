package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/tenantd/internal/infra/tenantpg"
)

// ErrProfileNotFound indica que la base del tenant no tiene perfil cargado.
var ErrProfileNotFound = errors.New("directory: profile not found")

// PostgresService lee el perfil desde la base del tenant. El pool se pide
// al manager en cada llamada: es barato (map lookup) y evita retener
// referencias a pools que el manager pueda cerrar.
type PostgresService struct {
	pools  *tenantpg.Manager
	tenant string
	schema string
}

// NewPostgres crea un servicio de directorio respaldado por Postgres.
func NewPostgres(pools *tenantpg.Manager, tenant, schema string) *PostgresService {
	if schema == "" {
		schema = "public"
	}
	return &PostgresService{pools: pools, tenant: tenant, schema: schema}
}

func (s *PostgresService) Profile(ctx context.Context) (Profile, error) {
	pool, err := s.pools.Get(ctx, s.tenant)
	if err != nil {
		return Profile{}, fmt.Errorf("directory: pool for %q: %w", s.tenant, err)
	}

	query := fmt.Sprintf(
		`SELECT display_name, plan, COALESCE(features, '{}'), COALESCE(support_email, '')
		   FROM %s.tenant_profile LIMIT 1`, pgx.Identifier{s.schema}.Sanitize())

	var p Profile
	err = pool.QueryRow(ctx, query).Scan(&p.DisplayName, &p.Plan, &p.Features, &p.SupportEmail)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrProfileNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("directory: query profile for %q: %w", s.tenant, err)
	}
	return p, nil
}
