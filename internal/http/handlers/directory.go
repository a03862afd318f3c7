package handlers

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/tenantd/internal/capability"
	"github.com/dropDatabas3/tenantd/internal/directory"
	"github.com/dropDatabas3/tenantd/internal/http/middlewares"
	"github.com/dropDatabas3/tenantd/internal/metrics"
	"github.com/dropDatabas3/tenantd/internal/observability/logger"
	"github.com/dropDatabas3/tenantd/internal/scope"
)

const capDirectory = "directory.Service"

type directoryProfileResponse struct {
	TenantKey string            `json:"tenant_key"`
	Candidate string            `json:"candidate"`
	Profile   directory.Profile `json:"profile"`
}

// DirectoryProfile resuelve directory.Service para el tenant del request y
// devuelve su perfil.
func DirectoryProfile(res *capability.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		key := middlewares.GetTenantKey(ctx)
		sc := scope.FromContext(ctx)
		if sc == nil {
			writeError(w, http.StatusInternalServerError, "internal", "request scope missing")
			return
		}

		start := time.Now()
		svc, d, err := capability.ResolveMatched[directory.Service](ctx, res, sc, key)
		if err != nil {
			if capability.IsNotFound(err) {
				metrics.ObserveResolve(capDirectory, "not_found", start)
				writeError(w, http.StatusNotFound, "tenant_not_found", err.Error())
				return
			}
			metrics.ObserveResolve(capDirectory, "error", start)
			logger.From(ctx).Error("directory resolve failed",
				logger.Capability(capDirectory), logger.TenantKey(key), logger.Err(err))
			writeError(w, http.StatusInternalServerError, "resolve_failed", "no se pudo construir el servicio de directorio")
			return
		}
		metrics.ObserveResolve(capDirectory, "ok", start)

		p, err := svc.Profile(ctx)
		if err != nil {
			logger.From(ctx).Error("directory profile failed",
				logger.Candidate(d.Name()), logger.Err(err))
			writeError(w, http.StatusBadGateway, "directory_unavailable", "la fuente de directorio no respondió")
			return
		}

		writeJSON(w, http.StatusOK, directoryProfileResponse{
			TenantKey: key,
			Candidate: d.Name(),
			Profile:   p,
		})
	}
}
