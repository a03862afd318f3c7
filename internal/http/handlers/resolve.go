package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/tenantd/internal/capability"
	"github.com/dropDatabas3/tenantd/internal/http/middlewares"
)

type resolveReport struct {
	Capability string `json:"capability"`
	TenantKey  string `json:"tenant_key"`
	Candidate  string `json:"candidate"`
	Concrete   string `json:"concrete"`
}

// ResolveDryRun es el endpoint de diagnóstico: informa qué candidato
// seleccionaría el resolver para el tenant del request, sin construir nada.
func ResolveDryRun(reg *capability.Registry, res *capability.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "capability")
		capT, ok := reg.Capability(name)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown_capability", "capability no registrada: "+name)
			return
		}

		key := middlewares.GetTenantKey(r.Context())
		d, err := res.Match(capT, key)
		if err != nil {
			writeError(w, http.StatusNotFound, "tenant_not_found", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, resolveReport{
			Capability: capT.String(),
			TenantKey:  key,
			Candidate:  d.Name(),
			Concrete:   d.Concrete().String(),
		})
	}
}
