package handlers

import (
	"net/http"

	"github.com/dropDatabas3/tenantd/internal/capability"
)

type healthResponse struct {
	Status       string   `json:"status"`
	Capabilities []string `json:"capabilities"`
}

// Health responde mientras el proceso esté vivo, con el inventario de
// capabilities registradas como dato de diagnóstico.
func Health(reg *capability.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caps := reg.Capabilities()
		names := make([]string, 0, len(caps))
		for _, t := range caps {
			names = append(names, t.String())
		}
		writeJSON(w, http.StatusOK, healthResponse{
			Status:       "ok",
			Capabilities: names,
		})
	}
}
