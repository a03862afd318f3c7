package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/dropDatabas3/tenantd/internal/capability"
	"github.com/dropDatabas3/tenantd/internal/http/middlewares"
	"github.com/dropDatabas3/tenantd/internal/metrics"
	"github.com/dropDatabas3/tenantd/internal/notify"
	"github.com/dropDatabas3/tenantd/internal/observability/logger"
	"github.com/dropDatabas3/tenantd/internal/scope"
)

const capNotify = "notify.Mailer"

type notifyRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type notifyResponse struct {
	Status    string `json:"status"`
	Candidate string `json:"candidate"`
}

// Notify resuelve notify.Mailer para el tenant del request y envía el mensaje.
func Notify(res *capability.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req notifyRequest
		if !readStrictJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.To) == "" || strings.TrimSpace(req.Subject) == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "to y subject son obligatorios")
			return
		}

		ctx := r.Context()
		key := middlewares.GetTenantKey(ctx)
		sc := scope.FromContext(ctx)
		if sc == nil {
			writeError(w, http.StatusInternalServerError, "internal", "request scope missing")
			return
		}

		start := time.Now()
		mailer, d, err := capability.ResolveMatched[notify.Mailer](ctx, res, sc, key)
		if err != nil {
			if capability.IsNotFound(err) {
				metrics.ObserveResolve(capNotify, "not_found", start)
				writeError(w, http.StatusNotFound, "tenant_not_found", err.Error())
				return
			}
			metrics.ObserveResolve(capNotify, "error", start)
			logger.From(ctx).Error("mailer resolve failed",
				logger.Capability(capNotify), logger.TenantKey(key), logger.Err(err))
			writeError(w, http.StatusInternalServerError, "resolve_failed", "no se pudo construir el mailer")
			return
		}
		metrics.ObserveResolve(capNotify, "ok", start)

		msg := notify.Message{To: req.To, Subject: req.Subject, Body: req.Body}
		if err := mailer.Send(ctx, msg); err != nil {
			logger.From(ctx).Error("notification failed",
				logger.Candidate(d.Name()), logger.Err(err))
			writeError(w, http.StatusBadGateway, "send_failed", "el envío falló")
			return
		}

		writeJSON(w, http.StatusAccepted, notifyResponse{
			Status:    "sent",
			Candidate: d.Name(),
		})
	}
}
