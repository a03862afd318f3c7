package notify

import (
	"context"

	"github.com/dropDatabas3/tenantd/internal/observability/logger"
)

// LogMailer escribe la notificación en el log en vez de enviarla.
// Es el driver por defecto en dev y en tenants sin SMTP configurado.
type LogMailer struct {
	tenant string
}

// NewLog crea un mailer que sólo loguea.
func NewLog(tenant string) *LogMailer {
	return &LogMailer{tenant: tenant}
}

func (l *LogMailer) Send(ctx context.Context, msg Message) error {
	logger.From(ctx).Info("notification (log driver)",
		logger.Component("LogMailer"),
		logger.TenantKey(l.tenant),
		logger.String("to", msg.To),
		logger.String("subject", msg.Subject),
		logger.Int("body_len", len(msg.Body)),
	)
	return nil
}
