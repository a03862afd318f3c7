package notify

import (
	"context"
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail"

	"github.com/dropDatabas3/tenantd/internal/observability/logger"
)

// SMTPMailer implementa Mailer usando SMTP.
type SMTPMailer struct {
	Host               string
	Port               int
	From               string
	User               string
	Pass               string
	TLSMode            string // "auto" | "starttls" | "ssl" | "none"
	InsecureSkipVerify bool
	tenant             string
}

// NewSMTP crea un mailer SMTP para un tenant.
func NewSMTP(tenant, host string, port int, from, user, pass string) *SMTPMailer {
	return &SMTPMailer{
		Host:    host,
		Port:    port,
		From:    from,
		User:    user,
		Pass:    pass,
		TLSMode: "auto",
		tenant:  tenant,
	}
}

// Send envía la notificación por SMTP.
func (s *SMTPMailer) Send(ctx context.Context, msg Message) error {
	log := logger.From(ctx).With(
		logger.Component("SMTPMailer"),
		logger.TenantKey(s.tenant),
		logger.String("host", s.Host),
		logger.String("to", msg.To),
	)

	m := mail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	d.TLSConfig = &tls.Config{
		ServerName:         s.Host,
		InsecureSkipVerify: s.InsecureSkipVerify, // solo dev
	}

	switch s.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.TLSConfig = &tls.Config{InsecureSkipVerify: s.InsecureSkipVerify}
	default:
		// "auto"/"starttls": go-mail negocia STARTTLS si corresponde
	}

	if err := d.DialAndSend(m); err != nil {
		log.Error("smtp send failed", logger.Err(err))
		return fmt.Errorf("notify: smtp send: %w", err)
	}

	log.Info("notification sent")
	return nil
}
