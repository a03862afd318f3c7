// Package notify define la capability de notificaciones salientes. Cada
// tenant elige su driver (smtp o log); el resolver selecciona el candidato
// por tenant key igual que con cualquier otra capability.
package notify

import "context"

// Message es la notificación mínima que aceptan todos los drivers.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Mailer es la capability de envío. La implementación decide el transporte.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
