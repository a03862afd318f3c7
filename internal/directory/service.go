// Package directory expone el perfil de un tenant (plan, features, contacto).
// Es la capability de referencia del servicio: cada tenant elige su backend
// (static, pg o cached) vía configuración, y el resolver selecciona el
// candidato correspondiente por tenant key.
package directory

import "context"

// Profile es la vista pública del tenant que sirven todos los drivers.
type Profile struct {
	DisplayName  string   `json:"display_name"`
	Plan         string   `json:"plan"`
	Features     []string `json:"features,omitempty"`
	SupportEmail string   `json:"support_email,omitempty"`
}

// Service es la capability de directorio. Los candidatos se registran por
// tenant y se construyen dentro del scope del request.
type Service interface {
	Profile(ctx context.Context) (Profile, error)
}
