package directory

import "context"

// StaticService sirve el perfil directamente desde la configuración.
// Es el driver por defecto: cero dependencias externas, útil para tenants
// chicos y para tests.
type StaticService struct {
	profile Profile
}

// NewStatic crea un servicio de directorio respaldado por config.
func NewStatic(p Profile) *StaticService {
	return &StaticService{profile: p}
}

func (s *StaticService) Profile(_ context.Context) (Profile, error) {
	// Copia defensiva del slice: el caller no debe poder mutar la config.
	out := s.profile
	if len(s.profile.Features) > 0 {
		out.Features = append([]string(nil), s.profile.Features...)
	}
	return out, nil
}
