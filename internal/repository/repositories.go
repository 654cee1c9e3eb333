package repository

import (
	"github.com/dhchicaiza/registros/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Registros *RegistroRepository
}

// NewRepositories constructs the repository container from the shared
// database provider on s.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Registros: NewRegistroRepository(s.DB, s.Config.Database.QueryTimeout),
	}
}
