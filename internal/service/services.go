package service

import (
	"github.com/dhchicaiza/registros/internal/lib/job"
	"github.com/dhchicaiza/registros/internal/repository"
	"github.com/dhchicaiza/registros/internal/server"
)

type Services struct {
	Registro *RegistroService
	Job      *job.JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	// A nil *job.JobService must not end up inside the Notifier interface.
	var notifier Notifier
	if s.Job != nil {
		notifier = s.Job
	}

	return &Services{
		Registro: NewRegistroService(repos.Registros, notifier, s.Logger),
		Job:      s.Job,
	}, nil
}
