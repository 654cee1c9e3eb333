package service

import (
	"context"
	"time"

	"github.com/dhchicaiza/registros/internal/errs"
	"github.com/dhchicaiza/registros/internal/model"
	"github.com/dhchicaiza/registros/internal/sqlerr"
	"github.com/rs/zerolog"
)

// notifyTimeout bounds the notification enqueue that follows a create.
const notifyTimeout = 500 * time.Millisecond

const (
	notFoundMessage  = "Registro no encontrado"
	readErrorMessage = "Error al conectar o consultar la base de datos"
)

// RegistroStore is the persistence the registro service needs.
type RegistroStore interface {
	Create(ctx context.Context, nombre, mensaje string) (*model.Registro, error)
	List(ctx context.Context) ([]model.Registro, error)
	GetByID(ctx context.Context, id int64) (*model.Registro, error)
	Update(ctx context.Context, id int64, nombre, mensaje string) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// Notifier is told about every created registro.
type Notifier interface {
	NotifyRegistroCreated(ctx context.Context, registro *model.Registro) error
}

type RegistroService struct {
	store         RegistroStore
	notifier      Notifier
	notifyTimeout time.Duration
	logger        *zerolog.Logger
}

// NewRegistroService creates the service. notifier may be nil.
func NewRegistroService(store RegistroStore, notifier Notifier, logger *zerolog.Logger) *RegistroService {
	return &RegistroService{
		store:         store,
		notifier:      notifier,
		notifyTimeout: notifyTimeout,
		logger:        logger,
	}
}

func (s *RegistroService) Create(ctx context.Context, req *model.CreateRegistroRequest) (*model.StatusResponse, error) {
	registro, err := s.store.Create(ctx, *req.Nombre, *req.Mensaje)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}

	s.notify(ctx, registro)

	return &model.StatusResponse{Status: model.StatusCreated}, nil
}

func (s *RegistroService) List(ctx context.Context, _ *model.ListRegistrosRequest) ([]model.Registro, error) {
	registros, err := s.store.List(ctx)
	if err != nil {
		return nil, readError(err)
	}
	return registros, nil
}

func (s *RegistroService) Get(ctx context.Context, req *model.GetRegistroRequest) (*model.Registro, error) {
	registro, err := s.store.GetByID(ctx, req.ID)
	if err != nil {
		return nil, readError(err)
	}
	return registro, nil
}

func (s *RegistroService) Update(ctx context.Context, req *model.UpdateRegistroRequest) (*model.StatusResponse, error) {
	affected, err := s.store.Update(ctx, req.ID, req.Nombre, req.Mensaje)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	if affected == 0 {
		return nil, errs.NewNotFound(notFoundMessage)
	}
	return &model.StatusResponse{Status: model.StatusUpdated}, nil
}

func (s *RegistroService) Delete(ctx context.Context, req *model.DeleteRegistroRequest) (*model.StatusResponse, error) {
	affected, err := s.store.Delete(ctx, req.ID)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	if affected == 0 {
		return nil, errs.NewNotFound(notFoundMessage)
	}
	return &model.StatusResponse{Status: model.StatusDeleted}, nil
}

// notify enqueues the created notification and waits at most notifyTimeout.
// The row is already committed, so a slow queue or a canceled request must
// not hold up the response. The queue client may not honor the deadline, so
// a late enqueue finishes in the background and is only logged.
func (s *RegistroService) notify(ctx context.Context, registro *model.Registro) {
	if s.notifier == nil {
		return
	}

	logger := s.loggerFor(ctx)
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()

		if err := s.notifier.NotifyRegistroCreated(notifyCtx, registro); err != nil {
			logger.Warn().
				Err(err).
				Int64("registro_id", registro.ID).
				Dur("timeout", s.notifyTimeout).
				Msg("failed to enqueue registro created notification")
		}
	}()

	select {
	case <-done:
	case <-notifyCtx.Done():
	}
}

// loggerFor prefers the request-scoped logger stored in ctx.
func (s *RegistroService) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}

// readError classifies a read failure. Server-side failures carry the fixed
// read message with the driver text as details.
func readError(err error) error {
	classified := sqlerr.HandleError(err)

	appErr, ok := classified.(*errs.Error)
	if !ok || appErr.Kind == errs.KindNotFound {
		return classified
	}
	return appErr.WithMessage(readErrorMessage)
}
