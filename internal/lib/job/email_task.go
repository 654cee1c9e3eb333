package job

import (
	"encoding/json"
	"time"

	"github.com/dhchicaiza/registros/internal/model"
	"github.com/hibiken/asynq"
)

const (
	// TaskRegistroCreated is the job type name stored in Redis.
	TaskRegistroCreated = "registro:created"
)

// RegistroCreatedPayload is the JSON payload of the registro created task.
type RegistroCreatedPayload struct {
	ID      int64  `json:"id"`
	Nombre  string `json:"nombre"`
	Mensaje string `json:"mensaje"`
	Fecha   string `json:"fecha"`
}

// NewRegistroCreatedTask builds the notification task for registro.
//
// It is retried up to 3 times on the "low" queue and killed after 30 seconds.
func NewRegistroCreatedTask(registro *model.Registro) (*asynq.Task, error) {
	payload, err := json.Marshal(RegistroCreatedPayload{
		ID:      registro.ID,
		Nombre:  registro.Nombre,
		Mensaje: registro.Mensaje,
		Fecha:   registro.Fecha.String(),
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskRegistroCreated,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("low"),
		asynq.Timeout(30*time.Second),
	), nil
}
