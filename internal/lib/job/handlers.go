package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dhchicaiza/registros/internal/lib/email"
	"github.com/dhchicaiza/registros/internal/model"
	"github.com/hibiken/asynq"
)

// NotifyRegistroCreated enqueues a TaskRegistroCreated for registro.
func (j *JobService) NotifyRegistroCreated(ctx context.Context, registro *model.Registro) error {
	task, err := NewRegistroCreatedTask(registro)
	if err != nil {
		return fmt.Errorf("failed to build registro created task: %w", err)
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue registro created task: %w", err)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Int64("registro_id", registro.ID).
		Msg("Enqueued registro created task")

	return nil
}

// handleRegistroCreatedTask sends the notification e-mail.
// A returned error makes Asynq schedule a retry.
func (j *JobService) handleRegistroCreatedTask(ctx context.Context, t *asynq.Task) error {
	var p RegistroCreatedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// Malformed payloads never succeed on retry.
		return fmt.Errorf("failed to unmarshal registro created payload: %v: %w", err, asynq.SkipRetry)
	}

	j.logger.Info().
		Str("type", TaskRegistroCreated).
		Int64("registro_id", p.ID).
		Msg("Processing registro created task")

	err := j.sender.SendRegistroCreatedEmail(ctx, email.RegistroCreatedData{
		ID:      p.ID,
		Nombre:  p.Nombre,
		Mensaje: p.Mensaje,
		Fecha:   p.Fecha,
	})
	if err != nil {
		j.logger.Error().
			Str("type", TaskRegistroCreated).
			Int64("registro_id", p.ID).
			Err(err).
			Msg("Failed to send registro created email")
		return err
	}

	j.logger.Info().
		Str("type", TaskRegistroCreated).
		Int64("registro_id", p.ID).
		Msg("Successfully handled registro created task")

	return nil
}
