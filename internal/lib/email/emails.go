package email

import (
	"context"
	"fmt"
)

// RegistroCreatedData is the data of the registro_creado template.
type RegistroCreatedData struct {
	ID      int64
	Nombre  string
	Mensaje string
	Fecha   string
}

// SendRegistroCreatedEmail announces a new registro to the notification address.
func (c *Client) SendRegistroCreatedEmail(ctx context.Context, data RegistroCreatedData) error {
	return c.SendEmail(
		ctx,
		fmt.Sprintf("Nuevo registro #%d de %s", data.ID, data.Nombre),
		TemplateRegistroCreated,
		data,
	)
}
