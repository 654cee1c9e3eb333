package model

// CreateRegistroRequest is the body of POST /api/crear.
//
// Both keys must be present. Empty strings are accepted.
type CreateRegistroRequest struct {
	Nombre  *string `json:"nombre" validate:"required"`
	Mensaje *string `json:"mensaje" validate:"required"`
}

func (r *CreateRegistroRequest) Validate() error {
	return validate.Struct(r)
}

func (r *CreateRegistroRequest) ValidationMessage() string {
	return "Faltan campos requeridos"
}

// ListRegistrosRequest has no input.
type ListRegistrosRequest struct{}

func (r *ListRegistrosRequest) Validate() error {
	return nil
}

// GetRegistroRequest addresses a single registro by id.
type GetRegistroRequest struct {
	ID int64 `param:"id" json:"-"`
}

func (r *GetRegistroRequest) Validate() error {
	return nil
}

// UpdateRegistroRequest is the body of PUT /api/registros/:id.
// Both fields are required and must not be empty.
type UpdateRegistroRequest struct {
	ID      int64  `param:"id" json:"-"`
	Nombre  string `json:"nombre" validate:"required"`
	Mensaje string `json:"mensaje" validate:"required"`
}

func (r *UpdateRegistroRequest) Validate() error {
	return validate.Struct(r)
}

func (r *UpdateRegistroRequest) ValidationMessage() string {
	return "Nombre y mensaje son requeridos"
}

// DeleteRegistroRequest addresses a single registro by id.
type DeleteRegistroRequest struct {
	ID int64 `param:"id" json:"-"`
}

func (r *DeleteRegistroRequest) Validate() error {
	return nil
}
