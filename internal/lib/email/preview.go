package email

// PreviewData contains sample template data for local preview/testing.
var PreviewData = map[Template]any{
	TemplateRegistroCreated: RegistroCreatedData{
		ID:      1,
		Nombre:  "Ana",
		Mensaje: "Hola",
		Fecha:   "2024-01-01 12:00:00",
	},
}
