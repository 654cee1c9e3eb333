package email

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateRegistroCreated corresponds to web/templates/emails/registro_creado.html
	TemplateRegistroCreated Template = "registro_creado"
)

func (t Template) file() string {
	return string(t) + ".html"
}
