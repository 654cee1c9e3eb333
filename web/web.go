// Package web embeds the HTML templates and static assets served by the
// HTTP server and used by the e-mail client.
package web

import "embed"

// FS holds templates/ (index page, e-mails) and static/ (OpenAPI UI and document).
//
//go:embed templates static
var FS embed.FS
